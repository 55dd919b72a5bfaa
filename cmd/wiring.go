package cmd

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/ai"
	"github.com/spigell/career-checker/internal/ai/gemini"
	"github.com/spigell/career-checker/internal/ai/openrouter"
	"github.com/spigell/career-checker/internal/cache"
	"github.com/spigell/career-checker/internal/classify"
	"github.com/spigell/career-checker/internal/extract"
	"github.com/spigell/career-checker/internal/filtering"
	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/pipeline"
	"github.com/spigell/career-checker/internal/rules"
	"github.com/spigell/career-checker/internal/secrets"
)

const (
	providerGemini     = "gemini"
	providerOpenRouter = "openrouter"

	defaultGeminiModel = "gemini-2.5-flash"
)

var openPageCache = cache.Open

func loadCatalogue(config *Config) (*rules.Catalogue, error) {
	if path := strings.TrimSpace(config.RulesFile); path != "" {
		return rules.LoadFile(path)
	}
	return rules.Default()
}

// newExtractor builds the page extractor. The returned closer releases the page cache.
func newExtractor(config *Config, log *zap.Logger) (*extract.Extractor, func(), error) {
	opts := []extract.Option{}
	closer := func() {}

	if config.Cache.Enabled {
		path := config.Cache.Path
		if path == "" {
			path = cache.DefaultName
		}
		pages, err := openPageCache(path)
		if err != nil {
			return nil, closer, err
		}
		log.Debug("page cache enabled", zap.String("path", pages.Path()))
		opts = append(opts, extract.WithCache(pages))
		closer = func() { _ = pages.Close() }
	}

	recognizer := extract.NewTesseract(config.Tesseract, log)
	return extract.New(config.Extract, recognizer, log, opts...), closer, nil
}

func newFilters(config *Config, log *zap.Logger) *filtering.Filtering {
	return filtering.New([]filtering.Filter{
		filtering.NewRequiredFields(),
		filtering.NewDuplicates(),
		filtering.NewExcludeFile(config.ExcludeFile),
	}, log)
}

func newRunner(ctx context.Context, config *Config, catalogue *rules.Catalogue, log *zap.Logger) (*pipeline.Runner, func(), error) {
	ex, closer, err := newExtractor(config, log)
	if err != nil {
		return nil, closer, fmt.Errorf("building extractor: %w", err)
	}

	loader := pipeline.NewLoader(ex, newFilters(config, log), config.Normalize, log)

	var judge ai.Judge
	if config.Classify.Strategy == classify.StrategyService {
		judge, err = newJudge(ctx, config.AI, log)
		if err != nil {
			log.Warn("classification service unavailable; using deterministic strategy", zap.Error(err))
			judge = nil
		}
	}

	classifier := classify.New(config.Classify, judge, log)
	return pipeline.NewRunner(loader, catalogue, classifier, config.Classify.ExtraRules, *config.Score, log), closer, nil
}

func newJudge(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Judge, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider == "" {
		provider = providerGemini
	}

	switch provider {
	case providerGemini:
		gc := cfg.Gemini
		if gc == nil {
			gc = &GeminiConfig{}
		}
		if gc.Model == "" {
			gc.Model = defaultGeminiModel
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "gemini api key",
			File:  gc.APIKeyFile,
			Env:   "GEMINI_API_KEY",
			Value: gc.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
		}

		genLogger := logger.WithCommonFields(log, providerGemini, gc.Model).With(
			zap.Int("ai_retry_attempts", gc.MaxRetries),
		)
		generator, err := gemini.NewGenerator(ctx, apiKey, gc.Model, gc.MaxRetries, genLogger)
		if err != nil {
			return nil, err
		}
		return gemini.NewJudge(generator, log, gc.MaxLogLength), nil

	case providerOpenRouter:
		oc := cfg.OpenRouter
		if oc == nil {
			oc = &OpenRouterConfig{}
		}

		apiKey, err := secrets.Load(secrets.Source{
			Name:  "openrouter api key",
			File:  oc.APIKeyFile,
			Env:   "OPENROUTER_API_KEY",
			Value: oc.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w (set ai.openrouter.api-key-file or OPENROUTER_API_KEY)", err)
		}
		client, err := openrouter.New(apiKey, oc.Config, log)
		if err != nil {
			return nil, err
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
}
