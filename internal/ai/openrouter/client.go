package openrouter

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-resty/resty/v2"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/ai"
	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/utils"
)

const (
	DefaultBaseURL = "https://openrouter.ai/api/v1"
	defaultModel   = "openai/gpt-4o-mini"

	defaultMaxLogLength = 200
	systemPrompt        = "You classify engineering career entries. Answer with JSON only."
)

type Config struct {
	BaseURL      string        `mapstructure:"base-url"`
	Model        string        `mapstructure:"model"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MaxRetries   int           `mapstructure:"max-retries"`
	MaxLogLength int           `mapstructure:"max-log-length"`
}

// Client talks to the OpenRouter chat completions API.
type Client struct {
	http      *resty.Client
	model     string
	maxLogLen int
	logger    *zap.Logger
}

func New(apiKey string, cfg Config, log *zap.Logger) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("openrouter api key is required")
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	maxLogLen := cfg.MaxLogLength
	if maxLogLen <= 0 {
		maxLogLen = defaultMaxLogLength
	}

	httpClient := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(apiKey).
		SetHeader("Content-Type", "application/json").
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || (r != nil && (r.StatusCode() == 429 || r.StatusCode() >= 500))
		})
	if cfg.Timeout > 0 {
		httpClient.SetTimeout(cfg.Timeout)
	}

	return &Client{
		http:      httpClient,
		model:     model,
		maxLogLen: maxLogLen,
		logger:    logger.WithCommonFields(log, "openrouter", model),
	}, nil
}

func (c *Client) Model() string { return c.model }

// Judge implements ai.Judge.
func (c *Client) Judge(ctx context.Context, criteria ai.Criteria, batch []ai.Candidate) ([]ai.Verdict, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	prompt, err := ai.BuildPrompt(criteria, batch)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("openrouter request",
		zap.Int("batch_size", len(batch)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, c.maxLogLen)),
	)

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"model": c.model,
			"messages": []map[string]string{
				{"role": "system", "content": systemPrompt},
				{"role": "user", "content": prompt},
			},
			"temperature": 0,
		}).
		Post("/chat/completions")
	if err != nil {
		return nil, fmt.Errorf("openrouter request: %w", err)
	}

	body := resp.String()
	if resp.IsError() {
		return nil, fmt.Errorf("openrouter returned %d: %s", resp.StatusCode(), utils.TruncateForLog(gjson.Get(body, "error.message").String(), c.maxLogLen))
	}

	text := gjson.Get(body, "choices.0.message.content").String()
	c.logger.Debug("openrouter response",
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, c.maxLogLen)),
	)
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("openrouter: %w", ai.ErrNoVerdicts)
	}

	verdicts, err := ai.ParseVerdicts(text)
	if err != nil {
		return nil, fmt.Errorf("parse openrouter response: %w", err)
	}
	return verdicts, nil
}
