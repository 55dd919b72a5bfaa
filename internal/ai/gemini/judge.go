package gemini

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spigell/career-checker/internal/ai"
	"github.com/spigell/career-checker/internal/logger"
	"github.com/spigell/career-checker/internal/utils"
)

const (
	defaultMaxLogLength = 200

	systemInstruction = "You classify engineering career entries. Answer with JSON only."
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
	Model() string
}

// Judge classifies batches through Gemini.
type Judge struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewJudge(generator contentGenerator, log *zap.Logger, maxLogLength int) *Judge {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	return &Judge{
		generator: generator,
		logger:    logger.WithCommonFields(log, "gemini", generator.Model()),
		maxLogLen: maxLogLength,
	}
}

func (j *Judge) Judge(ctx context.Context, criteria ai.Criteria, batch []ai.Candidate) ([]ai.Verdict, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	prompt, err := ai.BuildPrompt(criteria, batch)
	if err != nil {
		return nil, err
	}

	j.logger.Debug("gemini generate content request",
		zap.Int("batch_size", len(batch)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, j.maxLogLen)),
	)

	raw, err := j.generator.GenerateContent(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	j.logger.Debug("gemini generate content response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, j.maxLogLen)),
	)

	verdicts, err := ai.ParseVerdicts(raw)
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	return verdicts, nil
}
