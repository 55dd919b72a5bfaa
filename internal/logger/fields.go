package logger

import (
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldProvider is the structured log field key for the classification provider name.
	FieldProvider = "ai_provider"
	// FieldModel is the structured log field key for the classification model identifier.
	FieldModel = "ai_model"
	// FieldDocument is the structured log field key for the document id.
	FieldDocument = "document_id"
	// FieldPath is the structured log field key for the document path.
	FieldPath = "document_path"
	// FieldStage is the structured log field key for the pipeline stage.
	FieldStage = "stage"
	// FieldPage is the structured log field key for a 1-based page number.
	FieldPage = "page"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts the provided key/value pairs into zap fields, trimming
// whitespace and omitting entries with empty keys or values.
func StringFields(fields ...StringField) []zap.Field {
	result := make([]zap.Field, 0, len(fields))
	for _, field := range fields {
		key := strings.TrimSpace(field.Key)
		if key == "" {
			continue
		}

		value := strings.TrimSpace(field.Value)
		if value == "" {
			continue
		}

		result = append(result, zap.String(key, value))
	}

	return result
}

// WithFields safely attaches the provided fields to the logger.
// A nil logger is replaced with a no-op logger.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields returns standard zap fields that describe the classification provider and model.
func CommonFields(provider, model string) []zap.Field {
	return StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)
}

// WithCommonFields attaches the provider fields to the provided logger.
func WithCommonFields(logger *zap.Logger, provider, model string) *zap.Logger {
	return WithFields(logger, CommonFields(provider, model)...)
}

// DocumentFields describes a document going through the pipeline.
func DocumentFields(id, path string) []zap.Field {
	return StringFields(
		StringField{Key: FieldDocument, Value: id},
		StringField{Key: FieldPath, Value: path},
	)
}

// StageFields tags log entries with a pipeline stage and an optional page.
// Page numbers are 1-based; zero or negative pages are omitted.
func StageFields(stage string, page int) []zap.Field {
	value := ""
	if page > 0 {
		value = strconv.Itoa(page)
	}
	return StringFields(
		StringField{Key: FieldStage, Value: stage},
		StringField{Key: FieldPage, Value: value},
	)
}
