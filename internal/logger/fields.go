package logger

import (
	"strings"

	"go.uber.org/zap"
)

const (
	// FieldJob is the structured log field key for the analysed job title.
	FieldJob = "job_title"
	// FieldCandidate is the structured log field key for a candidate id.
	FieldCandidate = "candidate_id"
	// FieldLexicon carries the lexicon version the engine scores with.
	FieldLexicon = "lexicon_version"
)

// StringField describes a string-valued structured logging field.
type StringField struct {
	Key   string
	Value string
}

// StringFields converts key/value pairs into zap fields, trimming whitespace
// and omitting entries with empty keys or values.
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

// WithFields safely attaches fields to the logger, defaulting to a no-op
// logger when nil.
func WithFields(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// CommonFields describes the job and candidate a log entry is about.
// Empty values are dropped.
func CommonFields(job, candidate string) []zap.Field {
	return StringFields(
		StringField{Key: FieldJob, Value: job},
		StringField{Key: FieldCandidate, Value: candidate},
	)
}

func WithCommonFields(logger *zap.Logger, job, candidate string) *zap.Logger {
	return WithFields(logger, CommonFields(job, candidate)...)
}
