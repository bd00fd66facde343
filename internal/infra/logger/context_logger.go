package logger

import (
	"context"
	"log/slog"
	"os"
)

type ContextKey string

const (
	// Business context keys, following OpenTelemetry semantic conventions
	// with a 'newschat.' prefix.
	SessionIDKey       ContextKey = "newschat.session.id"
	ArticleIDKey       ContextKey = "newschat.article.id"
	ProcessingStageKey ContextKey = "newschat.processing.stage"
)

// ContextLogger provides context-aware logging with business context.
type ContextLogger struct {
	logger      *slog.Logger
	serviceName string
}

// NewContextLogger creates a new context-aware logger.
func NewContextLogger(serviceName string) *ContextLogger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}
	handler := slog.NewJSONHandler(os.Stdout, opts)

	return &ContextLogger{
		logger:      slog.New(handler),
		serviceName: serviceName,
	}
}

// NewContextLoggerWith wraps an existing logger; used in tests to discard output.
func NewContextLoggerWith(logger *slog.Logger, serviceName string) *ContextLogger {
	return &ContextLogger{logger: logger, serviceName: serviceName}
}

// WithContext returns a logger with context values extracted and added as fields.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger.With("service", cl.serviceName)

	var fields []any

	if sessionID := ctx.Value(SessionIDKey); sessionID != nil {
		fields = append(fields, string(SessionIDKey), sessionID)
	}
	if articleID := ctx.Value(ArticleIDKey); articleID != nil {
		fields = append(fields, string(ArticleIDKey), articleID)
	}
	if stage := ctx.Value(ProcessingStageKey); stage != nil {
		fields = append(fields, string(ProcessingStageKey), stage)
	}

	if len(fields) > 0 {
		logger = logger.With(fields...)
	}

	return logger
}

// WithSessionID adds session ID to context for observability.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// WithArticleID adds article ID to context for observability.
func WithArticleID(ctx context.Context, articleID string) context.Context {
	return context.WithValue(ctx, ArticleIDKey, articleID)
}

// WithProcessingStage adds processing stage to context for observability.
func WithProcessingStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, ProcessingStageKey, stage)
}
