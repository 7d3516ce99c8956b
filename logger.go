package innerhits

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/innerhits/model"
)

// Logger wraps slog.Logger with inner-hits specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// This is the default for library use.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSegment adds the segment identity to the logger.
func (l *Logger) WithSegment(token model.SegmentToken) *Logger {
	return &Logger{
		Logger: l.Logger.With("segment", string(token)),
	}
}

// WithDefinition adds a definition name to the logger.
func (l *Logger) WithDefinition(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("definition", name),
	}
}

// LogResolve logs one join scope resolution.
func (l *Logger) LogResolve(ctx context.Context, kind string, hit model.Hit, empty bool, err error) {
	if err != nil {
		l.ErrorContext(ctx, "resolve failed",
			"strategy", kind,
			"anchor", hit.Doc,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "resolve completed",
			"strategy", kind,
			"anchor", hit.Doc,
			"empty_scope", empty,
		)
	}
}

// LogRank logs one bounded ranking.
func (l *Logger) LogRank(ctx context.Context, hit model.Hit, matches, returned int, dur time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "rank failed",
			"anchor", hit.Doc,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "rank completed",
			"anchor", hit.Doc,
			"matches", matches,
			"returned", returned,
			"duration", dur,
		)
	}
}

// LogEvaluate logs the evaluation of one anchor hit.
func (l *Logger) LogEvaluate(ctx context.Context, hit model.Hit, definitions int, dur time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "inner hits evaluation failed",
			"anchor", hit.Doc,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "inner hits evaluation completed",
			"anchor", hit.Doc,
			"definitions", definitions,
			"duration", dur,
		)
	}
}
