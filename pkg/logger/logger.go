package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	LevelCritical = slog.Level(12)
)

type Logger interface {
	Debug(message string, args ...any)
	Info(message string, args ...any)
	Warn(message string, args ...any)
	Error(message string, args ...any)
	Critical(message string, args ...any)
	BusinessError(message string, err error, args ...any)
	InternalError(message string, err error, args ...any)
	With(args ...any) Logger
}

// Options selects level and output format. Empty values fall back to the
// environment defaults.
type Options struct {
	Level  string
	Format string
	Env    string
}

var levelsByName = map[string]slog.Level{
	"debug":    slog.LevelDebug,
	"info":     slog.LevelInfo,
	"warn":     slog.LevelWarn,
	"warning":  slog.LevelWarn,
	"error":    slog.LevelError,
	"critical": LevelCritical,
	"fatal":    LevelCritical,
}

type slogLogger struct {
	base *slog.Logger
}

// NewFromEnv reads ENV, LOG_LEVEL and LOG_FORMAT and logs to stdout.
func NewFromEnv() Logger {
	return NewWithOptions(os.Stdout, Options{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: os.Getenv("LOG_FORMAT"),
		Env:    os.Getenv("ENV"),
	})
}

func NewWithOptions(output io.Writer, opts Options) Logger {
	level, ok := levelsByName[normalize(opts.Level)]
	if !ok {
		level = slog.LevelInfo
		if normalize(opts.Env) == "development" {
			level = slog.LevelDebug
		}
	}
	return New(output, level, opts.Format)
}

// New builds a logger writing text or json (the default) records at level
// and above.
func New(output io.Writer, level slog.Level, format string) Logger {
	options := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: renameCritical,
	}

	var handler slog.Handler
	if normalize(format) == "text" {
		handler = slog.NewTextHandler(output, options)
	} else {
		handler = slog.NewJSONHandler(output, options)
	}
	return &slogLogger{base: slog.New(handler)}
}

// Nop discards everything. Used by tests and as the default for optional
// logger fields.
func Nop() Logger {
	return New(io.Discard, LevelCritical+1, "text")
}

func (l *slogLogger) log(level slog.Level, message string, args []any) {
	l.base.Log(context.Background(), level, message, args...)
}

func (l *slogLogger) Debug(message string, args ...any) { l.log(slog.LevelDebug, message, args) }

func (l *slogLogger) Info(message string, args ...any) { l.log(slog.LevelInfo, message, args) }

func (l *slogLogger) Warn(message string, args ...any) { l.log(slog.LevelWarn, message, args) }

func (l *slogLogger) Error(message string, args ...any) { l.log(slog.LevelError, message, args) }

func (l *slogLogger) Critical(message string, args ...any) { l.log(LevelCritical, message, args) }

// BusinessError records an expected failure (not found, conflict, bad
// input) at warn level. A nil err is ignored.
func (l *slogLogger) BusinessError(message string, err error, args ...any) {
	l.logError(slog.LevelWarn, message, err, args)
}

// InternalError records an unexpected failure at error level. A nil err is
// ignored.
func (l *slogLogger) InternalError(message string, err error, args ...any) {
	l.logError(slog.LevelError, message, err, args)
}

func (l *slogLogger) logError(level slog.Level, message string, err error, args []any) {
	if err == nil {
		return
	}
	l.log(level, message, append([]any{"err", err}, args...))
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{base: l.base.With(args...)}
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func renameCritical(_ []string, attr slog.Attr) slog.Attr {
	if attr.Key != slog.LevelKey {
		return attr
	}
	if level, ok := attr.Value.Any().(slog.Level); ok && level == LevelCritical {
		attr.Value = slog.StringValue("CRITICAL")
	}
	return attr
}
