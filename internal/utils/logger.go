package utils

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

const loggerContextKey = "logger"

// Logger is the logging surface handlers and middleware depend on.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
	Slog() *slog.Logger
}

type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps a slog.Logger.
func NewSlogLogger(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

func (l *slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *slogLogger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

func (l *slogLogger) Slog() *slog.Logger {
	return l.logger
}

// ContextLogger stores a request scoped logger carrying the request id.
// It must run after RequestIDMiddleware.
func ContextLogger(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestLogger := logger.With("request_id", c.GetString("request_id"))
		c.Set(loggerContextKey, requestLogger)
		c.Next()
	}
}

// GetLogger returns the request scoped logger, or fallback when none was set.
func GetLogger(c *gin.Context, fallback Logger) Logger {
	if v, ok := c.Get(loggerContextKey); ok {
		if l, ok := v.(Logger); ok {
			return l
		}
	}
	return fallback
}

// LoggerMiddleware writes one access log line per request.
func LoggerMiddleware(logger Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if query != "" {
			args = append(args, "query", query)
		}
		if len(c.Errors) > 0 {
			args = append(args, "errors", c.Errors.String())
		}

		l := GetLogger(c, logger)
		switch status := c.Writer.Status(); {
		case status >= 500:
			l.Error("Request completed", args...)
		case status >= 400:
			l.Warn("Request completed", args...)
		default:
			l.Info("Request completed", args...)
		}
	}
}

// NewDiscardLogger returns a Logger that drops every record; used by tests.
func NewDiscardLogger() Logger {
	return NewSlogLogger(slog.New(slog.DiscardHandler))
}
