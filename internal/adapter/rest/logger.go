package rest

import (
	"context"
	"log"
	"time"
)

// Logger provides structured logging for hosting API calls.
type Logger interface {
	// LogRequest logs an outgoing API request (token redacted)
	LogRequest(ctx context.Context, req RequestLog)

	// LogResponse logs an API response with timing info
	LogResponse(ctx context.Context, resp ResponseLog)

	// LogError logs an API error
	LogError(ctx context.Context, err ErrorLog)
}

// RequestLog contains request information for logging.
type RequestLog struct {
	Host      string
	Method    string
	Path      string
	Timestamp time.Time
}

// ResponseLog contains response information for logging.
type ResponseLog struct {
	Host       string
	Method     string
	Path       string
	Timestamp  time.Time
	Duration   time.Duration
	StatusCode int
}

// ErrorLog contains error information for logging.
type ErrorLog struct {
	Host       string
	Method     string
	Path       string
	Timestamp  time.Time
	Duration   time.Duration
	Error      error
	StatusCode int
	Retryable  bool
}

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelError
)

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// DefaultLogger writes structured logs via the standard logger.
type DefaultLogger struct {
	level  LogLevel
	format LogFormat
}

// NewDefaultLogger creates a logger with the specified config.
func NewDefaultLogger(level LogLevel, format LogFormat) *DefaultLogger {
	return &DefaultLogger{level: level, format: format}
}

// LogRequest logs an API request.
func (l *DefaultLogger) LogRequest(ctx context.Context, req RequestLog) {
	if l.level > LogLevelDebug {
		return
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"debug","type":"request","host":"%s","method":"%s","path":"%s","timestamp":"%s"}`,
			req.Host, req.Method, req.Path, req.Timestamp.Format(time.RFC3339))
	} else {
		log.Printf("[DEBUG] %s: %s %s", req.Host, req.Method, req.Path)
	}
}

// LogResponse logs an API response.
func (l *DefaultLogger) LogResponse(ctx context.Context, resp ResponseLog) {
	if l.level > LogLevelInfo {
		return
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"info","type":"response","host":"%s","method":"%s","path":"%s","timestamp":"%s","duration_ms":%d,"status_code":%d}`,
			resp.Host, resp.Method, resp.Path, resp.Timestamp.Format(time.RFC3339),
			resp.Duration.Milliseconds(), resp.StatusCode)
	} else {
		log.Printf("[INFO] %s: %s %s -> %d (%.1fs)",
			resp.Host, resp.Method, resp.Path, resp.StatusCode, resp.Duration.Seconds())
	}
}

// LogError logs an API error.
func (l *DefaultLogger) LogError(ctx context.Context, e ErrorLog) {
	if l.level > LogLevelError {
		return
	}

	retryableStr := "non-retryable"
	if e.Retryable {
		retryableStr = "retryable"
	}

	if l.format == LogFormatJSON {
		log.Printf(`{"level":"error","type":"error","host":"%s","method":"%s","path":"%s","timestamp":"%s","duration_ms":%d,"error":"%s","status_code":%d,"retryable":%t}`,
			e.Host, e.Method, e.Path, e.Timestamp.Format(time.RFC3339),
			e.Duration.Milliseconds(), e.Error.Error(), e.StatusCode, e.Retryable)
	} else {
		log.Printf("[ERROR] %s: %s %s failed (status=%d, %s): %v",
			e.Host, e.Method, e.Path, e.StatusCode, retryableStr, e.Error)
	}
}
