package monitoring

import (
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger provides structured logging with helpers for the events the
// simulator emits
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
}

// NewLogger creates a JSON logger on stdout
func NewLogger(level slog.Level) *Logger {
	return NewLoggerTo(os.Stdout, level)
}

// NewLoggerTo creates a JSON logger writing to w
func NewLoggerTo(w io.Writer, level slog.Level) *Logger {
	lv := new(slog.LevelVar)
	lv.Set(level)

	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     lv,
		AddSource: level == slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.Attr{
					Key:   "timestamp",
					Value: slog.StringValue(a.Value.Time().Format(time.RFC3339)),
				}
			}
			return a
		},
	})

	return &Logger{Logger: slog.New(handler), level: lv}
}

// SetLevel changes the level without replacing the handler
func (l *Logger) SetLevel(level slog.Level) {
	l.level.Set(level)
}

// RequestLogger logs HTTP request details
func (l *Logger) RequestLogger(requestID, method, path, ip string, statusCode int, duration time.Duration) {
	l.Info("HTTP Request",
		"request_id", requestID,
		"method", method,
		"path", path,
		"ip", ip,
		"status_code", statusCode,
		"duration_ms", duration.Milliseconds(),
	)
}

// PredictionLogger logs one completed interaction
func (l *Logger) PredictionLogger(requestID string, probability float64, accept bool, classifierCalls int, duration time.Duration) {
	l.Info("Prediction Completed",
		"request_id", requestID,
		"probability", probability,
		"accept", accept,
		"classifier_calls", classifierCalls,
		"duration_us", duration.Microseconds(),
	)
}

// ArtifactLogger logs the outcome of loading a startup artifact
func (l *Logger) ArtifactLogger(artifact, location string, err error) {
	if err != nil {
		l.Error("Artifact Load Failed",
			"artifact", artifact,
			"location", location,
			"error", err.Error(),
		)
		return
	}
	l.Info("Artifact Loaded",
		"artifact", artifact,
		"location", location,
	)
}

// APIErrorLogger logs API errors with context
func (l *Logger) APIErrorLogger(err error, requestID, method, path string, statusCode int) {
	l.Error("API Error",
		"error", err.Error(),
		"request_id", requestID,
		"method", method,
		"path", path,
		"status_code", statusCode,
	)
}

// SystemLogger logs system-level events
func (l *Logger) SystemLogger(event, details string) {
	l.Info("System Event",
		"event", event,
		"details", details,
		"uptime", time.Since(startTime).Round(time.Millisecond).String(),
	)
}

// SecurityLogger logs security-related events
func (l *Logger) SecurityLogger(event, ip, userAgent string, details map[string]interface{}) {
	attrs := []any{
		"event", event,
		"ip", ip,
		"user_agent", userAgent,
	}
	for key, value := range details {
		attrs = append(attrs, key, value)
	}

	l.Warn("Security Event", attrs...)
}

var startTime = time.Now()
