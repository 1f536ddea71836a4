// Package logger provides leveled logging for atpath commands and the host
// protocol server.
//
// Core packages never log. They return notifications and report directory
// read failures through callbacks; commands forward both here. Implementations
// are safe for concurrent use.
package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/atpath/internal/models"
)

// Logger is the leveled logging surface shared by console and file loggers
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
}

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// normalizeLogLevel lowercases a level name, defaulting to "info" when unknown
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))
	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	default:
		return "info"
	}
}

func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// LogNotification routes an advisory notification to the matching level
func LogNotification(l Logger, n models.Notification) {
	switch n.Level {
	case models.LevelError:
		l.LogError(n.String())
	case models.LevelInfo:
		l.LogInfo(n.String())
	default:
		l.LogWarn(n.String())
	}
}

// LogOperation logs a completed core operation at debug level.
// Format: "search "help": 3 results in 12ms"
func LogOperation(l Logger, op, subject string, count int, unit string, d time.Duration) {
	l.LogDebug(fmt.Sprintf("%s %q: %d %s in %s", op, subject, count, unit, formatDuration(d)))
}

// ReadFailureReporter returns a walk error callback that logs at debug level.
// Subtree read failures are recovered locally and stay out of user output.
func ReadFailureReporter(l Logger) func(root models.WorkspaceRoot, rel string, err error) {
	return func(root models.WorkspaceRoot, rel string, err error) {
		n := models.NewWarning(models.KindDirectoryReadFailure, rel, "skipped unreadable folder in %s: %v", root.Name, err)
		l.LogDebug(n.String())
	}
}

// NoOpLogger discards everything
type NoOpLogger struct{}

// NewNoOpLogger creates a logger that drops every message
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string) {}
func (n *NoOpLogger) LogDebug(string) {}
func (n *NoOpLogger) LogInfo(string)  {}
func (n *NoOpLogger) LogWarn(string)  {}
func (n *NoOpLogger) LogError(string) {}
