package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileLogger writes leveled messages to a timestamped log under the atpath
// home directory and keeps latest.log pointing at it. `atpath serve` uses it
// because stdout carries the protocol.
type FileLogger struct {
	logDir   string
	file     *os.File
	path     string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger opens <logDir>/<name>-YYYYMMDD-HHMMSS.log and repoints latest.log
func NewFileLogger(logDir, name, logLevel string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(logDir, fmt.Sprintf("%s-%s.log", name, stamp))

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(path), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		file:     file,
		path:     path,
		logLevel: normalizeLogLevel(logLevel),
	}
	fl.write(fmt.Sprintf("=== atpath %s log ===\nStarted at: %s\n\n", name, time.Now().Format(time.RFC3339)))
	return fl, nil
}

// Path returns the log file location
func (fl *FileLogger) Path() string {
	return fl.path
}

func (fl *FileLogger) LogTrace(message string) { fl.logWithLevel("TRACE", message) }
func (fl *FileLogger) LogDebug(message string) { fl.logWithLevel("DEBUG", message) }
func (fl *FileLogger) LogInfo(message string)  { fl.logWithLevel("INFO", message) }
func (fl *FileLogger) LogWarn(message string)  { fl.logWithLevel("WARN", message) }
func (fl *FileLogger) LogError(message string) { fl.logWithLevel("ERROR", message) }

func (fl *FileLogger) logWithLevel(level, message string) {
	if logLevelToInt(normalizeLogLevel(level)) < logLevelToInt(fl.logLevel) {
		return
	}
	fl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

func (fl *FileLogger) write(s string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()
	if fl.file != nil {
		fl.file.WriteString(s)
	}
}

// Close syncs and closes the log file
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.file == nil {
		return nil
	}
	if err := fl.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync log file: %w", err)
	}
	if err := fl.file.Close(); err != nil {
		return fmt.Errorf("failed to close log file: %w", err)
	}
	fl.file = nil
	return nil
}
