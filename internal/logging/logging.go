package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cleansweep/internal/config"
)

const defaultRotationDays = 30

// Logger adds leveled, key/value output on top of the standard logger
type Logger struct {
	*log.Logger
}

// Wrap returns a leveled Logger around l, falling back to log.Default()
func Wrap(l *log.Logger) *Logger {
	if l == nil {
		l = log.Default()
	}
	return &Logger{Logger: l}
}

func (l *Logger) Info(msg string, args ...interface{}) {
	l.logWithLevel("INFO", msg, args...)
}

func (l *Logger) Warn(msg string, args ...interface{}) {
	l.logWithLevel("WARN", msg, args...)
}

func (l *Logger) Error(msg string, args ...interface{}) {
	l.logWithLevel("ERROR", msg, args...)
}

func (l *Logger) logWithLevel(level, msg string, args ...interface{}) {
	var parts []interface{}
	parts = append(parts, fmt.Sprintf("[%s]", level), msg)
	parts = append(parts, args...)
	l.Logger.Println(parts...)
}

// NewWithConfig creates a logger writing to stderr and, when configured,
// to a log file that is rotated by age
func NewWithConfig(cfg *config.Config) *log.Logger {
	flags := log.LstdFlags | log.Lmicroseconds
	if cfg == nil || cfg.Logging.File == "" {
		return log.New(os.Stderr, "", flags)
	}

	filePath := cfg.Logging.File
	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		log.Printf("failed to ensure log directory for %s: %v", filePath, err)
	}

	rotateDays := defaultRotationDays
	if cfg.Logging.RotationDays > 0 {
		rotateDays = cfg.Logging.RotationDays
	}
	rotateLogsIfNeeded(filePath, rotateDays)

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		log.Printf("failed to open log file %s: %v", filePath, err)
		return log.New(os.Stderr, "", flags)
	}

	return log.New(io.MultiWriter(os.Stderr, f), "", flags)
}

// rotateLogsIfNeeded renames the log file once it is older than rotationDays
func rotateLogsIfNeeded(logPath string, rotationDays int) {
	info, err := os.Stat(logPath)
	if err != nil {
		return
	}

	cutoffTime := time.Now().AddDate(0, 0, -rotationDays)
	if !info.ModTime().Before(cutoffTime) {
		return
	}

	rotatedPath := logPath + "." + info.ModTime().Format("20060102-150405")
	if err := os.Rename(logPath, rotatedPath); err != nil {
		log.Printf("failed to rotate log file: %v", err)
		return
	}

	cleanupOldLogs(logPath, rotationDays)
}

// cleanupOldLogs removes rotated siblings of logPath older than rotationDays
func cleanupOldLogs(logPath string, rotationDays int) {
	dir := filepath.Dir(logPath)
	prefix := filepath.Base(logPath) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	cutoffTime := time.Now().AddDate(0, 0, -rotationDays)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoffTime) {
			fullPath := filepath.Join(dir, entry.Name())
			if err := os.Remove(fullPath); err != nil {
				log.Printf("failed to remove old log file %s: %v", fullPath, err)
			}
		}
	}
}
