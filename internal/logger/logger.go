package logger

import (
	"io"
	"log/slog"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sonvt1710/coc-java/internal/cache"
)

var (
	defaultLogger *slog.Logger
	once          sync.Once
)

// Get returns the global logger instance, initializing it once
func Get() *slog.Logger {
	once.Do(func() {
		defaultLogger = initLogger()
	})
	return defaultLogger
}

// initLogger creates the global logger that writes to coc-java.log in the cache directory
// Uses lumberjack for automatic log rotation
// If the log file cannot be created, returns a no-op logger that discards all output
func initLogger() *slog.Logger {
	logPath, err := cache.GetLogFile()
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	logWriter := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    1, // 1 MB
		MaxBackups: 1,
		MaxAge:     0, // Don't delete based on age
		Compress:   false,
	}

	handler := slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	return slog.New(handler)
}

// Discard returns a logger that drops every record. Used by tests and by
// callers that build a resolver without a log file.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
