package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// FileName is the log file created under the logs directory.
const FileName = "paramedit.log"

// New creates a file-only JSON logger under dir/logs. The terminal belongs
// to the TUI, so nothing is written to stdout or stderr.
// LOG_LEVEL overrides level when set.
func New(dir, level string) (*zap.Logger, func(), error) {
	logsDir := filepath.Join(dir, "logs")
	if err := os.MkdirAll(logsDir, 0700); err != nil {
		return nil, nil, fmt.Errorf("create logs dir: %w", err)
	}

	// Setup logger with file rotation
	fileWriter := zapcore.AddSync(&lumberjack.Logger{
		Filename:   filepath.Join(logsDir, FileName),
		MaxSize:    2, // megabytes
		MaxBackups: 5,
		MaxAge:     15, // days
		Compress:   true,
	})

	cfg := zap.NewProductionConfig()
	encoder := zapcore.NewJSONEncoder(cfg.EncoderConfig)

	if env := os.Getenv("LOG_LEVEL"); env != "" {
		level = env
	}
	core := zapcore.NewCore(encoder, fileWriter, ParseLevel(level))
	logger := zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))

	return logger, func() { _ = logger.Sync() }, nil
}

// ParseLevel maps a config level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// OrNop returns logger, or a no-op logger when it is nil.
func OrNop(logger *zap.Logger) *zap.Logger {
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
