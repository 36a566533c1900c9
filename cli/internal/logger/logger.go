// Package logger builds the zap logger used across commayte. Structured
// records go to a JSON log file under the user cache dir; a colour console
// copy goes to stderr only in verbose mode so the interactive screen stays clean.
package logger

import (
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const logFilename = "commayte.log"

// Options configures New. Zero value logs info and above to the default file only.
type Options struct {
	// Level is one of debug, info, warn, error (case-insensitive). Empty means info.
	Level string
	// Verbose adds a stderr console core at debug level.
	Verbose bool
	// Path overrides the log file location; empty means DefaultPath().
	// Use "-" to disable file output.
	Path string
}

// DefaultPath returns <user cache dir>/commayte/commayte.log, or "" when the
// cache dir cannot be determined.
func DefaultPath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "commayte", logFilename)
}

// ParseLevel maps a config log level to a zap level; unknown values are info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "trace":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New builds the logger. It never fails: an unwritable log file drops the
// file core, and with nothing left to write to it returns a no-op logger.
// The returned cleanup flushes buffered entries and closes the file.
func New(opts Options) (*zap.Logger, func()) {
	var cores []zapcore.Core
	cleanup := func() {}

	path := opts.Path
	if path == "" {
		path = DefaultPath()
	}
	if path != "" && path != "-" {
		if f, err := openLogFile(path); err == nil {
			cores = append(cores, zapcore.NewCore(
				zapcore.NewJSONEncoder(fileEncoderConfig()),
				zapcore.Lock(f),
				ParseLevel(opts.Level),
			))
			cleanup = func() { _ = f.Close() }
		}
	}
	if opts.Verbose {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(consoleEncoderConfig()),
			zapcore.Lock(os.Stderr),
			zapcore.DebugLevel,
		))
	}
	if len(cores) == 0 {
		return zap.NewNop(), cleanup
	}
	log := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	return log, func() {
		_ = log.Sync()
		cleanup()
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
}

func fileEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	return cfg
}

func consoleEncoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "T"
	cfg.LevelKey = "L"
	cfg.NameKey = "N"
	cfg.CallerKey = "C"
	cfg.MessageKey = "M"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg
}

// OrNop returns log, or a no-op logger when log is nil.
func OrNop(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
