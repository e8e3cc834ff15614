// Package logging builds the zap loggers used by the config tool and the
// broker shell.
package logging

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for the file sink.
const (
	defaultMaxSizeMB  = 50
	defaultMaxBackups = 3
	defaultMaxAgeDays = 7
)

// Options configures logger construction.
type Options struct {
	// File is the log file path. Empty disables the file sink.
	File string

	// Level is the minimum level ("debug", "info", "warn", "error").
	// Empty means info.
	Level string

	// Console mirrors output to stderr in a human-readable form.
	Console bool

	// Rotation policy for the file sink. Zero values take the package
	// defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// New builds a logger from the options: a JSON file core behind size-based
// rotation, a console core, or both. With neither enabled it returns a no-op
// logger, so callers never need to nil-check.
func New(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		parsed, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("logging: parse level %q: %w", opts.Level, err)
		}
		level = parsed
	}

	var cores []zapcore.Core

	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    orDefault(opts.MaxSizeMB, defaultMaxSizeMB),
			MaxBackups: orDefault(opts.MaxBackups, defaultMaxBackups),
			MaxAge:     orDefault(opts.MaxAgeDays, defaultMaxAgeDays),
			Compress:   true,
		}
		encoder := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotated), level))
	}

	if opts.Console {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		encoder := zapcore.NewConsoleEncoder(encoderConfig)
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(os.Stderr), level))
	}

	if len(cores) == 0 {
		return zap.NewNop(), nil
	}
	return zap.New(zapcore.NewTee(cores...)), nil
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
