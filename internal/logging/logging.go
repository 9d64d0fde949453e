// Package logging builds the structured logger shared by the tray daemon and
// the CLI.
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options configure New.
type Options struct {
	// Level is a zap level name: debug, info, warn or error.
	Level string
	// File receives JSON lines when set.
	File string
	// Stderr receives human-readable lines when non-nil. The console preview
	// owns the terminal, so it passes nil.
	Stderr io.Writer
}

// ParseLevel converts a level name, defaulting to info for "".
func ParseLevel(name string) (zapcore.Level, error) {
	if name == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(name)); err != nil {
		return lvl, fmt.Errorf("invalid log level %q", name)
	}
	return lvl, nil
}

// New returns a logger and a function that flushes and closes its outputs.
func New(opts Options) (*zap.SugaredLogger, func(), error) {
	lvl, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	level := zap.NewAtomicLevelAt(lvl)

	var cores []zapcore.Core
	closers := []func(){}

	if opts.Stderr != nil {
		enc := zap.NewDevelopmentEncoderConfig()
		enc.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(enc),
			zapcore.Lock(zapcore.AddSync(opts.Stderr)),
			level,
		))
	}

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		closers = append(closers, func() { _ = f.Close() })
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.Lock(f),
			level,
		))
	}

	if len(cores) == 0 {
		return zap.NewNop().Sugar(), func() {}, nil
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller()).Named("tray")
	closeFn := func() {
		_ = logger.Sync()
		for _, c := range closers {
			c()
		}
	}
	return logger.Sugar(), closeFn, nil
}
