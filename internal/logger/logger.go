// Package logger builds the zap logger used across civicsim.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level      string // debug, info, warn, error
	Encoding   string // json or console
	OutputPath string // file path, "stdout" or "stderr"

	// Quiet drops records that would reach the terminal. The interactive
	// UI sets it because it owns the screen; file output is kept.
	Quiet bool
}

// WritesToTerminal reports whether cfg sends output to stdout or stderr.
func (c Config) WritesToTerminal() bool {
	return c.OutputPath == "" || c.OutputPath == "stdout" || c.OutputPath == "stderr"
}

// New builds a logger from cfg. An unknown level falls back to info and is
// reported through the new logger; anything but "json" encodes as console.
func New(cfg Config) (*zap.Logger, error) {
	if cfg.Quiet && cfg.WritesToTerminal() {
		return zap.NewNop(), nil
	}

	path := cfg.OutputPath
	if path == "" {
		path = "stderr"
	}
	sink, _, err := zap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log output %q: %w", path, err)
	}

	level, levelErr := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if levelErr != nil {
		level = zapcore.InfoLevel
	}

	core := zapcore.NewCore(encoder(cfg.Encoding), sink, level)
	log := zap.New(core, zap.ErrorOutput(zapcore.Lock(os.Stderr)))
	if levelErr != nil {
		log.Warn("unknown log level, using info", zap.String("level", cfg.Level))
	}
	return log, nil
}

func encoder(encoding string) zapcore.Encoder {
	ec := zap.NewProductionEncoderConfig()
	ec.TimeKey = "timestamp"
	ec.EncodeTime = zapcore.ISO8601TimeEncoder
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if strings.EqualFold(encoding, "json") {
		return zapcore.NewJSONEncoder(ec)
	}
	return zapcore.NewConsoleEncoder(ec)
}
