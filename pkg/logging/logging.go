// Package logging builds the logr.Logger handed to every hook component.
package logging

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configure the root logger.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // console or json
}

// New creates a zap-backed logr.Logger. logr's V(1) maps to zap's debug level.
func New(opts Options) (logr.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		l, err := zapcore.ParseLevel(opts.Level)
		if err != nil {
			return logr.Discard(), fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
		level = l
	}

	var cfg zap.Config
	switch opts.Format {
	case FormatJSON:
		cfg = zap.NewProductionConfig()
	case FormatConsole, "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	default:
		return logr.Discard(), fmt.Errorf("invalid log format %q (expected %s or %s)", opts.Format, FormatConsole, FormatJSON)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}

	z, err := cfg.Build()
	if err != nil {
		return logr.Discard(), fmt.Errorf("failed to build logger: %w", err)
	}

	return zapr.NewLogger(z), nil
}

// FromCore wraps an existing zap core, used when the caller owns the sink.
func FromCore(core zapcore.Core) logr.Logger {
	return zapr.NewLogger(zap.New(core))
}
