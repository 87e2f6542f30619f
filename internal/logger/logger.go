// Package logger builds the zap loggers used across doxytags.
//
// Logs always go to stderr: stdout is reserved for the tag file when no
// output path is configured.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
const (
	FieldRunID     = "run_id"
	FieldAssembly  = "assembly"
	FieldType      = "type"
	FieldFile      = "file"
	FieldCount     = "count"
	FieldNamespace = "namespaces"
	FieldOutput    = "output"
	FieldError     = "error"
	FieldDuration  = "duration_ms"
)

// Options controls logger construction.
type Options struct {
	JSON  bool
	Level string // debug, info, warn, error; empty means info
	Out   io.Writer
}

// New returns a sugared logger configured by opts.
func New(opts Options) (*zap.SugaredLogger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	var enc zapcore.Encoder
	if opts.JSON {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		cfg := zap.NewDevelopmentEncoderConfig()
		cfg.TimeKey = ""
		cfg.CallerKey = ""
		cfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(out), level)
	return zap.New(core).Sugar(), nil
}

// Nop returns a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// ParseLevel converts a level name to a zap level.
func ParseLevel(name string) (zapcore.Level, error) {
	if strings.TrimSpace(name) == "" {
		return zap.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(name))); err != nil {
		return zap.InfoLevel, err
	}
	return lvl, nil
}
