// Package observability provides the process loggers. Everything is
// written to stderr: in stdio transport mode stdout carries the
// protocol stream and must stay clean.
package observability

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// CLILogger is the logger for command-line output. It is initialized
// to a no-op logger so package code can log before InitCLILogger runs.
var CLILogger = zap.NewNop()

// InitCLILogger configures CLILogger with console encoding at the
// given level. Verbose forces debug level regardless of level.
func InitCLILogger(level string, verbose bool) {
	lvl := parseLevel(level)
	if verbose {
		lvl = zapcore.DebugLevel
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(os.Stderr),
		lvl,
	)
	CLILogger = zap.New(core)
}

// NewServerLogger builds a structured logger for the serving path.
// Encoding is "json" or "console".
func NewServerLogger(level, encoding string) (*zap.Logger, error) {
	var encoder zapcore.Encoder
	switch encoding {
	case "json", "":
		encoder = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	case "console":
		encCfg := zap.NewDevelopmentEncoderConfig()
		encoder = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log encoding %q", encoding)
	}

	core := zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), parseLevel(level))
	return zap.New(core, zap.AddCaller()), nil
}

func parseLevel(level string) zapcore.Level {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Sync flushes buffered log entries. Safe to call on process exit.
func Sync() {
	_ = CLILogger.Sync()
}
