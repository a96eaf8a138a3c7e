package main

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// buildLogger maps -v/-q onto a console zap logger: -v enables debug,
// -q drops info.
func buildLogger(verbosity int) (*zap.SugaredLogger, error) {
	config := zap.NewDevelopmentConfig()
	config.DisableStacktrace = true
	switch {
	case verbosity > 0:
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	case verbosity < 0:
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	default:
		config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger.Sugar(), nil
}
