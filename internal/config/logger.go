package config

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger. "debug" uses the development
// encoder; other levels use the production JSON encoder at that level.
func NewLogger(cfg LoggingConfig) (*zap.Logger, error) {
	if strings.EqualFold(cfg.Level, "debug") {
		return zap.NewDevelopment()
	}

	zapConfig := zap.NewProductionConfig()
	if level, err := zapcore.ParseLevel(cfg.Level); err == nil {
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}
	return zapConfig.Build()
}
