// Package observability provides structured logging for the simulator and combat core.
package observability

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cory-johannsen/skirmish/internal/config"
)

// AppName is attached to every log entry as the "app" field.
const AppName = "skirmish"

// NewLogger creates a structured logger from the given logging configuration.
// Logs go to stderr so that stdout stays free for simulation reports.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	switch cfg.Format {
	case "json":
		zapCfg = zap.NewProductionConfig()
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.OutputPaths = []string{"stderr"}
	zapCfg.InitialFields = map[string]interface{}{"app": AppName}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

// ForEncounter returns a child logger tagged with the session and creature of one fight.
//
// Precondition: logger must be non-nil.
func ForEncounter(logger *zap.Logger, sessionID, creatureID string) *zap.Logger {
	return logger.With(
		zap.String("session", sessionID),
		zap.String("creature", creatureID),
	)
}
