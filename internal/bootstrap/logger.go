package bootstrap

import (
	"go-fleetpay/internal/config"

	"go.uber.org/zap"
)

// NewLogger builds the process logger and installs it as the zap global.
func NewLogger(cfg config.Config) (*zap.Logger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger.With(zap.String("env", cfg.Env)))
	return zap.L(), nil
}
