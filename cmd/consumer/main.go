package main

import (
	"go-fleetpay/internal/app"
	"go-fleetpay/internal/bootstrap"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/shared/apperror"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := bootstrap.NewLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()

	if err := app.RunConsumer(cfg, bootstrap.NewStdoutAuditLogger()); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
