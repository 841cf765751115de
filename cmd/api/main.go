package main

import (
	"go-fleetpay/internal/app"
	"go-fleetpay/internal/bootstrap"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/shared/apperror"

	"github.com/gin-gonic/gin"
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
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	auditLogger := bootstrap.NewStdoutAuditLogger()

	// build dependency + routes
	cleanup, err := app.BuildApp(r, cfg, auditLogger)
	if err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}
	defer cleanup()

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.HTTP.Port,
			ReadTimeout:  cfg.HTTP.ReadTimeout,
			WriteTimeout: cfg.HTTP.WriteTimeout,
			IdleTimeout:  cfg.HTTP.IdleTimeout,
		},
		auditLogger,
	)
}
