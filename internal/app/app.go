package app

import (
	"go-fleetpay/internal/bootstrap"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/shared/connection"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildApp connects the infrastructure and mounts every module on router.
// The returned func releases the connections.
func BuildApp(router *gin.Engine, cfg config.Config, audit bootstrap.AuditLogger) (func(), error) {
	logger := zap.L().Named("app")

	// 1. Setup Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return nil, err
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}
	logger.Info("database connection established")

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, cfg.DB.MaxRetries)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	logger.Info("redis connection established")

	cleanup := func() {
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}

	router.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.ContextLogger(zap.L().Named("http")),
	)

	// 2. Register Modules & Routes
	if err := registerModules(router, cfg, sqlDB, gormDB, redisClient, audit); err != nil {
		cleanup()
		return nil, err
	}

	return cleanup, nil
}
