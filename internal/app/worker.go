package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-fleetpay/internal/config"
	"go-fleetpay/internal/messaging/kafka"
	"go-fleetpay/internal/messaging/kafka/producer"
	"go-fleetpay/internal/shared/connection"

	"go.uber.org/zap"
)

// RunWorker publishes outbox events to Kafka until SIGINT or SIGTERM.
func RunWorker(cfg config.Config) error {
	logger := zap.L().Named("app.worker")

	gormDB, err := connection.ConnectGORMWithRetry(cfg.DB)
	if err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if cfg.Kafka.Broker == "" {
		return fmt.Errorf("KAFKA_BROKER is required")
	}

	kafkaWriter, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, cfg.DB.MaxRetries)
	if err != nil {
		return err
	}
	defer kafkaWriter.Close()

	outboxRepo := kafka.NewOutboxRepository(sqlDB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go producer.ProcessOutboxEvents(
		ctx,
		sqlDB,
		outboxRepo,
		kafkaWriter,
		logger,
		cfg.Kafka.PollInterval,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("worker shutting down")
	cancel()

	return nil
}
