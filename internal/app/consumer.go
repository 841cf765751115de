package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go-fleetpay/internal/bootstrap"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/events"
	"go-fleetpay/internal/messaging/kafka/consumer"
	"go-fleetpay/internal/shared/connection"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// RunConsumer generates payslips for every imported invoice until SIGINT or
// SIGTERM.
func RunConsumer(cfg config.Config, audit bootstrap.AuditLogger) error {
	logger := zap.L().Named("app.consumer")

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

	resolver, _ := newResolver(cfg, gormDB)
	payslipService := newPayslipService(cfg, sqlDB, gormDB, resolver, audit)

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        []string{cfg.Kafka.Broker},
		Topic:          events.InvoiceImportedTopic,
		GroupID:        cfg.Kafka.ConsumerGroup,
		CommitInterval: 0,
		StartOffset:    kafkago.FirstOffset,
	})
	defer reader.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- consumer.ConsumeInvoiceImported(ctx, reader, payslipService, consumer.DefaultRetryPolicy, logger)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		logger.Info("consumer shutting down")
		cancel()
		return <-done
	case err := <-done:
		// The failed message stays uncommitted and is replayed after restart.
		return err
	}
}
