package producer

import (
	"context"
	"database/sql"
	"time"

	"go-fleetpay/internal/messaging/kafka"

	"go.uber.org/zap"
)

const outboxBatchSize = 50

// ProcessOutboxEvents polls the outbox until ctx is cancelled.
func ProcessOutboxEvents(
	ctx context.Context,
	db *sql.DB,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
	pollInterval time.Duration,
) {
	if pollInterval <= 0 {
		pollInterval = 3 * time.Second
	}

	log := logger.Named("kafka.producer.worker")
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	log.Info("outbox worker started", zap.Duration("poll_interval", pollInterval))

	for {
		select {
		case <-ctx.Done():
			log.Info("outbox worker stopped")
			return
		case <-ticker.C:
			if _, err := ProcessPendingEvents(ctx, db, repo, writer, log); err != nil {
				log.Error("process outbox events failed", zap.Error(err))
			}
		}
	}
}

// ProcessPendingEvents publishes one batch inside a transaction so the
// row locks taken by ListPending hold until the statuses are written.
// It returns the number of events sent.
func ProcessPendingEvents(
	ctx context.Context,
	db *sql.DB,
	repo kafka.OutboxRepository,
	writer MessageWriter,
	logger *zap.Logger,
) (int, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	qtx := repo.WithTx(tx)

	events, err := qtx.ListPending(ctx, outboxBatchSize)
	if err != nil {
		return 0, err
	}

	if len(events) == 0 {
		return 0, tx.Commit()
	}

	logger.Info("processing pending outbox events", zap.Int("count", len(events)))

	sent := 0
	for _, event := range events {
		if err := publishEvent(ctx, writer, event); err != nil {
			logger.Error("publish outbox event failed",
				zap.String("outbox_id", event.ID),
				zap.String("event_type", event.EventType),
				zap.String("topic", event.Topic),
				zap.Int("retry_count", event.RetryCount),
				zap.Error(err),
			)
			if markErr := qtx.MarkFailed(ctx, event.ID, err.Error()); markErr != nil {
				return sent, markErr
			}
			continue
		}

		if err := qtx.MarkSent(ctx, event.ID); err != nil {
			return sent, err
		}
		sent++

		logger.Debug("outbox event sent",
			zap.String("outbox_id", event.ID),
			zap.String("event_type", event.EventType),
			zap.String("topic", event.Topic),
		)
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return sent, nil
}
