package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go-fleetpay/internal/events"
	invoiceerrors "go-fleetpay/internal/invoice/errors"
	"go-fleetpay/internal/payslip"
	"go-fleetpay/internal/shared/contextutil"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// MessageReader is satisfied by *kafkago.Reader.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
}

type BatchGenerator interface {
	ComputeBatch(ctx context.Context, req payslip.ComputeBatchPayslipsRequest) (payslip.BatchPayslipsResponse, error)
}

// RetryPolicy bounds how often one message's batch is attempted before the
// consumer gives up on it.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

var DefaultRetryPolicy = RetryPolicy{Attempts: 3, Backoff: 2 * time.Second}

// ConsumeInvoiceImported runs the payslip batch for every invoice announced on
// the topic until ctx is cancelled. A message is committed once the batch
// completed, or when it can never succeed. A batch that still fails after the
// retry budget stops the consumer with the message uncommitted: group offsets
// are positional, so moving on would commit past it. It returns nil on
// cancellation.
func ConsumeInvoiceImported(
	ctx context.Context,
	reader MessageReader,
	generator BatchGenerator,
	retry RetryPolicy,
	logger *zap.Logger,
) error {
	log := logger.Named("kafka.consumer.invoice_imported")
	log.Info("invoice imported consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("invoice imported consumer stopped")
				return nil
			}
			log.Error("fetch invoice imported message failed", zap.Error(err))
			continue
		}

		var event events.InvoiceImportedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil || event.InvoiceNumber == "" {
			log.Error("decode invoice imported event failed", zap.Int64("offset", msg.Offset), zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		msgCtx := ctx
		if rid := header(msg, "request_id"); rid != "" {
			msgCtx = contextutil.WithRequestID(msgCtx, rid)
		}

		resp, err := computeWithRetry(msgCtx, generator, event.InvoiceNumber, retry, log)
		if err != nil {
			if errors.Is(err, invoiceerrors.ErrInvoiceNotFound) {
				log.Warn("invoice from event does not exist, skipping",
					zap.String("invoice_number", event.InvoiceNumber),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}
			if ctx.Err() != nil {
				log.Info("invoice imported consumer stopped")
				return nil
			}
			return fmt.Errorf("payslip batch for invoice %s at offset %d: %w", event.InvoiceNumber, msg.Offset, err)
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit invoice imported message failed", zap.Error(err))
			continue
		}

		log.Info("payslips generated from invoice_imported event",
			zap.String("invoice_number", event.InvoiceNumber),
			zap.String("imported_by", event.ImportedBy),
			zap.Int("payslips_generated", resp.PayslipsGenerated),
			zap.Strings("warnings", resp.Warnings),
		)
	}
}

func computeWithRetry(
	ctx context.Context,
	generator BatchGenerator,
	invoiceNumber string,
	retry RetryPolicy,
	log *zap.Logger,
) (payslip.BatchPayslipsResponse, error) {
	attempts := max(retry.Attempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		resp, err := generator.ComputeBatch(ctx, payslip.ComputeBatchPayslipsRequest{InvoiceNumber: invoiceNumber})
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, invoiceerrors.ErrInvoiceNotFound) {
			return payslip.BatchPayslipsResponse{}, err
		}
		lastErr = err

		log.Error("payslip batch for imported invoice failed",
			zap.String("invoice_number", invoiceNumber),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if attempt == attempts {
			break
		}

		select {
		case <-ctx.Done():
			return payslip.BatchPayslipsResponse{}, ctx.Err()
		case <-time.After(retry.Backoff * time.Duration(attempt)):
		}
	}
	return payslip.BatchPayslipsResponse{}, lastErr
}

func header(msg kafkago.Message, key string) string {
	for _, h := range msg.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}
