package bootstrap

import (
	"context"
	"time"

	"go-fleetpay/internal/shared/contextutil"

	"go.uber.org/zap"
)

// StdoutAuditLogger writes audit entries through the global zap logger.
type StdoutAuditLogger struct {
	now func() time.Time
}

func NewStdoutAuditLogger() *StdoutAuditLogger {
	return &StdoutAuditLogger{now: time.Now}
}

func (l *StdoutAuditLogger) Log(ctx context.Context, entry AuditLog) {
	meta := contextutil.ExtractMetadata(ctx)
	fields := []zap.Field{
		zap.String("timestamp", l.now().UTC().Format(time.RFC3339)),
		zap.String("action", entry.Action),
		zap.String("message", entry.Message),
		zap.Any("meta", entry.Meta),
	}
	if meta.RequestID != "" {
		fields = append(fields, zap.String("request_id", meta.RequestID))
	}
	if meta.UserID != "" {
		fields = append(fields, zap.String("user_id", meta.UserID))
	}
	zap.L().Named("audit").Info("audit event", fields...)
}
