package bootstrap

import (
	"context"
	"testing"
	"time"

	"go-fleetpay/internal/config"
	"go-fleetpay/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestStdoutAuditLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	defer restore()

	l := NewStdoutAuditLogger()
	l.now = func() time.Time { return time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC) }

	ctx := contextutil.WithRequestID(context.Background(), "req-1")
	l.Log(ctx, AuditLog{Action: "PAYSLIP_BATCH", Message: "done", Meta: map[string]any{"warnings": 1}})

	entries := logs.All()
	if assert.Len(t, entries, 1) {
		fields := entries[0].ContextMap()
		assert.Equal(t, "audit", entries[0].LoggerName)
		assert.Equal(t, "PAYSLIP_BATCH", fields["action"])
		assert.Equal(t, "req-1", fields["request_id"])
		assert.Equal(t, "2024-07-01T12:00:00Z", fields["timestamp"])
		assert.NotContains(t, fields, "user_id")
	}
}

func TestNewLogger(t *testing.T) {
	defer zap.ReplaceGlobals(zap.NewNop())

	cfg := config.Default()
	logger, err := NewLogger(cfg)

	assert.NoError(t, err)
	assert.Same(t, zap.L(), logger)
}
