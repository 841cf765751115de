package app

import (
	"database/sql"
	"net/http"

	"go-fleetpay/internal/bootstrap"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/earnings"
	"go-fleetpay/internal/invoice"
	"go-fleetpay/internal/ledger"
	"go-fleetpay/internal/messaging/kafka"
	"go-fleetpay/internal/middleware"
	"go-fleetpay/internal/payout"
	"go-fleetpay/internal/payslip"
	"go-fleetpay/internal/ratecard"
	"go-fleetpay/internal/rbac"
	"go-fleetpay/internal/shared/counter"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newResolver(cfg config.Config, gormDB *gorm.DB) (*ratecard.Resolver, ratecard.Repository) {
	rateRepo := ratecard.NewRepository(gormDB)
	opts := []ratecard.ResolverOption{}
	if cfg.Compensation.AllowDispatcherFallback {
		opts = append(opts, ratecard.WithFallback(
			ratecard.NewDispatcherDefaultFallback(driver.NewRepository(gormDB)),
		))
	}
	return ratecard.NewResolver(rateRepo, opts...), rateRepo
}

func newPayslipService(
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	resolver *ratecard.Resolver,
	audit bootstrap.AuditLogger,
) payslip.Service {
	return payslip.NewService(db, payslip.NewRepository(gormDB), payslip.Dependencies{
		Drivers:  driver.NewRepository(gormDB),
		Routes:   earnings.NewRepository(gormDB),
		Expenses: ledger.NewAggregator(ledger.NewRepository(gormDB)),
		Rates:    resolver,
		Invoices: invoice.NewRepository(gormDB),
		Outbox:   kafka.NewOutboxRepository(db),
		Audit:    audit,
	}, cfg.Compensation)
}

func registerModules(
	router *gin.Engine,
	cfg config.Config,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb redis.Cmdable,
	audit bootstrap.AuditLogger,
) error {
	// --- Repositories ---
	driverRepo := driver.NewRepository(gormDB)
	earningsRepo := earnings.NewRepository(gormDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	counterRepo := counter.NewRepository(gormDB)
	payoutRepo := payout.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Services ---
	resolver, rateRepo := newResolver(cfg, gormDB)
	rateCardService := ratecard.NewService(db, rateRepo, resolver)
	payoutService := payout.NewService(db, payoutRepo, payout.Dependencies{
		Drivers:  driverRepo,
		Earnings: earnings.NewAggregator(earningsRepo, resolver, cfg.Compensation.Earnings),
		Ledger:   ledger.NewAggregator(ledgerRepo),
		Outbox:   outboxRepo,
		Counter:  counterRepo,
	}, cfg.Compensation)
	payslipService := newPayslipService(cfg, db, gormDB, resolver, audit)

	// --- Handlers ---
	rateCardHandler := ratecard.NewHandler(rateCardService)
	payoutHandler := payout.NewHandler(payoutService)
	payslipHandler := payslip.NewHandler(payslipService)
	rbacHandler := rbac.NewHandler(rbacService)

	// --- Middleware ---
	auth := middleware.AuthMiddleware(cfg.JWTSecret)
	idempotency := middleware.Idempotency(rdb, cfg.Compensation.IdempotencyResponseTTL)

	// --- Routes Registration ---
	router.GET("/healthz", middleware.RateLimitByIP(5, 10), healthz(db, rdb))

	api := router.Group("/api/v1")
	{
		ratecard.RegisterRoutes(api, rateCardHandler, rbacService, auth)
		payout.RegisterRoutes(api, payoutHandler, rbacService, auth, idempotency)
		payslip.RegisterRoutes(api, payslipHandler, rbacService, auth, idempotency)
		rbac.RegisterRoutes(api, rbacHandler, auth, middleware.RoleMiddleware(rbac.RoleAdmin))
	}

	zap.L().Named("app.registry").Info("modules registered", zap.Int("routes", len(router.Routes())))
	return nil
}

func healthz(db *sql.DB, rdb redis.Cmdable) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		status := gin.H{"database": "ok", "redis": "ok"}
		code := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			status["database"] = err.Error()
			code = http.StatusServiceUnavailable
		}
		if err := rdb.Ping(ctx).Err(); err != nil {
			status["redis"] = err.Error()
			code = http.StatusServiceUnavailable
		}

		c.JSON(code, status)
	}
}
