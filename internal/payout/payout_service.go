package payout

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go-fleetpay/internal/config"
	"go-fleetpay/internal/driver"
	drivererrors "go-fleetpay/internal/driver/errors"
	"go-fleetpay/internal/earnings"
	"go-fleetpay/internal/events"
	"go-fleetpay/internal/messaging/kafka"
	payouterrors "go-fleetpay/internal/payout/errors"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/counter"
	"go-fleetpay/internal/shared/money"
	"go-fleetpay/internal/shared/request"
	"go-fleetpay/internal/statement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

//go:generate mockgen -source=payout_service.go -destination=mock/payout_service_mock.go -package=mock
type Service interface {
	ComputePayout(ctx context.Context, req ComputePayoutRequest) (ComputePayoutResponse, error)
	GetByID(ctx context.Context, id string) (PayStatementResponse, error)
	MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (PayStatementResponse, error)
}

type DriverFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*driver.Driver, error)
	FindDispatchersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]driver.Dispatcher, error)
}

type EarningsAggregator interface {
	Aggregate(ctx context.Context, d driver.Driver, period request.Period) (earnings.Result, error)
}

type DeductionSummer interface {
	SumDeductions(ctx context.Context, driverID uuid.UUID, period request.Period) (decimal.Decimal, error)
}

// Dependencies are the read-side collaborators of the payout calculator.
type Dependencies struct {
	Drivers  DriverFinder
	Earnings EarningsAggregator
	Ledger   DeductionSummer
	Outbox   kafka.OutboxRepository
	Counter  counter.Repository
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	db     *sql.DB
	repo   Repository
	deps   Dependencies
	cfg    config.CompensationConfig
	now    func() time.Time
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Dependencies, cfg config.CompensationConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("payout.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &service{
		db:     db,
		repo:   repo,
		deps:   deps,
		cfg:    cfg,
		now:    now,
		logger: l,
	}
}

func (s *service) ComputePayout(ctx context.Context, req ComputePayoutRequest) (ComputePayoutResponse, error) {
	log := contextutil.GetLogger(ctx, s.logger)

	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return ComputePayoutResponse{}, drivererrors.ErrInvalidDriverID
	}

	period, err := req.Range().OrDefault(s.now(), s.cfg.PayoutDefaultPeriodDays)
	if err != nil {
		return ComputePayoutResponse{}, err
	}

	d, err := s.deps.Drivers.FindByID(ctx, driverID)
	if err != nil {
		return ComputePayoutResponse{}, apperror.PersistenceOr(err, "failed to load driver")
	}

	var (
		earned     earnings.Result
		deductions decimal.Decimal
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		res, err := s.deps.Earnings.Aggregate(gctx, *d, period)
		earned = res
		return err
	})
	g.Go(func() error {
		total, err := s.deps.Ledger.SumDeductions(gctx, driverID, period)
		deductions = total
		return err
	})
	if err := g.Wait(); err != nil {
		return ComputePayoutResponse{}, err
	}

	dispatchers, err := s.deps.Drivers.FindDispatchersByIDs(ctx, earnings.DispatcherIDs(earned.Routes))
	if err != nil {
		return ComputePayoutResponse{}, apperror.Persistence(err, "failed to load dispatchers")
	}

	formula := statement.Payout{
		GrossEarnings:   earned.Gross(),
		AdminCut:        earnings.AdminCut(earned.Routes, dispatchers),
		TotalDeductions: money.Round(deductions),
	}

	if earned.Overlap {
		log.Warn("route and legacy weekly earnings both contributed to gross",
			zap.String("driver_id", driverID.String()),
			zap.String("period_start", request.FormatDate(period.Start)),
			zap.String("period_end", request.FormatDate(period.End)),
			zap.String("route_earnings", earned.RouteEarnings.StringFixed(2)),
			zap.String("legacy_earnings", earned.LegacyEarnings.StringFixed(2)),
		)
	}

	now := s.now().UTC()
	row := &PayStatement{
		ID:              uuid.New(),
		DriverID:        driverID,
		PeriodStart:     period.Start,
		PeriodEnd:       period.End,
		GrossEarnings:   formula.Gross(),
		AdminCut:        money.Round(formula.AdminCut),
		TotalDeductions: formula.TotalDeductions,
		NetPayout:       formula.Net(),
		Status:          StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ComputePayoutResponse{}, apperror.Persistence(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Upsert(ctx, row); err != nil {
		return ComputePayoutResponse{}, apperror.PersistenceOr(err, "failed to save pay statement")
	}

	stored, err := qtx.FindByPeriod(ctx, driverID, period.Start, period.End)
	if err != nil {
		return ComputePayoutResponse{}, apperror.PersistenceOr(err, "failed to reload pay statement")
	}

	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		events.AggregatePayStatement,
		stored.ID.String(),
		events.EventTypePayStatementComputed,
		events.PayStatementComputedTopic,
		events.PayStatementComputedEvent{
			EventType:       events.EventTypePayStatementComputed,
			PayStatementID:  stored.ID.String(),
			DriverID:        driverID.String(),
			PeriodStart:     request.FormatDate(stored.PeriodStart),
			PeriodEnd:       request.FormatDate(stored.PeriodEnd),
			GrossEarnings:   stored.GrossEarnings.StringFixed(2),
			AdminCut:        stored.AdminCut.StringFixed(2),
			TotalDeductions: stored.TotalDeductions.StringFixed(2),
			NetPayout:       stored.NetPayout.StringFixed(2),
			OccurredAt:      now,
		},
	)
	if err != nil {
		return ComputePayoutResponse{}, apperror.Persistence(err, "failed to build outbox event")
	}
	if err := s.deps.Outbox.WithTx(tx).Create(ctx, event); err != nil {
		return ComputePayoutResponse{}, apperror.Persistence(err, "failed to write outbox event")
	}

	if err := tx.Commit(); err != nil {
		return ComputePayoutResponse{}, apperror.Persistence(err, "failed to commit pay statement")
	}

	log.Info("pay statement computed",
		zap.String("pay_statement_id", stored.ID.String()),
		zap.String("driver_id", driverID.String()),
		zap.String("net_payout", stored.NetPayout.StringFixed(2)),
	)

	return ComputePayoutResponse{
		PayStatement:    mapToResponse(*stored),
		GrossEarnings:   money.NewAmount(stored.GrossEarnings),
		AdminCut:        money.NewAmount(stored.AdminCut),
		TotalDeductions: money.NewAmount(stored.TotalDeductions),
		NetPayout:       money.NewAmount(stored.NetPayout),
	}, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayStatementResponse, error) {
	statementID, err := uuid.Parse(id)
	if err != nil {
		return PayStatementResponse{}, payouterrors.ErrInvalidPayStatementID
	}

	stmt, err := s.repo.FindByID(ctx, statementID)
	if err != nil {
		return PayStatementResponse{}, apperror.PersistenceOr(err, "failed to load pay statement")
	}

	return mapToResponse(*stmt), nil
}

// MarkPaid settles a pending statement. Without a caller-supplied reference
// one is minted from the payment_reference counter inside the same
// transaction.
func (s *service) MarkPaid(ctx context.Context, id string, req MarkPaidRequest) (PayStatementResponse, error) {
	statementID, err := uuid.Parse(id)
	if err != nil {
		return PayStatementResponse{}, payouterrors.ErrInvalidPayStatementID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return PayStatementResponse{}, apperror.Persistence(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	stmt, err := qtx.FindByID(ctx, statementID)
	if err != nil {
		return PayStatementResponse{}, apperror.PersistenceOr(err, "failed to load pay statement")
	}
	if stmt.IsPaid() {
		return PayStatementResponse{}, payouterrors.ErrStatementAlreadyPaid
	}

	reference := req.PaymentReference
	if reference == "" {
		next, err := s.deps.Counter.WithTx(tx).GetNextValue(ctx, counter.TypePaymentReference)
		if err != nil {
			return PayStatementResponse{}, apperror.Persistence(err, "failed to mint payment reference")
		}
		reference = fmt.Sprintf("%s-%06d", s.cfg.PaymentReferencePrefix, next)
	}

	paidAt := s.now().UTC()
	if err := qtx.MarkPaid(ctx, statementID, paidAt, reference); err != nil {
		return PayStatementResponse{}, apperror.PersistenceOr(err, "failed to mark pay statement paid")
	}

	event, err := kafka.NewOutboxEvent(
		contextutil.GetRequestID(ctx),
		events.AggregatePayStatement,
		statementID.String(),
		events.EventTypePayStatementPaid,
		events.PayStatementPaidTopic,
		events.PayStatementPaidEvent{
			EventType:        events.EventTypePayStatementPaid,
			PayStatementID:   statementID.String(),
			DriverID:         stmt.DriverID.String(),
			NetPayout:        stmt.NetPayout.StringFixed(2),
			PaymentReference: reference,
			PaidAt:           paidAt,
			OccurredAt:       paidAt,
		},
	)
	if err != nil {
		return PayStatementResponse{}, apperror.Persistence(err, "failed to build outbox event")
	}
	if err := s.deps.Outbox.WithTx(tx).Create(ctx, event); err != nil {
		return PayStatementResponse{}, apperror.Persistence(err, "failed to write outbox event")
	}

	if err := tx.Commit(); err != nil {
		return PayStatementResponse{}, apperror.Persistence(err, "failed to commit payment")
	}

	stmt.Status = StatusPaid
	stmt.PaidAt = &paidAt
	stmt.PaymentReference = &reference
	stmt.UpdatedAt = paidAt

	contextutil.GetLogger(ctx, s.logger).Info("pay statement marked paid",
		zap.String("pay_statement_id", statementID.String()),
		zap.String("payment_reference", reference),
	)

	return mapToResponse(*stmt), nil
}

func mapToResponse(stmt PayStatement) PayStatementResponse {
	return PayStatementResponse{
		ID:               stmt.ID.String(),
		DriverID:         stmt.DriverID.String(),
		PeriodStart:      request.FormatDate(stmt.PeriodStart),
		PeriodEnd:        request.FormatDate(stmt.PeriodEnd),
		GrossEarnings:    money.NewAmount(stmt.GrossEarnings),
		AdminCut:         money.NewAmount(stmt.AdminCut),
		TotalDeductions:  money.NewAmount(stmt.TotalDeductions),
		NetPayout:        money.NewAmount(stmt.NetPayout),
		Status:           stmt.Status,
		PaidAt:           stmt.PaidAt,
		PaymentReference: stmt.PaymentReference,
		CreatedAt:        stmt.CreatedAt,
		UpdatedAt:        stmt.UpdatedAt,
	}
}
