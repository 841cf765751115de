package payslip

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"go-fleetpay/internal/bootstrap"
	"go-fleetpay/internal/config"
	"go-fleetpay/internal/driver"
	drivererrors "go-fleetpay/internal/driver/errors"
	"go-fleetpay/internal/earnings"
	"go-fleetpay/internal/invoice"
	"go-fleetpay/internal/messaging/kafka"
	paysliperrors "go-fleetpay/internal/payslip/errors"
	"go-fleetpay/internal/ratecard"
	ratecarderrors "go-fleetpay/internal/ratecard/errors"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/money"
	"go-fleetpay/internal/shared/request"
	"go-fleetpay/internal/statement"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

//go:generate mockgen -source=payslip_service.go -destination=mock/payslip_service_mock.go -package=mock
type Service interface {
	ComputeSingle(ctx context.Context, req ComputeSinglePayslipRequest) (SinglePayslipResponse, error)
	ComputeBatch(ctx context.Context, req ComputeBatchPayslipsRequest) (BatchPayslipsResponse, error)
	GetByID(ctx context.Context, id string) (PayslipResponse, error)
	RenderPDF(ctx context.Context, id string) ([]byte, string, error)
}

type DriverFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*driver.Driver, error)
	FindByOperatorID(ctx context.Context, operatorID string) (*driver.Driver, error)
	FindDispatchersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]driver.Dispatcher, error)
}

type RouteLister interface {
	ListCompletedRoutes(ctx context.Context, driverID uuid.UUID, period request.Period) ([]earnings.Route, error)
}

type ExpenseSummer interface {
	SumApprovedExpenses(ctx context.Context, driverID uuid.UUID, period request.Period) (decimal.Decimal, error)
}

type RateResolver interface {
	Resolve(ctx context.Context, operatorID string, asOf time.Time) (ratecard.Resolution, error)
}

type Dependencies struct {
	Drivers  DriverFinder
	Routes   RouteLister
	Expenses ExpenseSummer
	Rates    RateResolver
	Invoices invoice.Repository
	Outbox   kafka.OutboxRepository
	// Audit is optional; batch runs are recorded on it when set.
	Audit bootstrap.AuditLogger
	// Now defaults to time.Now.
	Now func() time.Time
}

type service struct {
	db      *sql.DB
	repo    Repository
	deps    Dependencies
	cfg     config.CompensationConfig
	now     func() time.Time
	batches singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deps Dependencies, cfg config.CompensationConfig, logger ...*zap.Logger) Service {
	l := zap.L().Named("payslip.service")
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

// ComputeSingle previews one driver's payslip for a period. Nothing is
// persisted.
func (s *service) ComputeSingle(ctx context.Context, req ComputeSinglePayslipRequest) (SinglePayslipResponse, error) {
	driverID, err := uuid.Parse(req.DriverID)
	if err != nil {
		return SinglePayslipResponse{}, drivererrors.ErrInvalidDriverID
	}

	period, err := req.Range().Required()
	if err != nil {
		return SinglePayslipResponse{}, err
	}

	d, err := s.deps.Drivers.FindByID(ctx, driverID)
	if err != nil {
		return SinglePayslipResponse{}, apperror.PersistenceOr(err, "failed to load driver")
	}
	if !d.HasOperator() {
		return SinglePayslipResponse{}, drivererrors.ErrDriverHasNoOperator
	}

	var (
		routes   []earnings.Route
		expenses decimal.Decimal
		rate     ratecard.Resolution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := s.deps.Routes.ListCompletedRoutes(gctx, driverID, period)
		if err != nil {
			return apperror.Persistence(err, "failed to load routes")
		}
		routes = rows
		return nil
	})
	g.Go(func() error {
		total, err := s.deps.Expenses.SumApprovedExpenses(gctx, driverID, period)
		if err != nil {
			return apperror.PersistenceOr(err, "failed to sum approved expenses")
		}
		expenses = total
		return nil
	})
	g.Go(func() error {
		res, err := s.deps.Rates.Resolve(gctx, *d.OperatorID, period.End)
		if err != nil {
			return err
		}
		if !res.Rate.IsPositive() {
			return apperror.WithCause(ratecarderrors.ErrRateUnavailable,
				fmt.Errorf("operator %s as of %s resolves to a non-positive rate", res.OperatorID, request.FormatDate(period.End)))
		}
		rate = res
		return nil
	})
	if err := g.Wait(); err != nil {
		return SinglePayslipResponse{}, err
	}

	deduction, err := s.defaultDeduction(ctx, routes)
	if err != nil {
		return SinglePayslipResponse{}, err
	}

	var packages int64
	breakdown := make([]RouteBreakdown, 0, len(routes))
	for _, r := range routes {
		packages += r.Delivered()
		breakdown = append(breakdown, RouteBreakdown{
			RouteID:       r.ID.String(),
			ScheduledDate: request.FormatDate(r.ScheduledDate),
			Packages:      r.Delivered(),
			Amount:        money.NewAmount(money.Mul(r.Delivered(), rate.Rate)),
		})
	}

	formula := statement.PayslipPreview{
		GrossPay:         money.Mul(packages, rate.Rate),
		ApprovedExpenses: money.Round(expenses),
		DefaultDeduction: money.Round(deduction),
	}

	var effective *string
	if !rate.EffectiveDate.IsZero() {
		v := request.FormatDate(rate.EffectiveDate)
		effective = &v
	}

	return SinglePayslipResponse{
		DriverDetails: DriverDetails{
			ID:         d.ID.String(),
			Name:       d.Name,
			Email:      d.Email,
			OperatorID: d.OperatorID,
		},
		Period: PeriodResponse{
			StartDate: request.FormatDate(period.Start),
			EndDate:   request.FormatDate(period.End),
		},
		Performance: Performance{
			TotalRoutes:            len(routes),
			TotalPackagesCompleted: packages,
		},
		Financial: Financial{
			Rate:                 money.NewRate(rate.Rate),
			RateEffectiveDate:    effective,
			RateSource:           string(rate.Source),
			GrossPay:             money.NewAmount(formula.Gross()),
			ApprovedExpenses:     money.NewAmount(formula.ApprovedExpenses),
			DefaultDeductionRate: money.NewAmount(formula.DefaultDeduction),
			NetPay:               money.NewAmount(formula.Net()),
		},
		Breakdown:   breakdown,
		GeneratedAt: s.now().UTC(),
	}, nil
}

// defaultDeduction is the flat deduction of the dispatcher on the most recent
// completed route, or zero when that route has no dispatcher.
func (s *service) defaultDeduction(ctx context.Context, routes []earnings.Route) (decimal.Decimal, error) {
	latest, ok := earnings.LatestRoute(routes)
	if !ok || latest.DispatcherID == nil {
		return decimal.Zero, nil
	}

	dispatchers, err := s.deps.Drivers.FindDispatchersByIDs(ctx, []uuid.UUID{*latest.DispatcherID})
	if err != nil {
		return decimal.Zero, apperror.Persistence(err, "failed to load dispatcher")
	}
	dispatcher, ok := dispatchers[*latest.DispatcherID]
	if !ok {
		return decimal.Zero, nil
	}
	return dispatcher.DefaultDeductionRate, nil
}

func (s *service) GetByID(ctx context.Context, id string) (PayslipResponse, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return PayslipResponse{}, err
	}
	return mapToResponse(*p), nil
}

// RenderPDF returns a printable document for a stored payslip and its
// download filename.
func (s *service) RenderPDF(ctx context.Context, id string) ([]byte, string, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, "", err
	}

	doc, err := buildPayslipPDF(payslipLines(*p))
	if err != nil {
		return nil, "", apperror.Wrap(err, apperror.CodeInternalError, "failed to render payslip", http.StatusInternalServerError)
	}
	return doc, fmt.Sprintf("payslip-%s-%s.pdf", p.InvoiceNumber, p.OperatorID), nil
}

func (s *service) find(ctx context.Context, id string) (*Payslip, error) {
	payslipID, err := uuid.Parse(id)
	if err != nil {
		return nil, paysliperrors.ErrInvalidPayslipID
	}

	p, err := s.repo.FindByID(ctx, payslipID)
	if err != nil {
		return nil, apperror.PersistenceOr(err, "failed to load payslip")
	}
	return p, nil
}

func mapToResponse(p Payslip) PayslipResponse {
	return PayslipResponse{
		ID:            p.ID.String(),
		DriverID:      p.DriverID.String(),
		InvoiceNumber: p.InvoiceNumber,
		InvoiceDate:   request.FormatDate(p.InvoiceDate),
		PeriodStart:   request.FormatDate(p.PeriodStart),
		PeriodEnd:     request.FormatDate(p.PeriodEnd),
		OperatorID:    p.OperatorID,
		Quantity:      p.Quantity,
		Rate:          money.NewRate(p.Rate),
		GrossPay:      money.NewAmount(p.GrossPay),
		Deductions:    money.NewAmount(p.Deductions),
		NetPay:        money.NewAmount(p.NetPay),
		GeneratedBy:   p.GeneratedBy,
		GeneratedAt:   p.GeneratedAt,
	}
}
