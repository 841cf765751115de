package ratecard

import (
	"context"
	"database/sql"
	"strings"
	"time"

	ratecarderrors "go-fleetpay/internal/ratecard/errors"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/contextutil"
	"go-fleetpay/internal/shared/money"
	"go-fleetpay/internal/shared/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, req CreateRateScheduleRequest) (RateScheduleResponse, error)
	ListByOperator(ctx context.Context, operatorID string) ([]RateScheduleResponse, error)
	Resolve(ctx context.Context, operatorID string, asOf string) (ResolveRateResponse, error)
}

type service struct {
	db       *sql.DB
	repo     Repository
	resolver *Resolver
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(db *sql.DB, repo Repository, resolver *Resolver, logger ...*zap.Logger) Service {
	l := zap.L().Named("ratecard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0]
	}
	return &service{
		db:       db,
		repo:     repo,
		resolver: resolver,
		now:      time.Now,
		logger:   l,
	}
}

func (s *service) Create(ctx context.Context, req CreateRateScheduleRequest) (RateScheduleResponse, error) {
	operatorID := strings.TrimSpace(req.OperatorID)
	if operatorID == "" {
		return RateScheduleResponse{}, ratecarderrors.ErrOperatorRequired
	}

	rate, err := decimal.NewFromString(req.Rate)
	if err != nil || !rate.IsPositive() {
		return RateScheduleResponse{}, ratecarderrors.ErrInvalidRate
	}

	effectiveDate, err := request.ParseDate(req.EffectiveDate)
	if err != nil {
		return RateScheduleResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return RateScheduleResponse{}, apperror.Persistence(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row := &RateSchedule{
		ID:            uuid.New(),
		OperatorID:    operatorID,
		Rate:          rate,
		EffectiveDate: effectiveDate,
	}

	if err := qtx.Create(ctx, row); err != nil {
		mapped := mapRepositoryError(err)
		if mapped == err {
			return RateScheduleResponse{}, apperror.Persistence(err, "failed to create rate schedule")
		}
		return RateScheduleResponse{}, mapped
	}

	if err := tx.Commit(); err != nil {
		return RateScheduleResponse{}, apperror.Persistence(err, "failed to commit rate schedule")
	}

	contextutil.GetLogger(ctx, s.logger).Info("rate schedule created",
		zap.String("operator_id", operatorID),
		zap.String("rate", rate.String()),
		zap.String("effective_date", req.EffectiveDate),
	)

	return mapToResponse(*row), nil
}

func (s *service) ListByOperator(ctx context.Context, operatorID string) ([]RateScheduleResponse, error) {
	if strings.TrimSpace(operatorID) == "" {
		return nil, ratecarderrors.ErrOperatorRequired
	}

	rows, err := s.repo.ListByOperator(ctx, operatorID, nil)
	if err != nil {
		return nil, apperror.Persistence(err, "failed to list rate schedules")
	}

	return mapToListResponse(rows), nil
}

// Resolve defaults asOf to today (UTC) when empty.
func (s *service) Resolve(ctx context.Context, operatorID string, asOf string) (ResolveRateResponse, error) {
	date := s.now().UTC().Truncate(24 * time.Hour)
	if asOf != "" {
		parsed, err := request.ParseDate(asOf)
		if err != nil {
			return ResolveRateResponse{}, err
		}
		date = parsed
	}

	res, err := s.resolver.Resolve(ctx, operatorID, date)
	if err != nil {
		return ResolveRateResponse{}, err
	}

	out := ResolveRateResponse{
		OperatorID: operatorID,
		AsOf:       request.FormatDate(date),
		Rate:       money.NewRate(res.Rate),
		Source:     res.Source,
	}
	if !res.EffectiveDate.IsZero() {
		effective := request.FormatDate(res.EffectiveDate)
		out.EffectiveDate = &effective
	}
	return out, nil
}

func mapToResponse(row RateSchedule) RateScheduleResponse {
	return RateScheduleResponse{
		ID:            row.ID.String(),
		OperatorID:    row.OperatorID,
		Rate:          money.NewRate(row.Rate),
		EffectiveDate: request.FormatDate(row.EffectiveDate),
	}
}

func mapToListResponse(rows []RateSchedule) []RateScheduleResponse {
	res := make([]RateScheduleResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res
}
