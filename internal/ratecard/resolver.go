package ratecard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go-fleetpay/internal/driver"
	ratecarderrors "go-fleetpay/internal/ratecard/errors"
	"go-fleetpay/internal/shared/apperror"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Source string

const (
	SourceSchedule          Source = "schedule"
	SourceDispatcherDefault Source = "dispatcher_default"
)

// Resolution is a rate together with where it came from. EffectiveDate is
// zero for fallback rates.
type Resolution struct {
	OperatorID    string
	Rate          decimal.Decimal
	EffectiveDate time.Time
	Source        Source
}

// Schedule is an operator's rate history ordered by effective date.
type Schedule struct {
	OperatorID string
	rows       []RateSchedule
}

func NewSchedule(operatorID string, rows []RateSchedule) Schedule {
	sorted := make([]RateSchedule, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].EffectiveDate.Before(sorted[j].EffectiveDate)
	})
	return Schedule{OperatorID: operatorID, rows: sorted}
}

func (s Schedule) Len() int {
	return len(s.rows)
}

// At returns the row with the latest effective date on or before asOf.
// Future-dated rows are never selected.
func (s Schedule) At(asOf time.Time) (Resolution, bool) {
	i := sort.Search(len(s.rows), func(i int) bool {
		return s.rows[i].EffectiveDate.After(asOf)
	})
	if i == 0 {
		return Resolution{}, false
	}
	row := s.rows[i-1]
	return Resolution{
		OperatorID:    s.OperatorID,
		Rate:          row.Rate,
		EffectiveDate: row.EffectiveDate,
		Source:        SourceSchedule,
	}, true
}

// FallbackPolicy supplies a rate when the schedule has no row for a date.
// Returning ok=false means the rate stays unavailable.
type FallbackPolicy interface {
	Fallback(ctx context.Context, operatorID string, asOf time.Time) (res Resolution, ok bool, err error)
}

type DispatcherFinder interface {
	FindOldestActiveDispatcher(ctx context.Context) (*driver.Dispatcher, error)
}

// DispatcherDefaultFallback uses the driver_parcel_rate of the oldest active
// dispatcher that has a positive rate.
type DispatcherDefaultFallback struct {
	dispatchers DispatcherFinder
}

func NewDispatcherDefaultFallback(dispatchers DispatcherFinder) *DispatcherDefaultFallback {
	return &DispatcherDefaultFallback{dispatchers: dispatchers}
}

func (f *DispatcherDefaultFallback) Fallback(ctx context.Context, operatorID string, _ time.Time) (Resolution, bool, error) {
	d, err := f.dispatchers.FindOldestActiveDispatcher(ctx)
	if err != nil {
		return Resolution{}, false, err
	}
	if d == nil || !d.DriverParcelRate.IsPositive() {
		return Resolution{}, false, nil
	}
	return Resolution{
		OperatorID: operatorID,
		Rate:       d.DriverParcelRate,
		Source:     SourceDispatcherDefault,
	}, true, nil
}

type Resolver struct {
	repo     Repository
	fallback FallbackPolicy
	logger   *zap.Logger
}

type ResolverOption func(*Resolver)

// WithFallback enables a fallback policy. Without one an uncovered date is
// always ErrRateUnavailable.
func WithFallback(p FallbackPolicy) ResolverOption {
	return func(r *Resolver) {
		r.fallback = p
	}
}

func WithLogger(l *zap.Logger) ResolverOption {
	return func(r *Resolver) {
		if l != nil {
			r.logger = l
		}
	}
}

func NewResolver(repo Repository, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		repo:   repo,
		logger: zap.L().Named("ratecard.resolver"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve returns the rate for operatorID as of asOf.
func (r *Resolver) Resolve(ctx context.Context, operatorID string, asOf time.Time) (Resolution, error) {
	if operatorID == "" {
		return Resolution{}, ratecarderrors.ErrOperatorRequired
	}

	row, err := r.repo.FindEffective(ctx, operatorID, asOf)
	if err != nil {
		return Resolution{}, apperror.Persistence(err, "failed to load rate schedule")
	}
	if row != nil {
		return Resolution{
			OperatorID:    operatorID,
			Rate:          row.Rate,
			EffectiveDate: row.EffectiveDate,
			Source:        SourceSchedule,
		}, nil
	}

	return r.fallbackOrUnavailable(ctx, operatorID, asOf)
}

// History loads the operator's rows up to upTo once, for callers resolving
// many dates in one invocation.
func (r *Resolver) History(ctx context.Context, operatorID string, upTo time.Time) (Schedule, error) {
	if operatorID == "" {
		return Schedule{}, ratecarderrors.ErrOperatorRequired
	}

	rows, err := r.repo.ListByOperator(ctx, operatorID, &upTo)
	if err != nil {
		return Schedule{}, apperror.Persistence(err, "failed to load rate schedule")
	}
	return NewSchedule(operatorID, rows), nil
}

// ResolveIn resolves against a loaded history, applying the fallback policy
// when the history does not cover asOf.
func (r *Resolver) ResolveIn(ctx context.Context, schedule Schedule, asOf time.Time) (Resolution, error) {
	if res, ok := schedule.At(asOf); ok {
		return res, nil
	}
	return r.fallbackOrUnavailable(ctx, schedule.OperatorID, asOf)
}

func (r *Resolver) fallbackOrUnavailable(ctx context.Context, operatorID string, asOf time.Time) (Resolution, error) {
	if r.fallback != nil {
		res, ok, err := r.fallback.Fallback(ctx, operatorID, asOf)
		if err != nil {
			return Resolution{}, apperror.Persistence(err, "failed to load fallback rate")
		}
		if ok {
			r.logger.Warn("rate resolved from fallback policy",
				zap.String("operator_id", operatorID),
				zap.Time("as_of", asOf),
				zap.String("source", string(res.Source)),
				zap.String("rate", res.Rate.String()),
			)
			return res, nil
		}
	}

	return Resolution{}, apperror.WithCause(
		ratecarderrors.ErrRateUnavailable,
		fmt.Errorf("operator %s as of %s", operatorID, asOf.Format(apperror.DateLayout)),
	)
}
