package earnings

import (
	"context"
	"fmt"
	"time"

	"go-fleetpay/internal/config"
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/ratecard"
	ratecarderrors "go-fleetpay/internal/ratecard/errors"
	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/money"
	"go-fleetpay/internal/shared/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// RateResolver is the part of ratecard.Resolver the aggregator needs.
type RateResolver interface {
	History(ctx context.Context, operatorID string, upTo time.Time) (ratecard.Schedule, error)
	ResolveIn(ctx context.Context, schedule ratecard.Schedule, asOf time.Time) (ratecard.Resolution, error)
}

type RouteEarning struct {
	RouteID       uuid.UUID
	ScheduledDate time.Time
	Delivered     int64
	Rate          decimal.Decimal
	RateSource    ratecard.Source
	Amount        decimal.Decimal
}

// Result reports each source separately. Overlap is set when both sources
// contributed, which usually means the same weeks are counted twice.
type Result struct {
	Routes         []Route
	RouteLines     []RouteEarning
	RouteEarnings  decimal.Decimal
	TotalParcels   int64
	WeeklyRows     []WeeklyEarnings
	LegacyEarnings decimal.Decimal
	Overlap        bool
}

func (r Result) Gross() decimal.Decimal {
	return money.Round(r.RouteEarnings.Add(r.LegacyEarnings))
}

type Aggregator struct {
	repo    Repository
	rates   RateResolver
	sources config.EarningsConfig
}

func NewAggregator(repo Repository, rates RateResolver, sources config.EarningsConfig) *Aggregator {
	return &Aggregator{
		repo:    repo,
		rates:   rates,
		sources: sources,
	}
}

// Aggregate loads both sources concurrently and prices every completed route
// at the driver's rate on its scheduled date. Any route without a rate fails
// the whole call.
func (a *Aggregator) Aggregate(ctx context.Context, d driver.Driver, period request.Period) (Result, error) {
	res := Result{
		RouteEarnings:  decimal.Zero,
		LegacyEarnings: decimal.Zero,
	}

	var schedule ratecard.Schedule
	g, gctx := errgroup.WithContext(ctx)

	if a.sources.IncludeRoutes {
		g.Go(func() error {
			routes, err := a.repo.ListCompletedRoutes(gctx, d.ID, period)
			if err != nil {
				return apperror.Persistence(err, "failed to load routes")
			}
			res.Routes = routes
			return nil
		})
		if d.HasOperator() {
			g.Go(func() error {
				s, err := a.rates.History(gctx, *d.OperatorID, period.End)
				if err != nil {
					return err
				}
				schedule = s
				return nil
			})
		}
	}

	if a.sources.IncludeLegacyWeekly {
		g.Go(func() error {
			rows, err := a.repo.ListWeeklyEarnings(gctx, d.ID, period)
			if err != nil {
				return apperror.Persistence(err, "failed to load weekly earnings")
			}
			res.WeeklyRows = rows
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	for _, route := range res.Routes {
		rate, err := a.rates.ResolveIn(ctx, schedule, route.ScheduledDate)
		if err != nil {
			return Result{}, err
		}
		if !rate.Rate.IsPositive() {
			return Result{}, apperror.WithCause(
				ratecarderrors.ErrRateUnavailable,
				fmt.Errorf("route %s: zero rate for operator %s as of %s", route.ID, rate.OperatorID, request.FormatDate(route.ScheduledDate)),
			)
		}

		delivered := route.Delivered()
		amount := decimal.NewFromInt(delivered).Mul(rate.Rate)
		res.RouteLines = append(res.RouteLines, RouteEarning{
			RouteID:       route.ID,
			ScheduledDate: route.ScheduledDate,
			Delivered:     delivered,
			Rate:          rate.Rate,
			RateSource:    rate.Source,
			Amount:        money.Round(amount),
		})
		res.RouteEarnings = res.RouteEarnings.Add(amount)
		res.TotalParcels += delivered
	}
	res.RouteEarnings = money.Round(res.RouteEarnings)

	for _, w := range res.WeeklyRows {
		res.LegacyEarnings = res.LegacyEarnings.Add(w.GrossAmount)
	}
	res.LegacyEarnings = money.Round(res.LegacyEarnings)

	res.Overlap = !res.RouteEarnings.IsZero() && !res.LegacyEarnings.IsZero()

	return res, nil
}
