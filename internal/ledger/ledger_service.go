package ledger

import (
	"context"

	"go-fleetpay/internal/shared/apperror"
	"go-fleetpay/internal/shared/money"
	"go-fleetpay/internal/shared/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregator rounds ledger sums to pennies and maps storage failures.
// Deductions and approved expenses stay separate; each net formula treats
// them differently.
type Aggregator struct {
	repo Repository
}

func NewAggregator(repo Repository) *Aggregator {
	return &Aggregator{repo: repo}
}

func (a *Aggregator) SumDeductions(ctx context.Context, driverID uuid.UUID, period request.Period) (decimal.Decimal, error) {
	total, err := a.repo.SumDeductions(ctx, driverID, period)
	if err != nil {
		return decimal.Zero, apperror.Persistence(err, "failed to sum deductions")
	}
	return money.Round(total), nil
}

func (a *Aggregator) SumApprovedExpenses(ctx context.Context, driverID uuid.UUID, period request.Period) (decimal.Decimal, error) {
	total, err := a.repo.SumApprovedExpenses(ctx, driverID, period)
	if err != nil {
		return decimal.Zero, apperror.Persistence(err, "failed to sum approved expenses")
	}
	return money.Round(total), nil
}
