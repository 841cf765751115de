package ledger

import (
	"context"

	"go-fleetpay/internal/scope"
	"go-fleetpay/internal/shared/request"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	SumDeductions(ctx context.Context, driverID uuid.UUID, period request.Period) (decimal.Decimal, error)
	SumApprovedExpenses(ctx context.Context, driverID uuid.UUID, period request.Period) (decimal.Decimal, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SumDeductions(ctx context.Context, driverID uuid.UUID, period request.Period) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&Deduction{}).
		Scopes(scope.Driver(driverID.String()), scope.CreatedWithin(period)).
		Select("COALESCE(SUM(amount), 0)").
		Row().
		Scan(&total)
	return total, err
}

func (r *repository) SumApprovedExpenses(ctx context.Context, driverID uuid.UUID, period request.Period) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&Expense{}).
		Scopes(scope.Driver(driverID.String()), scope.CreatedWithin(period)).
		Where("status = ?", ExpenseStatusApproved).
		Select("COALESCE(SUM(cost), 0)").
		Row().
		Scan(&total)
	return total, err
}
