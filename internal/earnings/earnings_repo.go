package earnings

import (
	"context"

	"go-fleetpay/internal/scope"
	"go-fleetpay/internal/shared/request"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	ListCompletedRoutes(ctx context.Context, driverID uuid.UUID, period request.Period) ([]Route, error)
	ListWeeklyEarnings(ctx context.Context, driverID uuid.UUID, period request.Period) ([]WeeklyEarnings, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListCompletedRoutes(ctx context.Context, driverID uuid.UUID, period request.Period) ([]Route, error) {
	var routes []Route
	err := r.db.WithContext(ctx).
		Scopes(scope.Driver(driverID.String()), scope.DateWithin("scheduled_date", period)).
		Where("status = ?", RouteStatusCompleted).
		Order("scheduled_date ASC, created_at ASC").
		Find(&routes).Error
	return routes, err
}

// ListWeeklyEarnings returns weeks that lie entirely inside the period.
func (r *repository) ListWeeklyEarnings(ctx context.Context, driverID uuid.UUID, period request.Period) ([]WeeklyEarnings, error) {
	var rows []WeeklyEarnings
	err := r.db.WithContext(ctx).
		Scopes(scope.Driver(driverID.String())).
		Where("week_start >= ? AND week_end <= ?", period.Start, period.End).
		Order("week_start ASC").
		Find(&rows).Error
	return rows, err
}
