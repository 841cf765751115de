package driver

import (
	"context"
	"errors"

	drivererrors "go-fleetpay/internal/driver/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Driver, error)
	FindByOperatorID(ctx context.Context, operatorID string) (*Driver, error)
	FindDispatchersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Dispatcher, error)
	FindOldestActiveDispatcher(ctx context.Context) (*Dispatcher, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Driver, error) {
	var d Driver
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, drivererrors.ErrDriverNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) FindByOperatorID(ctx context.Context, operatorID string) (*Driver, error) {
	var d Driver
	err := r.db.WithContext(ctx).First(&d, "operator_id = ?", operatorID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, drivererrors.ErrOperatorNotLinked
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *repository) FindDispatchersByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]Dispatcher, error) {
	out := make(map[uuid.UUID]Dispatcher, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var dispatchers []Dispatcher
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&dispatchers).Error; err != nil {
		return nil, err
	}
	for _, d := range dispatchers {
		out[d.ID] = d
	}
	return out, nil
}

// FindOldestActiveDispatcher returns nil, nil when no dispatcher is active.
func (r *repository) FindOldestActiveDispatcher(ctx context.Context) (*Dispatcher, error) {
	var d Dispatcher
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("driver_parcel_rate > 0").
		Order("created_at ASC").
		First(&d).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}
