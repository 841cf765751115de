package ratecard

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go-fleetpay/internal/shared/connection"

	"gorm.io/gorm"
)

//go:generate mockgen -source=ratecard_repo.go -destination=mock/ratecard_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, rate *RateSchedule) error
	// FindEffective returns nil, nil when no row is effective on asOf.
	FindEffective(ctx context.Context, operatorID string, asOf time.Time) (*RateSchedule, error)
	ListByOperator(ctx context.Context, operatorID string, upTo *time.Time) ([]RateSchedule, error)
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{
		db: r.db,
		tx: tx,
	}
}

func (r *repository) Create(ctx context.Context, rate *RateSchedule) error {
	return connection.BindTx(ctx, r.db, r.tx).Create(rate).Error
}

func (r *repository) FindEffective(ctx context.Context, operatorID string, asOf time.Time) (*RateSchedule, error) {
	var rate RateSchedule
	err := connection.BindTx(ctx, r.db, r.tx).
		Where("operator_id = ?", operatorID).
		Where("effective_date <= ?", asOf).
		Order("effective_date DESC").
		First(&rate).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

func (r *repository) ListByOperator(ctx context.Context, operatorID string, upTo *time.Time) ([]RateSchedule, error) {
	var rates []RateSchedule
	db := connection.BindTx(ctx, r.db, r.tx).
		Where("operator_id = ?", operatorID)
	if upTo != nil {
		db = db.Where("effective_date <= ?", *upTo)
	}
	err := db.Order("effective_date ASC").Find(&rates).Error
	return rates, err
}
