package payout

import (
	"context"
	"database/sql"
	"errors"
	"time"

	payouterrors "go-fleetpay/internal/payout/errors"
	"go-fleetpay/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert inserts or refreshes the statement for its (driver, period).
	// A paid row is left untouched and ErrStatementAlreadyPaid is returned.
	Upsert(ctx context.Context, stmt *PayStatement) error
	FindByID(ctx context.Context, id uuid.UUID) (*PayStatement, error)
	FindByPeriod(ctx context.Context, driverID uuid.UUID, start, end time.Time) (*PayStatement, error)
	MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, reference string) error
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

func (r *repository) Upsert(ctx context.Context, stmt *PayStatement) error {
	res := connection.BindTx(ctx, r.db, r.tx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "driver_id"}, {Name: "period_start"}, {Name: "period_end"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"gross_earnings", "admin_cut", "total_deductions", "net_payout", "status", "updated_at",
			}),
			Where: clause.Where{Exprs: []clause.Expression{
				clause.Neq{Column: clause.Column{Table: "pay_statements", Name: "status"}, Value: StatusPaid},
			}},
		}).
		Create(stmt)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return payouterrors.ErrStatementAlreadyPaid
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*PayStatement, error) {
	var stmt PayStatement
	err := connection.BindTx(ctx, r.db, r.tx).First(&stmt, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payouterrors.ErrPayStatementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stmt, nil
}

func (r *repository) FindByPeriod(ctx context.Context, driverID uuid.UUID, start, end time.Time) (*PayStatement, error) {
	var stmt PayStatement
	err := connection.BindTx(ctx, r.db, r.tx).
		Where("driver_id = ? AND period_start = ? AND period_end = ?", driverID, start, end).
		First(&stmt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, payouterrors.ErrPayStatementNotFound
	}
	if err != nil {
		return nil, err
	}
	return &stmt, nil
}

// MarkPaid only moves pending rows; a concurrent payment surfaces as
// ErrStatementAlreadyPaid.
func (r *repository) MarkPaid(ctx context.Context, id uuid.UUID, paidAt time.Time, reference string) error {
	res := connection.BindTx(ctx, r.db, r.tx).
		Model(&PayStatement{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(map[string]any{
			"status":            StatusPaid,
			"paid_at":           paidAt,
			"payment_reference": reference,
			"updated_at":        paidAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return payouterrors.ErrStatementAlreadyPaid
	}
	return nil
}
