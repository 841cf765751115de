package payslip

import (
	"context"
	"database/sql"
	"errors"

	paysliperrors "go-fleetpay/internal/payslip/errors"
	"go-fleetpay/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	// Upsert inserts the payslip or refreshes the existing row for its
	// (driver, invoice_number) in place.
	Upsert(ctx context.Context, p *Payslip) error
	FindByID(ctx context.Context, id uuid.UUID) (*Payslip, error)
	FindByInvoice(ctx context.Context, driverID uuid.UUID, invoiceNumber string) (*Payslip, error)
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

func (r *repository) Upsert(ctx context.Context, p *Payslip) error {
	return connection.BindTx(ctx, r.db, r.tx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "driver_id"}, {Name: "invoice_number"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"invoice_date", "period_start", "period_end", "operator_id", "quantity", "rate",
				"gross_pay", "deductions", "net_pay", "generated_by", "generated_at", "updated_at",
			}),
		}).
		Create(p).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Payslip, error) {
	var p Payslip
	err := connection.BindTx(ctx, r.db, r.tx).First(&p, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, paysliperrors.ErrPayslipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *repository) FindByInvoice(ctx context.Context, driverID uuid.UUID, invoiceNumber string) (*Payslip, error) {
	var p Payslip
	err := connection.BindTx(ctx, r.db, r.tx).
		Where("driver_id = ? AND invoice_number = ?", driverID, invoiceNumber).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, paysliperrors.ErrPayslipNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
