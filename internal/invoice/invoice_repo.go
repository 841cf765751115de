package invoice

import (
	"context"
	"errors"

	invoiceerrors "go-fleetpay/internal/invoice/errors"

	"gorm.io/gorm"
)

type Repository interface {
	FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error)
	ListAll(ctx context.Context) ([]Invoice, error)
	ListQuantities(ctx context.Context, invoiceNumber string) ([]InvoiceOperatorQuantity, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByNumber(ctx context.Context, invoiceNumber string) (*Invoice, error) {
	var inv Invoice
	err := r.db.WithContext(ctx).First(&inv, "invoice_number = ?", invoiceNumber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, invoiceerrors.ErrInvoiceNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *repository) ListAll(ctx context.Context) ([]Invoice, error) {
	var invoices []Invoice
	err := r.db.WithContext(ctx).Order("invoice_number ASC").Find(&invoices).Error
	return invoices, err
}

func (r *repository) ListQuantities(ctx context.Context, invoiceNumber string) ([]InvoiceOperatorQuantity, error) {
	var rows []InvoiceOperatorQuantity
	err := r.db.WithContext(ctx).
		Where("invoice_number = ?", invoiceNumber).
		Order("operator_id ASC, service_date ASC").
		Find(&rows).Error
	return rows, err
}
