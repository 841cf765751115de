package payslip

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Payslip is the invoice-driven pay record of one driver. At most one row
// exists per (driver, invoice_number).
type Payslip struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID      uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_payslip_driver_invoice,priority:1"`
	InvoiceNumber string          `gorm:"type:varchar(64);not null;uniqueIndex:uq_payslip_driver_invoice,priority:2"`
	InvoiceDate   time.Time       `gorm:"type:date;not null"`
	PeriodStart   time.Time       `gorm:"type:date;not null"`
	PeriodEnd     time.Time       `gorm:"type:date;not null"`
	OperatorID    string          `gorm:"type:varchar(64);not null"`
	Quantity      int64           `gorm:"not null;default:0"`
	Rate          decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	GrossPay      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Deductions    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	NetPay        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	GeneratedBy   string          `gorm:"type:varchar(64);not null"`
	GeneratedAt   time.Time       `gorm:"not null"`
	UpdatedAt     time.Time
}
