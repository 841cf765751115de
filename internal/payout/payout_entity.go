package payout

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	StatusPending = "pending"
	StatusPaid    = "paid"
)

// PayStatement is the single-driver payout for one period. At most one row
// exists per (driver, period_start, period_end).
type PayStatement struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:uq_pay_statement_period,priority:1"`
	PeriodStart      time.Time       `gorm:"type:date;not null;uniqueIndex:uq_pay_statement_period,priority:2"`
	PeriodEnd        time.Time       `gorm:"type:date;not null;uniqueIndex:uq_pay_statement_period,priority:3"`
	GrossEarnings    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	AdminCut         decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TotalDeductions  decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	NetPayout        decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status           string          `gorm:"type:varchar(20);not null;default:pending"`
	PaidAt           *time.Time
	PaymentReference *string `gorm:"type:varchar(64)"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s PayStatement) IsPaid() bool {
	return s.Status == StatusPaid
}
