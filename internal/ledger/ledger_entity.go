package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseStatus string

const (
	ExpenseStatusPending  ExpenseStatus = "pending"
	ExpenseStatusApproved ExpenseStatus = "approved"
	ExpenseStatusRejected ExpenseStatus = "rejected"
)

// Deduction is a manual charge against a driver's pay.
type Deduction struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Reason    string          `gorm:"type:text"`
	CreatedAt time.Time
}

type Expense struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cost      decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Status    ExpenseStatus   `gorm:"type:varchar(20);not null;default:pending"`
	CreatedAt time.Time
}
