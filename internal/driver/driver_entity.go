package driver

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Driver struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name       string    `gorm:"type:varchar(150);not null"`
	Email      string    `gorm:"type:varchar(150);not null"`
	OperatorID *string   `gorm:"type:varchar(64);uniqueIndex:uq_driver_operator"` // carrier-side key, null until assigned
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (d Driver) HasOperator() bool {
	return d.OperatorID != nil && *d.OperatorID != ""
}

// Dispatcher owns the commercial terms for the drivers it manages.
type Dispatcher struct {
	ID                   uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name                 string          `gorm:"type:varchar(150);not null"`
	DriverParcelRate     decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0"`
	DefaultDeductionRate decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	// Stored under the historical column name but it is an absolute amount per
	// parcel, not a percentage.
	AdminCommissionPerParcel decimal.Decimal `gorm:"column:admin_commission_percentage;type:numeric(10,4);not null;default:0"`
	IsActive                 bool            `gorm:"not null;default:true"`
	CreatedAt                time.Time
	UpdatedAt                time.Time
}
