package ratecard

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RateSchedule is one row of an operator's per-parcel rate history. A row is
// valid from its effective date until the next row takes over.
type RateSchedule struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OperatorID    string          `gorm:"type:varchar(64);not null;uniqueIndex:uq_rate_schedule_effective,priority:1"`
	Rate          decimal.Decimal `gorm:"type:numeric(10,4);not null"`
	EffectiveDate time.Time       `gorm:"type:date;not null;uniqueIndex:uq_rate_schedule_effective,priority:2"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
