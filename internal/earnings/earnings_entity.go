package earnings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const RouteStatusCompleted = "completed"

type Route struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID          *uuid.UUID      `gorm:"type:uuid;index"`
	DispatcherID      *uuid.UUID      `gorm:"type:uuid"`
	ParcelsDelivered  *int64          `gorm:"type:integer"`
	ParcelCountTotal  int64           `gorm:"type:integer;not null;default:0"`
	CarrierParcelRate decimal.Decimal `gorm:"type:numeric(10,4);not null;default:0"`
	ScheduledDate     time.Time       `gorm:"type:date;not null"`
	Status            string          `gorm:"type:varchar(20);not null"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Delivered is the parcel count paid to the driver: parcels_delivered, or the
// planned total when the delivered figure was never recorded.
func (r Route) Delivered() int64 {
	if r.ParcelsDelivered != nil {
		return *r.ParcelsDelivered
	}
	return r.ParcelCountTotal
}

// CommissionableParcels only counts recorded deliveries; a missing figure
// earns the business nothing.
func (r Route) CommissionableParcels() int64 {
	if r.ParcelsDelivered != nil {
		return *r.ParcelsDelivered
	}
	return 0
}

// WeeklyEarnings is the legacy pre-aggregated gross per driver-week.
type WeeklyEarnings struct {
	ID          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DriverID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	WeekStart   time.Time       `gorm:"type:date;not null"`
	WeekEnd     time.Time       `gorm:"type:date;not null"`
	GrossAmount decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	CreatedAt   time.Time
}

func (WeeklyEarnings) TableName() string {
	return "weekly_earnings"
}
