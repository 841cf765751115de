// Package scope holds reusable gorm query scopes for driver/period filters.
package scope

import (
	"go-fleetpay/internal/shared/request"

	"gorm.io/gorm"
)

func Driver(driverID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("driver_id = ?", driverID)
	}
}

// DateWithin filters a DATE column to the inclusive period.
func DateWithin(column string, period request.Period) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(column+" >= ? AND "+column+" <= ?", period.Start, period.End)
	}
}

// CreatedWithin filters created_at so the whole end day is included.
func CreatedWithin(period request.Period) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("created_at >= ? AND created_at < ?", period.Start, period.EndExclusive())
	}
}
