package invoice

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Invoice groups carrier billing data for one period. The batch payslip run
// is keyed on its number.
type Invoice struct {
	InvoiceNumber string    `gorm:"type:varchar(64);primaryKey"`
	InvoiceDate   time.Time `gorm:"type:date;not null"`
	PeriodStart   time.Time `gorm:"type:date;not null"`
	PeriodEnd     time.Time `gorm:"type:date;not null"`
	CreatedAt     time.Time
}

// InvoiceOperatorQuantity is one operator's delivered volume on one service
// day of an invoice.
type InvoiceOperatorQuantity struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	InvoiceNumber     string    `gorm:"type:varchar(64);not null;index"`
	OperatorID        string    `gorm:"type:varchar(64);not null"`
	ServiceDate       time.Time `gorm:"type:date;not null"`
	QuantityDelivered int64     `gorm:"not null;default:0"`
}

// OperatorTotal is the summed volume of an operator within one invoice.
type OperatorTotal struct {
	OperatorID string
	Quantity   int64
	Days       int
}

// GroupByOperator sums quantities per operator, ordered by operator id.
func GroupByOperator(rows []InvoiceOperatorQuantity) []OperatorTotal {
	index := make(map[string]int)
	var totals []OperatorTotal
	for _, r := range rows {
		i, ok := index[r.OperatorID]
		if !ok {
			i = len(totals)
			index[r.OperatorID] = i
			totals = append(totals, OperatorTotal{OperatorID: r.OperatorID})
		}
		totals[i].Quantity += r.QuantityDelivered
		totals[i].Days++
	}
	sort.Slice(totals, func(i, j int) bool {
		return totals[i].OperatorID < totals[j].OperatorID
	})
	return totals
}
