package earnings

import (
	"go-fleetpay/internal/driver"
	"go-fleetpay/internal/shared/money"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdminCut is the amount retained by the business: for each completed route
// with a known dispatcher, recorded deliveries times that dispatcher's
// per-parcel commission.
func AdminCut(routes []Route, dispatchers map[uuid.UUID]driver.Dispatcher) decimal.Decimal {
	total := decimal.Zero
	for _, r := range routes {
		if r.Status != RouteStatusCompleted || r.DispatcherID == nil {
			continue
		}
		d, ok := dispatchers[*r.DispatcherID]
		if !ok {
			continue
		}
		total = total.Add(decimal.NewFromInt(r.CommissionableParcels()).Mul(d.AdminCommissionPerParcel))
	}
	return money.Round(total)
}

// DispatcherIDs lists the distinct dispatchers referenced by routes, in first
// seen order.
func DispatcherIDs(routes []Route) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, r := range routes {
		if r.DispatcherID == nil {
			continue
		}
		if _, ok := seen[*r.DispatcherID]; ok {
			continue
		}
		seen[*r.DispatcherID] = struct{}{}
		ids = append(ids, *r.DispatcherID)
	}
	return ids
}

// LatestRoute returns the most recent completed route by scheduled date, with
// creation time breaking ties.
func LatestRoute(routes []Route) (Route, bool) {
	var latest Route
	found := false
	for _, r := range routes {
		if r.Status != RouteStatusCompleted {
			continue
		}
		if !found ||
			r.ScheduledDate.After(latest.ScheduledDate) ||
			(r.ScheduledDate.Equal(latest.ScheduledDate) && r.CreatedAt.After(latest.CreatedAt)) {
			latest = r
			found = true
		}
	}
	return latest, found
}
