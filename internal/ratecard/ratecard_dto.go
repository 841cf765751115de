package ratecard

import "go-fleetpay/internal/shared/money"

type CreateRateScheduleRequest struct {
	OperatorID    string `json:"operator_id" binding:"required,max=64"`
	Rate          string `json:"rate" binding:"required,numeric"`
	EffectiveDate string `json:"effective_date" binding:"required,isodate"`
}

type ResolveRateQuery struct {
	AsOf string `form:"as_of" binding:"omitempty,isodate"`
}

type RateScheduleResponse struct {
	ID            string     `json:"id"`
	OperatorID    string     `json:"operator_id"`
	Rate          money.Rate `json:"rate"`
	EffectiveDate string     `json:"effective_date"`
}

type ResolveRateResponse struct {
	OperatorID    string     `json:"operator_id"`
	AsOf          string     `json:"as_of"`
	Rate          money.Rate `json:"rate"`
	EffectiveDate *string    `json:"effective_date,omitempty"`
	Source        Source     `json:"source"`
}
