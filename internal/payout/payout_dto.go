package payout

import (
	"time"

	"go-fleetpay/internal/shared/money"
	"go-fleetpay/internal/shared/request"
)

// ComputePayoutRequest leaves the period optional; both ends or neither.
type ComputePayoutRequest struct {
	DriverID    string `json:"driver_id" binding:"required"`
	PeriodStart string `json:"period_start" binding:"omitempty,isodate"`
	PeriodEnd   string `json:"period_end" binding:"omitempty,isodate"`
}

func (r ComputePayoutRequest) Range() request.DateRange {
	return request.DateRange{Start: r.PeriodStart, End: r.PeriodEnd}
}

type MarkPaidRequest struct {
	PaymentReference string `json:"payment_reference" binding:"omitempty,max=64"`
}

type PayStatementResponse struct {
	ID               string       `json:"id"`
	DriverID         string       `json:"driver_id"`
	PeriodStart      string       `json:"period_start"`
	PeriodEnd        string       `json:"period_end"`
	GrossEarnings    money.Amount `json:"gross_earnings"`
	AdminCut         money.Amount `json:"admin_cut"`
	TotalDeductions  money.Amount `json:"total_deductions"`
	NetPayout        money.Amount `json:"net_payout"`
	Status           string       `json:"status"`
	PaidAt           *time.Time   `json:"paid_at"`
	PaymentReference *string      `json:"payment_reference"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

type ComputePayoutResponse struct {
	PayStatement    PayStatementResponse `json:"pay_statement"`
	GrossEarnings   money.Amount         `json:"gross_earnings"`
	AdminCut        money.Amount         `json:"admin_cut"`
	TotalDeductions money.Amount         `json:"total_deductions"`
	NetPayout       money.Amount         `json:"net_payout"`
}
