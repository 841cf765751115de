package payslip

import (
	"time"

	"go-fleetpay/internal/shared/money"
	"go-fleetpay/internal/shared/request"
)

type ComputeSinglePayslipRequest struct {
	DriverID        string `json:"driver_id" binding:"required"`
	PeriodStartDate string `json:"period_start_date" binding:"required,isodate"`
	PeriodEndDate   string `json:"period_end_date" binding:"required,isodate"`
}

func (r ComputeSinglePayslipRequest) Range() request.DateRange {
	return request.DateRange{Start: r.PeriodStartDate, End: r.PeriodEndDate}
}

// ComputeBatchPayslipsRequest runs every invoice when InvoiceNumber is empty.
type ComputeBatchPayslipsRequest struct {
	InvoiceNumber string `json:"invoice_number" binding:"omitempty,max=64"`
}

type DriverDetails struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Email      string  `json:"email"`
	OperatorID *string `json:"operator_id"`
}

type PeriodResponse struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type Performance struct {
	TotalRoutes            int   `json:"total_routes"`
	TotalPackagesCompleted int64 `json:"total_packages_completed"`
}

type Financial struct {
	Rate                 money.Rate   `json:"rate"`
	RateEffectiveDate    *string      `json:"rate_effective_date"`
	RateSource           string       `json:"rate_source"`
	GrossPay             money.Amount `json:"gross_pay"`
	ApprovedExpenses     money.Amount `json:"approved_expenses"`
	DefaultDeductionRate money.Amount `json:"default_deduction_rate"`
	NetPay               money.Amount `json:"net_pay"`
}

type RouteBreakdown struct {
	RouteID       string       `json:"route_id"`
	ScheduledDate string       `json:"scheduled_date"`
	Packages      int64        `json:"packages"`
	Amount        money.Amount `json:"amount"`
}

type SinglePayslipResponse struct {
	DriverDetails DriverDetails    `json:"driver_details"`
	Period        PeriodResponse   `json:"period"`
	Performance   Performance      `json:"performance"`
	Financial     Financial        `json:"financial"`
	Breakdown     []RouteBreakdown `json:"breakdown"`
	GeneratedAt   time.Time        `json:"generated_at"`
}

type PayslipResponse struct {
	ID            string       `json:"id"`
	DriverID      string       `json:"driver_id"`
	InvoiceNumber string       `json:"invoice_number"`
	InvoiceDate   string       `json:"invoice_date"`
	PeriodStart   string       `json:"period_start"`
	PeriodEnd     string       `json:"period_end"`
	OperatorID    string       `json:"operator_id"`
	Quantity      int64        `json:"quantity"`
	Rate          money.Rate   `json:"rate"`
	GrossPay      money.Amount `json:"gross_pay"`
	Deductions    money.Amount `json:"deductions"`
	NetPay        money.Amount `json:"net_pay"`
	GeneratedBy   string       `json:"generated_by"`
	GeneratedAt   time.Time    `json:"generated_at"`
}

type BatchPayslipsResponse struct {
	Success           bool              `json:"success"`
	PayslipsGenerated int               `json:"payslips_generated"`
	Payslips          []PayslipResponse `json:"payslips"`
	Warnings          []string          `json:"warnings,omitempty"`
}
