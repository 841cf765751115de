package events

import "time"

const (
	PayStatementComputedTopic = "compensation.pay_statement.computed.v1"
	PayStatementPaidTopic     = "compensation.pay_statement.paid.v1"
	PayslipGeneratedTopic     = "compensation.payslip.generated.v1"

	EventTypePayStatementComputed = "pay_statement.computed"
	EventTypePayStatementPaid     = "pay_statement.paid"
	EventTypePayslipGenerated     = "payslip.generated"

	AggregatePayStatement = "pay_statement"
	AggregatePayslip      = "payslip"
)

// Money fields are decimal strings with two places.
type PayStatementComputedEvent struct {
	EventType       string    `json:"event_type"`
	PayStatementID  string    `json:"pay_statement_id"`
	DriverID        string    `json:"driver_id"`
	PeriodStart     string    `json:"period_start"`
	PeriodEnd       string    `json:"period_end"`
	GrossEarnings   string    `json:"gross_earnings"`
	AdminCut        string    `json:"admin_cut"`
	TotalDeductions string    `json:"total_deductions"`
	NetPayout       string    `json:"net_payout"`
	OccurredAt      time.Time `json:"occurred_at"`
}

type PayStatementPaidEvent struct {
	EventType        string    `json:"event_type"`
	PayStatementID   string    `json:"pay_statement_id"`
	DriverID         string    `json:"driver_id"`
	NetPayout        string    `json:"net_payout"`
	PaymentReference string    `json:"payment_reference"`
	PaidAt           time.Time `json:"paid_at"`
	OccurredAt       time.Time `json:"occurred_at"`
}

type PayslipGeneratedEvent struct {
	EventType     string    `json:"event_type"`
	PayslipID     string    `json:"payslip_id"`
	DriverID      string    `json:"driver_id"`
	OperatorID    string    `json:"operator_id"`
	InvoiceNumber string    `json:"invoice_number"`
	GrossPay      string    `json:"gross_pay"`
	NetPay        string    `json:"net_pay"`
	GeneratedBy   string    `json:"generated_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}
