// Package statement models the net-pay formulas as a closed set of variants.
// The formulas differ on purpose; each one is named and tested on its own and
// none of them may be folded into another.
package statement

import (
	"go-fleetpay/internal/shared/money"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindPayout         Kind = "payout"
	KindPayslipPreview Kind = "payslip_preview"
	KindBatchPayslip   Kind = "batch_payslip"
)

// Variant is implemented only by the types in this package.
type Variant interface {
	Kind() Kind
	Gross() decimal.Decimal
	Net() decimal.Decimal
	sealed()
}

// Payout is the compute-payout formula:
// net = gross - admin cut - ledger deductions. Expenses are not part of it.
type Payout struct {
	GrossEarnings   decimal.Decimal
	AdminCut        decimal.Decimal
	TotalDeductions decimal.Decimal
}

func (p Payout) Kind() Kind             { return KindPayout }
func (p Payout) Gross() decimal.Decimal { return money.Round(p.GrossEarnings) }
func (p Payout) Net() decimal.Decimal {
	return money.Round(money.Sum(p.GrossEarnings, p.AdminCut.Neg(), p.TotalDeductions.Neg()))
}
func (Payout) sealed() {}

// PayslipPreview is the single-driver payslip formula:
// net = gross + approved expenses - the dispatcher's flat default deduction.
type PayslipPreview struct {
	GrossPay         decimal.Decimal
	ApprovedExpenses decimal.Decimal
	DefaultDeduction decimal.Decimal
}

func (p PayslipPreview) Kind() Kind             { return KindPayslipPreview }
func (p PayslipPreview) Gross() decimal.Decimal { return money.Round(p.GrossPay) }
func (p PayslipPreview) Net() decimal.Decimal {
	return money.Round(money.Sum(p.GrossPay, p.ApprovedExpenses, p.DefaultDeduction.Neg()))
}
func (PayslipPreview) sealed() {}

// BatchPayslip is the invoice-driven formula: net = gross - deductions.
// Deductions are always zero today; the ledger is not wired into this path.
type BatchPayslip struct {
	GrossPay   decimal.Decimal
	Deductions decimal.Decimal
}

func (b BatchPayslip) Kind() Kind             { return KindBatchPayslip }
func (b BatchPayslip) Gross() decimal.Decimal { return money.Round(b.GrossPay) }
func (b BatchPayslip) Net() decimal.Decimal {
	return money.Round(b.GrossPay.Sub(b.Deductions))
}
func (BatchPayslip) sealed() {}

// Describe returns the printable breakdown lines of any variant.
func Describe(v Variant) []Line {
	switch s := v.(type) {
	case Payout:
		return []Line{
			{Label: "Gross earnings", Amount: s.Gross()},
			{Label: "Admin commission", Amount: s.AdminCut.Neg()},
			{Label: "Deductions", Amount: s.TotalDeductions.Neg()},
			{Label: "Net payout", Amount: s.Net()},
		}
	case PayslipPreview:
		return []Line{
			{Label: "Gross pay", Amount: s.Gross()},
			{Label: "Approved expenses", Amount: s.ApprovedExpenses},
			{Label: "Default deduction", Amount: s.DefaultDeduction.Neg()},
			{Label: "Net pay", Amount: s.Net()},
		}
	case BatchPayslip:
		return []Line{
			{Label: "Gross pay", Amount: s.Gross()},
			{Label: "Deductions", Amount: s.Deductions.Neg()},
			{Label: "Net pay", Amount: s.Net()},
		}
	default:
		return nil
	}
}

type Line struct {
	Label  string
	Amount decimal.Decimal
}
