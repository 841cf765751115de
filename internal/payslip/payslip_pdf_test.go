package payslip

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildPayslipPDF(t *testing.T) {
	doc, err := buildPayslipPDF([]string{"Payslip (draft)", `C:\fleet`})

	assert.NoError(t, err)
	out := string(doc)
	assert.True(t, strings.HasPrefix(out, "%PDF-1.4\n"))
	assert.True(t, strings.HasSuffix(out, "%%EOF"))
	assert.Contains(t, out, `(Payslip \(draft\)) Tj`)
	assert.Contains(t, out, `T* (C:\\fleet) Tj`)
	assert.Contains(t, out, "xref\n0 6\n")
}

func TestPayslipLines(t *testing.T) {
	lines := payslipLines(Payslip{
		DriverID:      uuid.New(),
		InvoiceNumber: "INV-1",
		OperatorID:    "OP-A",
		Quantity:      120,
		Rate:          decimal.RequireFromString("0.85"),
		GrossPay:      decimal.RequireFromString("102"),
		Deductions:    decimal.Zero,
		NetPay:        decimal.RequireFromString("102"),
		GeneratedBy:   "system",
		GeneratedAt:   time.Date(2024, 7, 3, 9, 0, 0, 0, time.UTC),
	})

	joined := strings.Join(lines, "\n")
	assert.Equal(t, "Driver Payslip", lines[0])
	assert.Contains(t, joined, "Packages:     120 at 0.8500")
	assert.Contains(t, joined, "Net pay:")
	assert.Contains(t, joined, "102.00")
	assert.Contains(t, joined, "Generated by system at 2024-07-03 09:00 UTC")
}
