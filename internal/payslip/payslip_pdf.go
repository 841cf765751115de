package payslip

import (
	"bytes"
	"fmt"
	"strings"

	"go-fleetpay/internal/shared/request"
	"go-fleetpay/internal/statement"
)

func payslipLines(p Payslip) []string {
	lines := []string{
		"Driver Payslip",
		"",
		fmt.Sprintf("Invoice:      %s (%s)", p.InvoiceNumber, request.FormatDate(p.InvoiceDate)),
		fmt.Sprintf("Period:       %s to %s", request.FormatDate(p.PeriodStart), request.FormatDate(p.PeriodEnd)),
		fmt.Sprintf("Driver:       %s", p.DriverID),
		fmt.Sprintf("Operator:     %s", p.OperatorID),
		fmt.Sprintf("Packages:     %d at %s", p.Quantity, p.Rate.StringFixed(4)),
		"",
	}
	for _, l := range statement.Describe(statement.BatchPayslip{GrossPay: p.GrossPay, Deductions: p.Deductions}) {
		lines = append(lines, fmt.Sprintf("%-14s%12s", l.Label+":", l.Amount.StringFixed(2)))
	}
	return append(lines,
		"",
		fmt.Sprintf("Generated by %s at %s", p.GeneratedBy, p.GeneratedAt.UTC().Format("2006-01-02 15:04 MST")),
	)
}

// buildPayslipPDF lays lines out top to bottom on a single A4 page in
// Helvetica.
func buildPayslipPDF(lines []string) ([]byte, error) {
	if len(lines) == 0 {
		lines = []string{"Payslip"}
	}

	var content strings.Builder
	content.WriteString("BT\n/F1 12 Tf\n14 TL\n50 800 Td\n")
	for i, line := range lines {
		escaped := pdfEscape(line)
		if i == 0 {
			content.WriteString(fmt.Sprintf("(%s) Tj\n", escaped))
			continue
		}
		content.WriteString(fmt.Sprintf("T* (%s) Tj\n", escaped))
	}
	content.WriteString("ET")

	stream := content.String()
	objects := []string{
		"1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n",
		"2 0 obj\n<< /Type /Pages /Kids [3 0 R] /Count 1 >>\nendobj\n",
		"3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 595 842] /Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n",
		"4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica >>\nendobj\n",
		fmt.Sprintf("5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", len(stream), stream),
	}

	var out bytes.Buffer
	out.WriteString("%PDF-1.4\n")
	offsets := make([]int, 0, len(objects)+1)
	offsets = append(offsets, 0)

	for _, obj := range objects {
		offsets = append(offsets, out.Len())
		out.WriteString(obj)
	}

	xrefStart := out.Len()
	out.WriteString(fmt.Sprintf("xref\n0 %d\n", len(offsets)))
	out.WriteString("0000000000 65535 f \n")
	for i := 1; i < len(offsets); i++ {
		out.WriteString(fmt.Sprintf("%010d 00000 n \n", offsets[i]))
	}
	out.WriteString(fmt.Sprintf("trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF", len(offsets), xrefStart))

	return out.Bytes(), nil
}

func pdfEscape(v string) string {
	replacer := strings.NewReplacer("\\", "\\\\", "(", "\\(", ")", "\\)")
	return replacer.Replace(v)
}
