package receiptpdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/payflowhq/payflow/internal/pkg/checkout"
)

// Render produces a printable PDF receipt for a completed payment.
func Render(r checkout.Receipt) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Payment Receipt")
	pdf.Ln(14)

	pdf.SetFont("Arial", "", 12)
	row(pdf, "Ref Number", r.RefNumber)
	row(pdf, "Payment Time", r.PaymentTime.Format("2006-01-02 15:04:05 MST"))
	row(pdf, "Invoices", strings.Join(r.PaidInvoiceIDs, ", "))
	pdf.Ln(4)
	row(pdf, "Amount", fmt.Sprintf("$ %.2f", r.Amount))
	row(pdf, "Processing Fee", fmt.Sprintf("$ %.2f", r.Fee))

	pdf.SetFont("Arial", "B", 12)
	row(pdf, "Total Paid", fmt.Sprintf("$ %.2f", r.TotalPaid))

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func row(pdf *gofpdf.Fpdf, label, value string) {
	pdf.Cell(50, 8, label)
	pdf.Cell(0, 8, value)
	pdf.Ln(8)
}
