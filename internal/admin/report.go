package admin

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// BuildOrderCountPDF renders the customer order-count report: one row
// per customer plus a totals line.
func BuildOrderCountPDF(summaries []CustomerSummary, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Orders by Customer")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 9)
	pdf.Cell(0, 8, "Generated "+generatedAt.Format("2006-01-02 15:04"))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(110, 8, "Customer", "1", 0, "L", true, 0, "")
	pdf.CellFormat(40, 8, "Orders", "1", 0, "R", true, 0, "")
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	total := 0
	for _, summary := range summaries {
		pdf.CellFormat(110, 8, summary.CustomerName, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%d", summary.OrderCount), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
		total += summary.OrderCount
	}

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(110, 8, "Total", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, fmt.Sprintf("%d", total), "1", 0, "R", false, 0, "")
	pdf.Ln(-1)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	return buf.Bytes(), nil
}
