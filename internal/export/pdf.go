package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"kyatbook/internal/core"
)

var pdfWidths = []float64{24, 30, 28, 20, 18, 18, 90, 30}

// PDF renders the grouped report as a landscape A4 table, one section per
// day with a subtotal line, grand totals on the last line.
func PDF(groups []core.ReportGroup) ([]byte, error) {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetAutoPageBreak(true, 15)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 14)
	doc.CellFormat(0, 10, "Transfer Report", "", 1, "C", false, 0, "")
	doc.Ln(2)

	writeHeader := func() {
		doc.SetFont("Helvetica", "B", 9)
		doc.SetFillColor(230, 230, 230)
		for i, col := range columns {
			doc.CellFormat(pdfWidths[i], 7, col, "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
	}
	writeHeader()

	doc.SetFont("Helvetica", "", 9)
	var grand core.Totals
	for _, group := range groups {
		for _, rec := range group.Records {
			cells := []string{
				rec.Date.String(),
				rec.PhoneNo,
				core.FormatAmount(rec.Amount),
				core.FormatAmount(rec.Fee),
				string(rec.Pay),
				string(rec.Type),
				rec.Description,
				rec.EntryPerson,
			}
			for i, cell := range cells {
				doc.CellFormat(pdfWidths[i], 6, cell, "1", 0, "L", false, 0, "")
			}
			doc.Ln(-1)
		}

		doc.SetFont("Helvetica", "B", 9)
		doc.CellFormat(pdfWidths[0]+pdfWidths[1], 6,
			fmt.Sprintf("Total %s", group.Date.String()), "1", 0, "L", false, 0, "")
		doc.CellFormat(pdfWidths[2], 6, core.FormatAmount(group.TotalAmount), "1", 0, "R", false, 0, "")
		doc.CellFormat(pdfWidths[3], 6, core.FormatAmount(group.TotalFee), "1", 1, "R", false, 0, "")
		doc.SetFont("Helvetica", "", 9)

		grand.Total += group.TotalAmount
		grand.Fee += group.TotalFee
	}

	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(pdfWidths[0]+pdfWidths[1], 7, "Grand Total", "1", 0, "L", false, 0, "")
	doc.CellFormat(pdfWidths[2], 7, core.FormatAmount(grand.Total), "1", 0, "R", false, 0, "")
	doc.CellFormat(pdfWidths[3], 7, core.FormatAmount(grand.Fee), "1", 1, "R", false, 0, "")

	if doc.Err() {
		return nil, fmt.Errorf("render pdf: %w", doc.Error())
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}
