// Package export renders date-range reports as downloadable files.
package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"kyatbook/internal/core"
)

var columns = []string{"Date", "Phone No", "Amount", "Fee", "Pay", "Type", "Description", "Entry Person"}

// Excel renders the grouped report as an xlsx workbook. Each day group is
// followed by its subtotal row, with grand totals at the bottom.
func Excel(groups []core.ReportGroup) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Report"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, col); err != nil {
			return nil, fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	var grand core.Totals
	for _, group := range groups {
		for _, rec := range group.Records {
			values := []any{
				rec.Date.String(),
				rec.PhoneNo,
				rec.Amount,
				rec.Fee,
				string(rec.Pay),
				string(rec.Type),
				rec.Description,
				rec.EntryPerson,
			}
			for i, v := range values {
				cell, _ := excelize.CoordinatesToCellName(i+1, row)
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return nil, fmt.Errorf("write record row: %w", err)
				}
			}
			row++
		}

		subtotal := []any{
			fmt.Sprintf("Total %s", group.Date.String()), "",
			group.TotalAmount, group.TotalFee,
		}
		for i, v := range subtotal {
			cell, _ := excelize.CoordinatesToCellName(i+1, row)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, fmt.Errorf("write subtotal row: %w", err)
			}
		}
		row++

		grand.Total += group.TotalAmount
		grand.Fee += group.TotalFee
	}

	grandRow := []any{"Grand Total", "", grand.Total, grand.Fee}
	for i, v := range grandRow {
		cell, _ := excelize.CoordinatesToCellName(i+1, row)
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return nil, fmt.Errorf("write grand total row: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
