package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

const (
	sheetRegistrations = "Registrations"
	sheetSummary       = "Summary"

	maxColumnWidth = 50
)

// WriteXLSX renders the table as a workbook with a Registrations sheet and
// a Summary sheet, matching the admin download the site has always offered.
func WriteXLSX(w io.Writer, table Table, summary Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetRegistrations); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := writeSheet(f, sheetRegistrations, append([][]string{table.Headers}, table.Rows...)); err != nil {
		return err
	}

	if _, err := f.NewSheet(sheetSummary); err != nil {
		return fmt.Errorf("add summary sheet: %w", err)
	}
	summaryRows := [][]string{
		{"Metric", "Value"},
		{"Event Name", summary.EventName},
		{"Total Registrations", strconv.Itoa(summary.Total)},
		{"Pending Registrations", strconv.Itoa(summary.Pending)},
		{"Verified Registrations", strconv.Itoa(summary.Verified)},
		{"Rejected Registrations", strconv.Itoa(summary.Rejected)},
		{"Export Date", summary.ExportedAt.Format("2006-01-02 15:04:05")},
	}
	if err := writeSheet(f, sheetSummary, summaryRows); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows [][]string) error {
	widths := map[int]int{}
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("cell name: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set cell: %w", err)
			}
			if len(value) > widths[j] {
				widths[j] = len(value)
			}
		}
	}
	for col, width := range widths {
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		adjusted := width + 2
		if adjusted > maxColumnWidth {
			adjusted = maxColumnWidth
		}
		if err := f.SetColWidth(sheet, name, name, float64(adjusted)); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}
