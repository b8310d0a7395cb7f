package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestWriteXLSXRoundTrip(t *testing.T) {
	table := Table{
		Headers: []string{"Email", "Status", "Team Name"},
		Rows: [][]string{
			{"a@example.com", "pending", "Alpha"},
			{"b@example.com", "verified", "Beta"},
		},
	}
	summary := Summary{
		EventName:  "Hackathon",
		Total:      2,
		Pending:    1,
		Verified:   1,
		ExportedAt: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC),
	}

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, table, summary); err != nil {
		t.Fatalf("write xlsx: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != "Registrations" || sheets[1] != "Summary" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	rows, err := f.GetRows("Registrations")
	if err != nil {
		t.Fatalf("read rows: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][2] != "Team Name" || rows[2][0] != "b@example.com" {
		t.Fatalf("unexpected cell values: %v", rows)
	}

	summaryRows, err := f.GetRows("Summary")
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if summaryRows[2][0] != "Total Registrations" || summaryRows[2][1] != "2" {
		t.Fatalf("unexpected summary row: %v", summaryRows[2])
	}
	if summaryRows[6][1] != "2025-03-14 10:00:00" {
		t.Fatalf("unexpected export date: %v", summaryRows[6])
	}

	width, err := f.GetColWidth("Registrations", "A")
	if err != nil {
		t.Fatalf("column width: %v", err)
	}
	if width <= 0 {
		t.Fatalf("expected a set column width, got %v", width)
	}
}
