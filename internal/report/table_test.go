package report

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestWriteCSV(t *testing.T) {
	table := Table{
		Headers: []string{"Email", "Status"},
		Rows: [][]string{
			{"a@example.com", "pending"},
			{"b@example.com", "verified"},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, table); err != nil {
		t.Fatalf("write csv: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[0] != "Email,Status" {
		t.Fatalf("unexpected header line: %q", lines[0])
	}
	if lines[2] != "b@example.com,verified" {
		t.Fatalf("unexpected row: %q", lines[2])
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)

	if got := Filename("Kavi Sammelan 2025", "csv", now); got != "Kavi_Sammelan_2025_registrations_20250314.csv" {
		t.Fatalf("unexpected filename: %q", got)
	}
	if got := Filename("///", "xlsx", now); got != "event_registrations_20250314.xlsx" {
		t.Fatalf("expected fallback name, got %q", got)
	}
}
