// Package report renders registration snapshots as downloadable tabular
// files (CSV or XLSX).
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
)

// Table is a fully materialized export: a fixed header row and one row per
// registration, column order already decided by the caller.
type Table struct {
	Headers []string
	Rows    [][]string
}

// Summary is the second sheet of an XLSX export.
type Summary struct {
	EventName  string
	Total      int
	Pending    int
	Verified   int
	Rejected   int
	ExportedAt time.Time
}

func WriteCSV(w io.Writer, table Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range table.Rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Filename builds the download name: sanitized event identifier, a
// fixed suffix and the export date.
func Filename(eventName string, ext string, now time.Time) string {
	safe := sanitize(eventName)
	if safe == "" {
		safe = "event"
	}
	return fmt.Sprintf("%s_registrations_%s.%s", safe, now.Format("20060102"), ext)
}

func sanitize(name string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte('_')
		}
	}
	return b.String()
}
