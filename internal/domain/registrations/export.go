package registrations

import (
	"context"
	"time"

	"github.com/samiti-foundation/server/internal/domain/events"
	"github.com/samiti-foundation/server/internal/report"
)

var baseExportHeaders = []string{"Email", "Timestamp", "Status", "Screenshot URL"}

// ExportResult bundles the table with the event and status counts for the
// workbook summary sheet.
type ExportResult struct {
	Event   *events.Event
	Table   report.Table
	Summary report.Summary
}

// Export snapshots an event's registrations: fixed base columns, then one
// column per form field in ascending order. Cells come from the
// registration's responses keyed by field id, blank when absent, so the
// layout never depends on response insertion order.
func (s *Service) Export(ctx context.Context, eventID int64) (*ExportResult, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	fields := make([]events.FormField, len(event.FormFields))
	copy(fields, event.FormFields)
	events.SortFields(fields)

	headers := make([]string, 0, len(baseExportHeaders)+len(fields))
	headers = append(headers, baseExportHeaders...)
	for _, field := range fields {
		headers = append(headers, field.Label)
	}

	regs, err := s.repo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}

	summary := report.Summary{
		EventName:  event.Name,
		Total:      len(regs),
		ExportedAt: time.Now(),
	}

	rows := make([][]string, 0, len(regs))
	for _, reg := range regs {
		switch reg.Status {
		case StatusPending:
			summary.Pending++
		case StatusVerified:
			summary.Verified++
		case StatusRejected:
			summary.Rejected++
		}

		values := make(map[int64]string, len(reg.Responses))
		for _, resp := range reg.Responses {
			values[resp.FieldID] = resp.Value
		}

		row := make([]string, 0, len(headers))
		row = append(row,
			reg.Email,
			reg.SubmittedAt.Format("2006-01-02 15:04:05"),
			string(reg.Status),
			reg.ScreenshotURL,
		)
		for _, field := range fields {
			row = append(row, values[field.ID])
		}
		rows = append(rows, row)
	}

	return &ExportResult{
		Event:   event,
		Table:   report.Table{Headers: headers, Rows: rows},
		Summary: summary,
	}, nil
}
