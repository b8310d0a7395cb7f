package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samiti-foundation/server/internal/domain/events"
)

var _ events.Repository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *EventRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const eventColumns = `
id, name, date, coalesce(description, ''), is_active,
coalesce(cover_image_url, ''), coalesce(qr_code_url, ''), slug,
created_at, updated_at`

func scanEvent(row pgx.Row) (*events.Event, error) {
	var e events.Event
	err := row.Scan(
		&e.ID, &e.Name, &e.Date, &e.Description, &e.IsActive,
		&e.CoverImageURL, &e.QRCodeURL, &e.Slug,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EventRepository) List(ctx context.Context, includeFields bool) ([]events.Event, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+eventColumns+`
  FROM events
 ORDER BY date DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var items []events.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		items = append(items, *event)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if includeFields {
		for i := range items {
			fields, err := r.listFields(ctx, items[i].ID)
			if err != nil {
				return nil, err
			}
			items[i].FormFields = fields
		}
	}
	return items, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*events.Event, error) {
	event, err := scanEvent(r.queryer().QueryRow(ctx, `
SELECT `+eventColumns+`
  FROM events
 WHERE id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, events.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	fields, err := r.listFields(ctx, event.ID)
	if err != nil {
		return nil, err
	}
	event.FormFields = fields
	return event, nil
}

func (r *EventRepository) listFields(ctx context.Context, eventID int64) ([]events.FormField, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, event_id, label, field_type, is_required, sort_order
  FROM event_form_fields
 WHERE event_id = $1
 ORDER BY sort_order, id
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list form fields: %w", err)
	}
	defer rows.Close()

	var fields []events.FormField
	for rows.Next() {
		var f events.FormField
		if err := rows.Scan(&f.ID, &f.EventID, &f.Label, &f.FieldType, &f.Required, &f.Order); err != nil {
			return nil, fmt.Errorf("scan form field: %w", err)
		}
		fields = append(fields, f)
	}
	return fields, rows.Err()
}

func (r *EventRepository) Create(ctx context.Context, params events.CreateParams) (*events.Event, error) {
	var created *events.Event
	err := transact(ctx, r.pool, r.tx, func(tx pgx.Tx) error {
		event, err := scanEvent(tx.QueryRow(ctx, `
INSERT INTO events (name, date, description, is_active, cover_image_url, qr_code_url, slug)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING `+eventColumns, params.Name, params.Date, textOrNil(params.Description),
			params.IsActive, textOrNil(params.CoverImageURL), textOrNil(params.QRCodeURL), params.Slug))
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		if err := insertFields(ctx, tx, event.ID, params.Fields); err != nil {
			return err
		}
		created = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, created.ID)
}

func (r *EventRepository) Update(ctx context.Context, id int64, params events.UpdateParams) (*events.Event, error) {
	err := transact(ctx, r.pool, r.tx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
UPDATE events
   SET name = $2,
       date = $3,
       description = $4,
       is_active = $5,
       cover_image_url = CASE WHEN $6::text IS NULL THEN cover_image_url ELSE nullif($6, '') END,
       qr_code_url = CASE WHEN $7::text IS NULL THEN qr_code_url ELSE nullif($7, '') END,
       updated_at = now()
 WHERE id = $1
`, id, params.Name, params.Date, textOrNil(params.Description), params.IsActive,
			params.CoverImageURL, params.QRCodeURL)
		if err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return events.ErrNotFound
		}
		if params.Fields != nil {
			if err := replaceFields(ctx, tx, id, params.Fields); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the event with everything hanging off it. Responses go
// with their registrations via FK cascade.
func (r *EventRepository) Delete(ctx context.Context, id int64) error {
	return transact(ctx, r.pool, r.tx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM registrations WHERE event_id = $1`, id); err != nil {
			return fmt.Errorf("delete registrations: %w", err)
		}
		tag, err := tx.Exec(ctx, `DELETE FROM events WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete event: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return events.ErrNotFound
		}
		return nil
	})
}

func (r *EventRepository) ReplaceFormFields(ctx context.Context, eventID int64, fields []events.FormFieldInput) error {
	return transact(ctx, r.pool, r.tx, func(tx pgx.Tx) error {
		return replaceFields(ctx, tx, eventID, fields)
	})
}

// replaceFields swaps the whole field set. Responses bound to removed
// fields are dropped by the FK cascade.
func replaceFields(ctx context.Context, tx pgx.Tx, eventID int64, fields []events.FormFieldInput) error {
	if _, err := tx.Exec(ctx, `DELETE FROM event_form_fields WHERE event_id = $1`, eventID); err != nil {
		return fmt.Errorf("clear form fields: %w", err)
	}
	return insertFields(ctx, tx, eventID, fields)
}

func insertFields(ctx context.Context, tx pgx.Tx, eventID int64, fields []events.FormFieldInput) error {
	for _, field := range fields {
		fieldType := field.FieldType
		if fieldType == "" {
			fieldType = "text"
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO event_form_fields (event_id, label, field_type, is_required, sort_order)
VALUES ($1, $2, $3, $4, $5)
`, eventID, field.Label, fieldType, field.Required, field.Order); err != nil {
			return fmt.Errorf("insert form field: %w", err)
		}
	}
	return nil
}
