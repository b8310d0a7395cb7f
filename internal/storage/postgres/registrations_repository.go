package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samiti-foundation/server/internal/domain/registrations"
)

var _ registrations.Repository = (*RegistrationRepository)(nil)

type RegistrationRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *RegistrationRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

const registrationColumns = `
id, event_id, email, coalesce(screenshot_url, ''), status, submitted_at`

func scanRegistration(row pgx.Row) (*registrations.Registration, error) {
	var reg registrations.Registration
	err := row.Scan(&reg.ID, &reg.EventID, &reg.Email, &reg.ScreenshotURL, &reg.Status, &reg.SubmittedAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

func (r *RegistrationRepository) Create(ctx context.Context, params registrations.CreateParams) (*registrations.Registration, error) {
	var created *registrations.Registration
	err := transact(ctx, r.pool, r.tx, func(tx pgx.Tx) error {
		reg, err := scanRegistration(tx.QueryRow(ctx, `
INSERT INTO registrations (event_id, email, screenshot_url)
VALUES ($1, $2, $3)
RETURNING `+registrationColumns, params.EventID, params.Email, textOrNil(params.ScreenshotURL)))
		if err != nil {
			return fmt.Errorf("insert registration: %w", err)
		}

		for _, resp := range params.Responses {
			var fr registrations.FieldResponse
			err := tx.QueryRow(ctx, `
INSERT INTO registration_field_responses (registration_id, field_id, value)
VALUES ($1, $2, $3)
RETURNING id, registration_id, field_id, coalesce(value, '')
`, reg.ID, resp.FieldID, resp.Value).Scan(&fr.ID, &fr.RegistrationID, &fr.FieldID, &fr.Value)
			if err != nil {
				return fmt.Errorf("insert field response: %w", err)
			}
			reg.Responses = append(reg.Responses, fr)
		}

		created = reg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *RegistrationRepository) GetByID(ctx context.Context, id int64) (*registrations.Registration, error) {
	reg, err := scanRegistration(r.queryer().QueryRow(ctx, `
SELECT `+registrationColumns+`
  FROM registrations
 WHERE id = $1
`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, registrations.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get registration: %w", err)
	}

	responses, err := r.listResponses(ctx, []int64{reg.ID})
	if err != nil {
		return nil, err
	}
	reg.Responses = responses[reg.ID]
	return reg, nil
}

func (r *RegistrationRepository) FindByEventAndEmail(ctx context.Context, eventID int64, email string) (*registrations.Registration, error) {
	reg, err := scanRegistration(r.queryer().QueryRow(ctx, `
SELECT `+registrationColumns+`
  FROM registrations
 WHERE event_id = $1 AND email = $2
 ORDER BY id
 LIMIT 1
`, eventID, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, registrations.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return reg, nil
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID int64) ([]registrations.Registration, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT `+registrationColumns+`
  FROM registrations
 WHERE event_id = $1
 ORDER BY submitted_at DESC, id DESC
`, eventID)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer rows.Close()

	var items []registrations.Registration
	var ids []int64
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("scan registration: %w", err)
		}
		items = append(items, *reg)
		ids = append(ids, reg.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	responses, err := r.listResponses(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Responses = responses[items[i].ID]
	}
	return items, nil
}

func (r *RegistrationRepository) listResponses(ctx context.Context, registrationIDs []int64) (map[int64][]registrations.FieldResponse, error) {
	out := make(map[int64][]registrations.FieldResponse, len(registrationIDs))
	if len(registrationIDs) == 0 {
		return out, nil
	}

	rows, err := r.queryer().Query(ctx, `
SELECT id, registration_id, field_id, coalesce(value, '')
  FROM registration_field_responses
 WHERE registration_id = ANY($1)
 ORDER BY id
`, registrationIDs)
	if err != nil {
		return nil, fmt.Errorf("list field responses: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var fr registrations.FieldResponse
		if err := rows.Scan(&fr.ID, &fr.RegistrationID, &fr.FieldID, &fr.Value); err != nil {
			return nil, fmt.Errorf("scan field response: %w", err)
		}
		out[fr.RegistrationID] = append(out[fr.RegistrationID], fr)
	}
	return out, rows.Err()
}

func (r *RegistrationRepository) UpdateStatus(ctx context.Context, id int64, status registrations.Status) error {
	tag, err := r.queryer().Exec(ctx, `
UPDATE registrations SET status = $2 WHERE id = $1
`, id, string(status))
	if err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return registrations.ErrNotFound
	}
	return nil
}
