package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/samiti-foundation/server/internal/domain/site"
)

var _ site.Repository = (*SiteRepository)(nil)

// SiteRepository backs the front-page content: intro, gallery, team and
// the contact block.
type SiteRepository struct {
	pool *pgxpool.Pool
	tx   pgx.Tx
}

func (r *SiteRepository) queryer() queryer {
	if r.tx != nil {
		return r.tx
	}
	return r.pool
}

func (r *SiteRepository) GetIntro(ctx context.Context) (*site.Intro, error) {
	var intro site.Intro
	err := r.queryer().QueryRow(ctx, `
SELECT id, text FROM intro ORDER BY id LIMIT 1
`).Scan(&intro.ID, &intro.Text)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, site.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get intro: %w", err)
	}
	return &intro, nil
}

// UpsertIntro updates the first row when one exists, inserts otherwise.
// The table is a singleton so there is no natural conflict key.
func (r *SiteRepository) UpsertIntro(ctx context.Context, text string) (*site.Intro, error) {
	var intro site.Intro
	err := r.queryer().QueryRow(ctx, `
UPDATE intro SET text = $1
 WHERE id = (SELECT id FROM intro ORDER BY id LIMIT 1)
RETURNING id, text
`, text).Scan(&intro.ID, &intro.Text)
	if errors.Is(err, pgx.ErrNoRows) {
		err = r.queryer().QueryRow(ctx, `
INSERT INTO intro (text) VALUES ($1) RETURNING id, text
`, text).Scan(&intro.ID, &intro.Text)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert intro: %w", err)
	}
	return &intro, nil
}

func (r *SiteRepository) ListImages(ctx context.Context) ([]site.Image, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, url, coalesce(caption, ''), created_at
  FROM images
 ORDER BY created_at DESC, id DESC
`)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	defer rows.Close()

	var images []site.Image
	for rows.Next() {
		var img site.Image
		if err := rows.Scan(&img.ID, &img.URL, &img.Caption, &img.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan image: %w", err)
		}
		images = append(images, img)
	}
	return images, rows.Err()
}

func (r *SiteRepository) CreateImage(ctx context.Context, url, caption string) (*site.Image, error) {
	var img site.Image
	err := r.queryer().QueryRow(ctx, `
INSERT INTO images (url, caption)
VALUES ($1, $2)
RETURNING id, url, coalesce(caption, ''), created_at
`, url, textOrNil(caption)).Scan(&img.ID, &img.URL, &img.Caption, &img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create image: %w", err)
	}
	return &img, nil
}

func (r *SiteRepository) GetImage(ctx context.Context, id int64) (*site.Image, error) {
	var img site.Image
	err := r.queryer().QueryRow(ctx, `
SELECT id, url, coalesce(caption, ''), created_at
  FROM images
 WHERE id = $1
`, id).Scan(&img.ID, &img.URL, &img.Caption, &img.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, site.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get image: %w", err)
	}
	return &img, nil
}

func (r *SiteRepository) DeleteImage(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return site.ErrNotFound
	}
	return nil
}

func (r *SiteRepository) ListTeamMembers(ctx context.Context) ([]site.TeamMember, error) {
	rows, err := r.queryer().Query(ctx, `
SELECT id, name, role, coalesce(image_url, ''), coalesce(description, ''), created_at
  FROM team_members
 ORDER BY id
`)
	if err != nil {
		return nil, fmt.Errorf("list team members: %w", err)
	}
	defer rows.Close()

	var members []site.TeamMember
	for rows.Next() {
		var m site.TeamMember
		if err := rows.Scan(&m.ID, &m.Name, &m.Role, &m.ImageURL, &m.Description, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan team member: %w", err)
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

func (r *SiteRepository) GetTeamMember(ctx context.Context, id int64) (*site.TeamMember, error) {
	var m site.TeamMember
	err := r.queryer().QueryRow(ctx, `
SELECT id, name, role, coalesce(image_url, ''), coalesce(description, ''), created_at
  FROM team_members
 WHERE id = $1
`, id).Scan(&m.ID, &m.Name, &m.Role, &m.ImageURL, &m.Description, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, site.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get team member: %w", err)
	}
	return &m, nil
}

func (r *SiteRepository) CreateTeamMember(ctx context.Context, params site.TeamMemberParams) (*site.TeamMember, error) {
	var m site.TeamMember
	err := r.queryer().QueryRow(ctx, `
INSERT INTO team_members (name, role, image_url, description)
VALUES ($1, $2, $3, $4)
RETURNING id, name, role, coalesce(image_url, ''), coalesce(description, ''), created_at
`, params.Name, params.Role, textOrNil(params.ImageURL), textOrNil(params.Description)).
		Scan(&m.ID, &m.Name, &m.Role, &m.ImageURL, &m.Description, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create team member: %w", err)
	}
	return &m, nil
}

func (r *SiteRepository) UpdateTeamMember(ctx context.Context, id int64, params site.TeamMemberParams) (*site.TeamMember, error) {
	var m site.TeamMember
	err := r.queryer().QueryRow(ctx, `
UPDATE team_members
   SET name = $2, role = $3, image_url = $4, description = $5
 WHERE id = $1
RETURNING id, name, role, coalesce(image_url, ''), coalesce(description, ''), created_at
`, id, params.Name, params.Role, textOrNil(params.ImageURL), textOrNil(params.Description)).
		Scan(&m.ID, &m.Name, &m.Role, &m.ImageURL, &m.Description, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, site.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update team member: %w", err)
	}
	return &m, nil
}

func (r *SiteRepository) DeleteTeamMember(ctx context.Context, id int64) error {
	tag, err := r.queryer().Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete team member: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return site.ErrNotFound
	}
	return nil
}

func (r *SiteRepository) GetContactInfo(ctx context.Context) (*site.ContactInfo, error) {
	var info site.ContactInfo
	err := r.queryer().QueryRow(ctx, `
SELECT id, coalesce(instagram, ''), coalesce(facebook, ''), coalesce(twitter, ''),
       coalesce(email, ''), coalesce(phone, '')
  FROM contact_info
 ORDER BY id
 LIMIT 1
`).Scan(&info.ID, &info.Instagram, &info.Facebook, &info.Twitter, &info.Email, &info.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, site.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get contact info: %w", err)
	}
	return &info, nil
}

func (r *SiteRepository) UpsertContactInfo(ctx context.Context, params site.ContactInfoParams) (*site.ContactInfo, error) {
	var info site.ContactInfo
	err := r.queryer().QueryRow(ctx, `
UPDATE contact_info
   SET instagram = $1, facebook = $2, twitter = $3, email = $4, phone = $5
 WHERE id = (SELECT id FROM contact_info ORDER BY id LIMIT 1)
RETURNING id, coalesce(instagram, ''), coalesce(facebook, ''), coalesce(twitter, ''),
          coalesce(email, ''), coalesce(phone, '')
`, textOrNil(params.Instagram), textOrNil(params.Facebook), textOrNil(params.Twitter),
		textOrNil(params.Email), textOrNil(params.Phone)).
		Scan(&info.ID, &info.Instagram, &info.Facebook, &info.Twitter, &info.Email, &info.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		err = r.queryer().QueryRow(ctx, `
INSERT INTO contact_info (instagram, facebook, twitter, email, phone)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, coalesce(instagram, ''), coalesce(facebook, ''), coalesce(twitter, ''),
          coalesce(email, ''), coalesce(phone, '')
`, textOrNil(params.Instagram), textOrNil(params.Facebook), textOrNil(params.Twitter),
			textOrNil(params.Email), textOrNil(params.Phone)).
			Scan(&info.ID, &info.Instagram, &info.Facebook, &info.Twitter, &info.Email, &info.Phone)
	}
	if err != nil {
		return nil, fmt.Errorf("upsert contact info: %w", err)
	}
	return &info, nil
}
