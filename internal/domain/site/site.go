// Package site holds the editable front-page content: the intro text,
// the image gallery, team bios and the contact block.
package site

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound         = errors.New("record not found")
	ErrTextRequired     = errors.New("text is required")
	ErrURLRequired      = errors.New("url is required")
	ErrNameRoleRequired = errors.New("name and role are required")
)

// Intro is a singleton. Updates replace the whole text.
type Intro struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

type Image struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Caption   string    `json:"caption,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type TeamMember struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Role        string    `json:"role"`
	ImageURL    string    `json:"image_url,omitempty"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ContactInfo is a singleton configuration record. Empty strings mean
// the channel is not published.
type ContactInfo struct {
	ID        int64  `json:"id"`
	Instagram string `json:"instagram,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type TeamMemberParams struct {
	Name        string
	Role        string
	ImageURL    string
	Description string
}

type ContactInfoParams struct {
	Instagram string
	Facebook  string
	Twitter   string
	Email     string
	Phone     string
}

type Repository interface {
	// GetIntro returns ErrNotFound until the first upsert.
	GetIntro(ctx context.Context) (*Intro, error)
	UpsertIntro(ctx context.Context, text string) (*Intro, error)

	// ListImages returns newest-first.
	ListImages(ctx context.Context) ([]Image, error)
	CreateImage(ctx context.Context, url, caption string) (*Image, error)
	GetImage(ctx context.Context, id int64) (*Image, error)
	DeleteImage(ctx context.Context, id int64) error

	// ListTeamMembers returns insertion (id) order.
	ListTeamMembers(ctx context.Context) ([]TeamMember, error)
	GetTeamMember(ctx context.Context, id int64) (*TeamMember, error)
	CreateTeamMember(ctx context.Context, params TeamMemberParams) (*TeamMember, error)
	UpdateTeamMember(ctx context.Context, id int64, params TeamMemberParams) (*TeamMember, error)
	DeleteTeamMember(ctx context.Context, id int64) error

	GetContactInfo(ctx context.Context) (*ContactInfo, error)
	UpsertContactInfo(ctx context.Context, params ContactInfoParams) (*ContactInfo, error)
}
