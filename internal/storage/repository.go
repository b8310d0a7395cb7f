package storage

import (
	"context"

	"github.com/samiti-foundation/server/internal/domain/admins"
	"github.com/samiti-foundation/server/internal/domain/blogs"
	"github.com/samiti-foundation/server/internal/domain/events"
	"github.com/samiti-foundation/server/internal/domain/registrations"
	"github.com/samiti-foundation/server/internal/domain/site"
)

// Repository groups data access by domain.
type Repository interface {
	Admins() admins.Repository
	Site() site.Repository
	Events() events.Repository
	Registrations() registrations.Repository
	Blogs() blogs.Repository

	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
}
