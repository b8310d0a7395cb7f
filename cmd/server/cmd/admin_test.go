package cmd

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/samiti-foundation/server/internal/domain/admins"
	"github.com/samiti-foundation/server/internal/domain/blogs"
	"github.com/samiti-foundation/server/internal/domain/events"
	"github.com/samiti-foundation/server/internal/domain/registrations"
	"github.com/samiti-foundation/server/internal/domain/site"
	"github.com/samiti-foundation/server/internal/storage"
)

type memAdminsRepo struct {
	nextID int64
	items  map[string]*admins.Admin
}

func (m *memAdminsRepo) GetByUsername(_ context.Context, username string) (*admins.Admin, error) {
	admin, ok := m.items[username]
	if !ok {
		return nil, admins.ErrNotFound
	}
	return admin, nil
}

func (m *memAdminsRepo) GetByID(_ context.Context, id int64) (*admins.Admin, error) {
	for _, admin := range m.items {
		if admin.ID == id {
			return admin, nil
		}
	}
	return nil, admins.ErrNotFound
}

func (m *memAdminsRepo) Create(_ context.Context, username, passwordHash string) (*admins.Admin, error) {
	if _, ok := m.items[username]; ok {
		return nil, admins.ErrUsernameTaken
	}
	m.nextID++
	admin := &admins.Admin{ID: m.nextID, Username: username, PasswordHash: passwordHash}
	m.items[username] = admin
	return admin, nil
}

func (m *memAdminsRepo) Count(context.Context) (int64, error) {
	return int64(len(m.items)), nil
}

// fakeStore hands every call back to itself; WithTx records that a
// transaction was requested.
type fakeStore struct {
	adminsRepo *memAdminsRepo
	txCalls    int
}

func (f *fakeStore) Admins() admins.Repository { return f.adminsRepo }

func (f *fakeStore) Site() site.Repository { return nil }

func (f *fakeStore) Events() events.Repository { return nil }

func (f *fakeStore) Registrations() registrations.Repository { return nil }

func (f *fakeStore) Blogs() blogs.Repository { return nil }

func (f *fakeStore) WithTx(ctx context.Context, fn func(context.Context, storage.Repository) error) error {
	f.txCalls++
	return fn(ctx, f)
}

func TestCreateAdmin(t *testing.T) {
	store := &fakeStore{adminsRepo: &memAdminsRepo{items: map[string]*admins.Admin{}}}

	admin, err := createAdmin(context.Background(), store, "admin", "hunter2")
	require.NoError(t, err)
	require.Equal(t, "admin", admin.Username)
	require.Equal(t, 1, store.txCalls)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("hunter2")))
}

func TestCreateAdminRefusesSecondAccount(t *testing.T) {
	store := &fakeStore{adminsRepo: &memAdminsRepo{items: map[string]*admins.Admin{}}}

	_, err := createAdmin(context.Background(), store, "admin", "hunter2")
	require.NoError(t, err)

	_, err = createAdmin(context.Background(), store, "other", "secret")
	require.ErrorContains(t, err, "already exists")
	require.Equal(t, 2, store.txCalls)
	require.Len(t, store.adminsRepo.items, 1)
}
