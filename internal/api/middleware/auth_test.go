package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/samiti-foundation/server/internal/auth"
	"github.com/samiti-foundation/server/internal/domain/admins"
)

type stubAdminRepo struct {
	admin *admins.Admin
}

func (s *stubAdminRepo) GetByUsername(_ context.Context, username string) (*admins.Admin, error) {
	if s.admin != nil && s.admin.Username == username {
		return s.admin, nil
	}
	return nil, admins.ErrNotFound
}

func (s *stubAdminRepo) GetByID(_ context.Context, id int64) (*admins.Admin, error) {
	if s.admin != nil && s.admin.ID == id {
		return s.admin, nil
	}
	return nil, admins.ErrNotFound
}

func (s *stubAdminRepo) Create(context.Context, string, string) (*admins.Admin, error) {
	return nil, admins.ErrUsernameTaken
}

func (s *stubAdminRepo) Count(context.Context) (int64, error) {
	if s.admin == nil {
		return 0, nil
	}
	return 1, nil
}

func newGuardedHandler(t *testing.T, tokens *auth.TokenManager, repo admins.Repository) http.Handler {
	t.Helper()
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims := ClaimsFromContext(r.Context())
		require.NotNil(t, claims)
		w.WriteHeader(http.StatusOK)
	})
	return AdminAuth(tokens, repo, "test")(inner)
}

func TestAdminAuthAcceptsValidToken(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour, "samiti")
	repo := &stubAdminRepo{admin: &admins.Admin{ID: 1, Username: "admin"}}
	handler := newGuardedHandler(t, tokens, repo)

	token, err := tokens.Generate(1, "admin")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAuthRejectsMissingAndMalformed(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour, "samiti")
	repo := &stubAdminRepo{admin: &admins.Admin{ID: 1, Username: "admin"}}
	handler := newGuardedHandler(t, tokens, repo)

	for _, header := range []string{"", "Bearer", "Token abc", "Bearer not-a-jwt"} {
		req := httptest.NewRequest("GET", "/api/v1/admin/me", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))
	}
}

func TestAdminAuthRejectsExpiredToken(t *testing.T) {
	expired := auth.NewTokenManager("secret", -time.Minute, "samiti")
	repo := &stubAdminRepo{admin: &admins.Admin{ID: 1, Username: "admin"}}
	handler := newGuardedHandler(t, auth.NewTokenManager("secret", time.Hour, "samiti"), repo)

	token, err := expired.Generate(1, "admin")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminAuthRejectsDeletedAdmin(t *testing.T) {
	tokens := auth.NewTokenManager("secret", time.Hour, "samiti")
	handler := newGuardedHandler(t, tokens, &stubAdminRepo{})

	token, err := tokens.Generate(7, "ghost")
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/api/v1/admin/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
