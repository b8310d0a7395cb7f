package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/samiti-foundation/server/internal/api/problem"
	"github.com/samiti-foundation/server/internal/auth"
	"github.com/samiti-foundation/server/internal/domain/admins"
)

const claimsKey contextKey = "admin_claims"

// AdminAuth guards admin routes. It validates the bearer token and
// resolves its subject to a stored admin, so a token issued for a since
// deleted account stops working immediately.
func AdminAuth(tokens *auth.TokenManager, repo admins.Repository, env string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.TokenFromHeader(r.Header.Get("Authorization"))
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized,
					"unauthorized", "Authentication Required", err, env)
				return
			}

			claims, err := tokens.Validate(token)
			if err != nil {
				title := "Invalid Token"
				if errors.Is(err, auth.ErrExpiredToken) {
					title = "Token Expired"
				}
				problem.Write(w, r, http.StatusUnauthorized, "unauthorized", title, err, env)
				return
			}

			adminID, err := claims.AdminID()
			if err != nil {
				problem.Write(w, r, http.StatusUnauthorized,
					"unauthorized", "Invalid Token", err, env)
				return
			}

			if _, err := repo.GetByID(r.Context(), adminID); err != nil {
				if errors.Is(err, admins.ErrNotFound) {
					problem.Write(w, r, http.StatusUnauthorized,
						"unauthorized", "Invalid Token", err, env)
					return
				}
				problem.Write(w, r, http.StatusInternalServerError,
					"internal", "Internal Server Error", err, env)
				return
			}

			ctx := context.WithValue(r.Context(), claimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the authenticated admin's claims, nil when
// the request did not pass AdminAuth.
func ClaimsFromContext(ctx context.Context) *auth.Claims {
	claims, _ := ctx.Value(claimsKey).(*auth.Claims)
	return claims
}
