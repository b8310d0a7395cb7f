package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/samiti-foundation/server/internal/api/middleware"
	"github.com/samiti-foundation/server/internal/api/problem"
	"github.com/samiti-foundation/server/internal/domain/admins"
)

type AuthHandler struct {
	Admins *admins.Service
	Env    string
}

func NewAuthHandler(service *admins.Service, env string) *AuthHandler {
	return &AuthHandler{Admins: service, Env: env}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}
	if err := validate.Struct(req); err != nil {
		writeInvalidRequest(w, r, err, h.Env)
		return
	}

	result, err := h.Admins.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, admins.ErrInvalidCredentials) {
			problem.Write(w, r, http.StatusUnauthorized, typeUnauthorized, "Invalid Credentials", err, h.Env)
			return
		}
		problem.Write(w, r, http.StatusInternalServerError, typeInternal, "Internal Server Error", err, h.Env)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		Username:  result.Admin.Username,
	})
}

// Me echoes the authenticated admin's identity. Useful for the panel to
// verify a stored token on load.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		problem.Write(w, r, http.StatusUnauthorized, typeUnauthorized, "Authentication Required", nil, h.Env)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"username":   claims.Username,
		"expires_at": claims.ExpiresAt.Time,
	})
}
