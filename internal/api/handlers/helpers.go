package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/samiti-foundation/server/internal/api/problem"
)

// Problem type tokens shared across handlers.
const (
	typeValidation   = "validation-error"
	typeNotFound     = "not-found"
	typeConflict     = "conflict"
	typeUnauthorized = "unauthorized"
	typeInternal     = "internal"
)

var validate = validator.New()

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// pathID parses the {id} path segment as a positive integer.
func pathID(r *http.Request, key string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(key), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeInvalidRequest reports a bad request body. A body cut off by the
// size cap surfaces as 413 instead of a generic 400.
func writeInvalidRequest(w http.ResponseWriter, r *http.Request, err error, env string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		problem.Write(w, r, http.StatusRequestEntityTooLarge, typeValidation, "Payload Too Large", err, env)
		return
	}
	problem.Write(w, r, http.StatusBadRequest, typeValidation, "Invalid Request", err, env)
}
