package problem

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteProducesProblemJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/events/99", nil)

	Write(rec, req, 404, "not-found", "Event Not Found", errors.New("event not found"), "development")

	require.Equal(t, 404, rec.Code)
	require.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "not-found", p.Type)
	require.Equal(t, "Event Not Found", p.Title)
	require.Equal(t, "event not found", p.Detail)
	require.Equal(t, "/api/v1/events/99", p.Instance)
}

func TestWriteHidesDetailInProduction(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/events", nil)

	Write(rec, req, 500, "internal", "Internal Server Error", errors.New("pool exhausted"), "production")

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Equal(t, "Internal Server Error", p.Detail)
}

func TestWriteErrorsMap(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/events/1/register", nil)

	Write(rec, req, 400, "validation", "Validation Failed", nil, "test",
		WithErrors(map[string]any{"missing_fields": []string{"College"}}))

	var p ProblemDetails
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.Contains(t, p.Errors, "missing_fields")
}
