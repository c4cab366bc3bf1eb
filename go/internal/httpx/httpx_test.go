package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{apperr.Field("email", "is required"), http.StatusBadRequest},
		{fmt.Errorf("wrap: %w", apperr.ErrUnauthorized), http.StatusUnauthorized},
		{apperr.ErrForbidden, http.StatusForbidden},
		{apperr.ErrNotFound, http.StatusNotFound},
		{apperr.ErrConflict, http.StatusConflict},
		{apperr.ErrLocked, http.StatusLocked},
		{apperr.ErrRateLimited, http.StatusTooManyRequests},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, StatusFor(tc.err), tc.err.Error())
	}
}

func TestErrorWritesValidationDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", nil)

	Error(NewRender(), rec, req, apperr.Field("email", "is required"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)
	assert.Equal(t, []apperr.FieldError{{Field: "email", Message: "is required"}}, body.Details)
}

func TestErrorHidesInternalMessages(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/leagues", nil)

	Error(NewRender(), rec, req, errors.New("pq: password authentication failed"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, rec.Body.String())
}

func TestErrorIncludesData(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)

	Error(NewRender(), rec, req, apperr.WithData(apperr.ErrUnauthorized, "Invalid email or password", map[string]any{"attempts_remaining": 2}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid email or password","attempts_remaining":2}`, rec.Body.String())
}

func TestDecodeJSON(t *testing.T) {
	var dst struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, DecodeJSON(req, &dst))
	assert.Equal(t, "x", dst.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"nope":1}`))
	assert.ErrorIs(t, DecodeJSON(req, &dst), apperr.ErrInvalid)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	err := DecodeJSON(req, &dst)
	msg, _ := apperr.Message(err)
	assert.Equal(t, "Request body is required", msg)
}

func TestURLAndQueryParams(t *testing.T) {
	r := chi.NewRouter()
	var gotErr error
	r.Get("/leagues/{leagueID}", func(w http.ResponseWriter, req *http.Request) {
		_, gotErr = URLUUID(req, "leagueID")
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leagues/not-a-uuid", nil))
	assert.ErrorIs(t, gotErr, apperr.ErrInvalid)

	req := httptest.NewRequest(http.MethodGet, "/?limit=500&teamId=bad", nil)
	limit, err := QueryInt(req, "limit", 50, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, limit)

	_, err = QueryUUID(req, "teamId")
	assert.ErrorIs(t, err, apperr.ErrInvalid)

	id, err := QueryUUID(req, "missing")
	assert.NoError(t, err)
	assert.Nil(t, id)
}
