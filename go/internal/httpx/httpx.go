package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

const maxBodyBytes = 1 << 20

// NewRender returns the JSON renderer shared by all handlers
func NewRender() *render.Render {
	return render.New(render.Options{
		UnEscapeHTML: true,
	})
}

// ErrorResponse is the body written for every failed request
type ErrorResponse struct {
	Error   string              `json:"error"`
	Details []apperr.FieldError `json:"details,omitempty"`
}

// StatusFor maps an error kind to an HTTP status
func StatusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperr.ErrLocked):
		return http.StatusLocked
	case errors.Is(err, apperr.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error writes err as a JSON error body. Internal errors are logged and
// replaced with a generic message.
func Error(rnd *render.Render, w http.ResponseWriter, r *http.Request, err error) {
	status := StatusFor(err)

	if status == http.StatusInternalServerError {
		log.Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("request failed")
		_ = rnd.JSON(w, status, ErrorResponse{Error: "Internal server error"})
		return
	}

	msg, ok := apperr.Message(err)
	if !ok {
		msg = defaultMessage(status, err)
	}

	data := apperr.Data(err)
	if len(data) == 0 {
		_ = rnd.JSON(w, status, ErrorResponse{Error: msg, Details: apperr.Fields(err)})
		return
	}

	body := map[string]any{"error": msg}
	for k, v := range data {
		body[k] = v
	}
	_ = rnd.JSON(w, status, body)
}

func defaultMessage(status int, err error) string {
	switch status {
	case http.StatusBadRequest:
		if len(apperr.Fields(err)) > 0 {
			return "Validation failed"
		}
		return "Invalid request"
	case http.StatusUnauthorized:
		return "Authentication required"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "Not found"
	case http.StatusConflict:
		return "Conflict"
	case http.StatusLocked:
		return "Account locked"
	case http.StatusTooManyRequests:
		return "Too many requests"
	default:
		return http.StatusText(status)
	}
}

// DecodeJSON reads a JSON request body into dst, rejecting unknown fields
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.New(apperr.ErrInvalid, "Request body is required")
		}
		return apperr.New(apperr.ErrInvalid, "Invalid JSON body: %v", err)
	}
	return nil
}

// URLUUID parses a chi URL parameter as a UUID
func URLUUID(r *http.Request, name string) (uuid.UUID, error) {
	raw := chi.URLParam(r, name)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Field(name, "must be a valid id")
	}
	return id, nil
}

// QueryUUID parses an optional query parameter as a UUID
func QueryUUID(r *http.Request, name string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Field(name, "must be a valid id")
	}
	return &id, nil
}

// QueryInt parses an optional integer query parameter, clamped to [lo, hi]
func QueryInt(r *http.Request, name string, def, lo, hi int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Field(name, fmt.Sprintf("must be an integer, got %q", raw))
	}
	if v < lo {
		v = lo
	}
	if v > hi {
		v = hi
	}
	return v, nil
}
