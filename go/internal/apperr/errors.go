package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds shared by repositories, apps and the transport layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalid      = errors.New("invalid request")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrLocked       = errors.New("locked")
	ErrRateLimited  = errors.New("rate limited")
)

// FieldError describes one failing request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries per-field failures. It matches ErrInvalid with errors.Is.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// Field builds a single-field validation error
func Field(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// kindError pairs a user-facing message with a sentinel kind
type kindError struct {
	kind error
	msg  string
	data map[string]any
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

// New returns an error of the given kind whose message is safe to show to clients
func New(kind error, format string, args ...any) error {
	return &kindError{kind: kind, msg: fmt.Sprintf(format, args...)}
}

// WithData attaches extra response fields to a kind error
func WithData(kind error, msg string, data map[string]any) error {
	return &kindError{kind: kind, msg: msg, data: data}
}

// Message returns the client-facing message carried by err, if any
func Message(err error) (string, bool) {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.msg, true
	}
	return "", false
}

// Data returns extra response fields carried by err
func Data(err error) map[string]any {
	var ke *kindError
	if errors.As(err, &ke) {
		return ke.data
	}
	return nil
}

// Fields returns the field errors carried by err
func Fields(err error) []FieldError {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}
