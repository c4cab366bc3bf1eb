package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/mcdev12/gridiron/go/internal/apperr"
)

var (
	usernamePattern   = regexp.MustCompile(`^[a-zA-Z0-9_-]{3,30}$`)
	leagueNamePattern = regexp.MustCompile(`^[a-zA-Z0-9 \-_'.]{3,50}$`)
)

// validate is shared; validator.Validate caches struct metadata and is safe for concurrent use
var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = validate.RegisterValidation("username", validateUsername)
	_ = validate.RegisterValidation("password", validatePassword)
	_ = validate.RegisterValidation("safetext", validateSafeText)
	_ = validate.RegisterValidation("leaguename", validateLeagueName)
}

// Validate checks v's `validate` tags and returns an *apperr.ValidationError
// with one entry per failing field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate request: %w", err)
	}

	fields := make([]apperr.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperr.FieldError{
			Field:   fieldPath(fe),
			Message: message(fe),
		})
	}
	return &apperr.ValidationError{Fields: fields}
}

// fieldPath drops the top-level struct name from the namespace
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid id"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain at least %s items", fe.Param())
		}
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be no more than %s characters", fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("must contain no more than %s items", fe.Param())
		}
		return fmt.Sprintf("must be no more than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	case "username":
		return "must be 3-30 characters of letters, numbers, underscores and hyphens, not starting or ending with a hyphen"
	case "password":
		return "must be 8-128 characters with at least one lowercase letter, one uppercase letter and one number"
	case "safetext":
		return "contains potentially malicious content"
	case "leaguename":
		return "must be 3-50 characters of letters, numbers, spaces and - _ ' ."
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}

func validateUsername(fl validator.FieldLevel) bool {
	return IsValidUsername(fl.Field().String())
}

func validatePassword(fl validator.FieldLevel) bool {
	return IsStrongPassword(fl.Field().String())
}

func validateSafeText(fl validator.FieldLevel) bool {
	raw := fl.Field().String()
	for _, s := range []string{raw, DecodeEntities(raw)} {
		if ContainsXSS(s) || ContainsSQLInjection(s) {
			return false
		}
	}
	return true
}

func validateLeagueName(fl validator.FieldLevel) bool {
	return leagueNamePattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

// IsValidUsername reports whether s is an acceptable username
func IsValidUsername(s string) bool {
	if !usernamePattern.MatchString(s) {
		return false
	}
	return !strings.HasPrefix(s, "-") && !strings.HasSuffix(s, "-")
}

// IsStrongPassword requires 8-128 characters with lower, upper and digit
func IsStrongPassword(s string) bool {
	if len(s) < 8 || len(s) > 128 {
		return false
	}
	var lower, upper, digit bool
	for _, r := range s {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return lower && upper && digit
}
