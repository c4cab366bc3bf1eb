package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/mcdev12/gridiron/go/internal/apperr"
	"github.com/mcdev12/gridiron/go/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

// SessionCookie is the cookie carrying the session token for browser clients
const SessionCookie = "session"

// SessionResolver looks up the user owning a live session
type SessionResolver interface {
	UserForToken(ctx context.Context, token string) (*models.User, error)
}

// Authenticator resolves session tokens on incoming requests
type Authenticator struct {
	sessions SessionResolver
	rnd      *render.Render
}

// NewAuthenticator creates a new Authenticator
func NewAuthenticator(sessions SessionResolver, rnd *render.Render) *Authenticator {
	return &Authenticator{
		sessions: sessions,
		rnd:      rnd,
	}
}

// TokenFromRequest extracts a session token from the Authorization header,
// the session cookie, or the token query parameter, in that order.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return r.URL.Query().Get("token")
}

// RequireUser rejects requests without a valid session with 401
func (a *Authenticator) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.resolve(r)
		if err != nil {
			if !errors.Is(err, apperr.ErrUnauthorized) {
				log.Error().Err(err).Msg("failed to resolve session")
			}
			_ = a.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

// OptionalUser attaches the user when a valid session is presented
func (a *Authenticator) OptionalUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := a.resolve(r); err == nil {
			r = r.WithContext(WithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole allows only users holding one of roles. It must run after RequireUser.
func (a *Authenticator) RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := UserFromContext(r.Context())
			if !ok {
				_ = a.rnd.JSON(w, http.StatusUnauthorized, map[string]string{"error": "Authentication required"})
				return
			}
			for _, role := range roles {
				if user.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			_ = a.rnd.JSON(w, http.StatusForbidden, map[string]string{"error": "Forbidden"})
		})
	}
}

func (a *Authenticator) resolve(r *http.Request) (*models.User, error) {
	token := TokenFromRequest(r)
	if token == "" {
		return nil, apperr.ErrUnauthorized
	}
	user, err := a.sessions.UserForToken(r.Context(), token)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, apperr.ErrUnauthorized
		}
		return nil, err
	}
	if user.Role == models.UserRoleSuspended {
		return nil, apperr.ErrUnauthorized
	}
	return user, nil
}
