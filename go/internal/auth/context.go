package auth

import (
	"context"

	"github.com/mcdev12/gridiron/go/internal/models"
)

type ctxKey struct{}

// WithUser stores the authenticated user on ctx
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, ctxKey{}, user)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(ctxKey{}).(*models.User)
	return user, ok && user != nil
}
