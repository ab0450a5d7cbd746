package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextUserKey ctxKey = "actingUser"

// ActingUser is the authenticated caller as established by the auth
// middleware. Role is either "admin" or "supervisor".
type ActingUser struct {
	ID    int64
	Email string
	Role  string
}

const (
	RoleAdmin      = "admin"
	RoleSupervisor = "supervisor"
)

func (u *ActingUser) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func UserFromContext(ctx context.Context) (*ActingUser, bool) {
	if ctx == nil {
		return nil, false
	}
	if user, ok := ctx.Value(ContextUserKey).(*ActingUser); ok && user != nil {
		return user, true
	}
	return nil, false
}

func ContextWithUser(ctx context.Context, user *ActingUser) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
