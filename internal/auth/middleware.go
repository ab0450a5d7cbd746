package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/yudapramata/rab-management/internal"
	"github.com/yudapramata/rab-management/internal/transport"
	"github.com/yudapramata/rab-management/pkg/logger"
)

type Middleware struct {
	*transport.BaseHandler
	validator *TokenValidator
}

func NewMiddleware(validator *TokenValidator, lg *slog.Logger) *Middleware {
	return &Middleware{
		BaseHandler: transport.NewBaseHandler(lg),
		validator:   validator,
	}
}

// Authenticate validates the bearer token and puts the acting user in the
// request context.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.ExtractTokenFromHeader(r)
		if token == "" {
			m.WriteError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}

		claims, err := m.validator.ValidateToken(token)
		if err != nil {
			m.Logger.Warn("token validation failed", "error", err)
			m.WriteError(w, http.StatusUnauthorized, "invalid token")
			return
		}

		user := &internal.ActingUser{
			ID:    claims.UserID,
			Email: claims.Email,
			Role:  strings.ToLower(claims.Role),
		}

		ctx := internal.ContextWithUser(r.Context(), user)
		ctx = logger.With(ctx, "user_id", user.ID, "role", user.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin guards administrator-only routes such as item decisions and
// plan lifecycle changes.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := internal.UserFromContext(r.Context())
		if !ok {
			m.WriteError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		if !user.IsAdmin() {
			m.Logger.Warn("admin route denied", "user_id", user.ID, "role", user.Role)
			m.WriteError(w, http.StatusForbidden, "administrator access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
