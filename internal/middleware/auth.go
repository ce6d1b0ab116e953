package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Dan9191/contacts-service/internal/httpx"
	"github.com/Dan9191/contacts-service/internal/models"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type contextKey struct{}

// Authenticator resolves a bearer token to its user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AuthMiddleware rejects requests without a valid current session token and
// stores the resolved user in the request context
func AuthMiddleware(a Authenticator, log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			bearer, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
			if !ok || bearer != "Bearer" || token == "" {
				httpx.WriteError(w, r, log, httpx.Unauthorized("Not authorized"))
				return
			}

			user, err := a.Authenticate(r.Context(), token)
			if err != nil {
				httpx.WriteError(w, r, log, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
		})
	}
}

// WithUser returns a copy of ctx carrying user
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the authenticated user, if any
func UserFromContext(ctx context.Context) (*models.User, bool) {
	user, ok := ctx.Value(contextKey{}).(*models.User)
	return user, ok && user != nil
}
