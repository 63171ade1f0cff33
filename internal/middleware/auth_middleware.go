package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/niamhfoley-dev/assignment-4/internal/auth"
	"github.com/niamhfoley-dev/assignment-4/internal/engine"
)

// Authenticator resolves a session token to an identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (engine.Identity, error)
}

// AuthMiddleware puts the caller's engine.Identity into the request
// context. Requests without a valid session continue as anonymous; a stale
// session cookie is cleared.
func AuthMiddleware(authn Authenticator, log *logrus.Logger, secureCookie bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := auth.TokenFromRequest(r)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			id, err := authn.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrSessionNotFound) || errors.Is(err, auth.ErrUserNotFound) {
					auth.ClearSessionCookie(w, secureCookie)
					log.WithFields(logrus.Fields{"path": r.URL.Path}).Debug("invalid or expired session")
				} else {
					log.WithError(err).Error("session lookup failed")
				}
				next.ServeHTTP(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(engine.WithIdentity(r.Context(), id)))
		})
	}
}

// RequireAuthMiddleware answers 401 unless the request carries an
// authenticated identity.
func RequireAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !engine.IdentityFrom(r.Context()).Authenticated() {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
