package middleware

import (
	"net/http"
	"strings"

	"github.com/recipebookhq/recipebook-backend/api/responses"
	pkgauth "github.com/recipebookhq/recipebook-backend/pkg/auth"
	"github.com/recipebookhq/recipebook-backend/pkg/auth/session"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"github.com/recipebookhq/recipebook-backend/pkg/logger"
)

// Auth validates a bearer token, confirms its session is still live and seeds
// the request context with the caller's identity.
func Auth(issuer *pkgauth.TokenIssuer, checker session.AccessSessionChecker, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := strings.TrimSpace(r.Header.Get("Authorization"))
			if raw == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			token := raw
			if strings.HasPrefix(strings.ToLower(token), "bearer ") {
				token = strings.TrimSpace(token[7:])
			}
			if token == "" {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
				return
			}

			payload, err := issuer.Parse(token)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token"))
				return
			}

			if checker != nil {
				ok, err := checker.HasSession(r.Context(), payload.JTI)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "validate session"))
					return
				}
				if !ok {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "session unavailable"))
					return
				}
			}

			ctx := WithUserID(r.Context(), payload.UserID)
			ctx = WithRole(ctx, payload.Role)

			if logg != nil {
				ctx = logg.WithUserID(ctx, payload.UserID)
				ctx = logg.WithField(ctx, "actor_role", payload.Role)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
