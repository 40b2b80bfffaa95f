package middleware

import (
	"net/http"

	"github.com/recipebookhq/recipebook-backend/api/responses"
	pkgauth "github.com/recipebookhq/recipebook-backend/pkg/auth"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"github.com/recipebookhq/recipebook-backend/pkg/logger"
)

func RequireRole(role string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if RoleFromContext(r.Context()) != role {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireStaff restricts a route to staff users.
func RequireStaff(logg *logger.Logger) func(http.Handler) http.Handler {
	return RequireRole(pkgauth.RoleStaff, logg)
}
