package controllers

import (
	"net/http"

	"github.com/recipebookhq/recipebook-backend/api/middleware"
	"github.com/recipebookhq/recipebook-backend/api/responses"
	"github.com/recipebookhq/recipebook-backend/api/validators"
	"github.com/recipebookhq/recipebook-backend/internal/ingredients"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"github.com/recipebookhq/recipebook-backend/pkg/logger"
)

// IngredientsList returns the caller's ingredients, optionally narrowed to
// those assigned to at least one recipe via ?assigned_only=1.
func IngredientsList(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredients service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		assignedOnly, err := validators.ParseQueryBool(r, "assigned_only")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), userID, assignedOnly)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

// IngredientsCreate creates an ingredient owned by the caller.
func IngredientsCreate(svc ingredients.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "ingredients service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		var body ingredients.CreateIngredientRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ingredient, err := svc.Create(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, ingredient)
	}
}
