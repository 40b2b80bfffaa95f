package controllers

import (
	"errors"
	"net/http"

	"github.com/recipebookhq/recipebook-backend/api/middleware"
	"github.com/recipebookhq/recipebook-backend/api/responses"
	"github.com/recipebookhq/recipebook-backend/api/validators"
	"github.com/recipebookhq/recipebook-backend/internal/images"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"github.com/recipebookhq/recipebook-backend/pkg/logger"
)

// RecipeImageUpload accepts a multipart upload under the "image" field and
// stores it as the recipe's image.
func RecipeImageUpload(svc images.Service, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "image service unavailable"))
			return
		}

		userID := middleware.UserIDFromContext(r.Context())
		if userID == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials"))
			return
		}

		recipeID, err := validators.ParsePathID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		// Cap the whole request a little above the image ceiling so the
		// multipart framing does not count against the image itself.
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes+1<<20)

		file, header, err := r.FormFile("image")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image too large").
					WithDetails(map[string]any{"max_bytes": maxBytes}))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "image file is required"))
			return
		}
		defer file.Close()

		result, err := svc.Upload(r.Context(), userID, recipeID, header.Filename, file, maxBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
