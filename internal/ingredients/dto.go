package ingredients

import (
	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
)

// IngredientDTO is the transport shape for a recipe ingredient.
type IngredientDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateIngredientRequest carries the payload for creating an ingredient.
type CreateIngredientRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func FromModel(i *models.Ingredient) *IngredientDTO {
	if i == nil {
		return nil
	}
	return &IngredientDTO{ID: i.ID, Name: i.Name}
}

func FromModels(rows []models.Ingredient) []IngredientDTO {
	out := make([]IngredientDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
