package recipes

import (
	"github.com/recipebookhq/recipebook-backend/internal/ingredients"
	"github.com/recipebookhq/recipebook-backend/internal/tags"
	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	"github.com/shopspring/decimal"
)

// RecipeListItem is the summary shape returned by the browse endpoint. Tag
// and ingredient associations are flattened to ids.
type RecipeListItem struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	TimeMinutes int             `json:"time_minutes"`
	Price       decimal.Decimal `json:"price"`
	Link        *string         `json:"link,omitempty"`
	Tags        []int64         `json:"tags"`
	Ingredients []int64         `json:"ingredients"`
}

// RecipeDetail expands the associations into full objects and carries the
// stored image path.
type RecipeDetail struct {
	ID          int64                       `json:"id"`
	Title       string                      `json:"title"`
	TimeMinutes int                         `json:"time_minutes"`
	Price       decimal.Decimal             `json:"price"`
	Link        *string                     `json:"link,omitempty"`
	Image       *string                     `json:"image,omitempty"`
	Tags        []tags.TagDTO               `json:"tags"`
	Ingredients []ingredients.IngredientDTO `json:"ingredients"`
}

// CreateRecipeRequest carries the payload for creating a recipe.
type CreateRecipeRequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	TimeMinutes int             `json:"time_minutes" validate:"gte=0"`
	Price       decimal.Decimal `json:"price"`
	Link        *string         `json:"link,omitempty"`
	Tags        []int64         `json:"tags,omitempty"`
	Ingredients []int64         `json:"ingredients,omitempty"`
}

// UpdateRecipeRequest carries a partial update. Absent fields are left
// untouched; an empty id list clears the association.
type UpdateRecipeRequest struct {
	Title       *string          `json:"title,omitempty" validate:"omitempty,max=255"`
	TimeMinutes *int             `json:"time_minutes,omitempty" validate:"omitempty,gte=0"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Link        *string          `json:"link,omitempty"`
	Tags        *[]int64         `json:"tags,omitempty"`
	Ingredients *[]int64         `json:"ingredients,omitempty"`
}

// ListFilters narrows the browse endpoint by association ids.
type ListFilters struct {
	TagIDs        []int64
	IngredientIDs []int64
}

func toListItem(m *models.Recipe) RecipeListItem {
	tagIDs := make([]int64, 0, len(m.Tags))
	for _, t := range m.Tags {
		tagIDs = append(tagIDs, t.ID)
	}
	ingredientIDs := make([]int64, 0, len(m.Ingredients))
	for _, i := range m.Ingredients {
		ingredientIDs = append(ingredientIDs, i.ID)
	}
	return RecipeListItem{
		ID:          m.ID,
		Title:       m.Title,
		TimeMinutes: m.TimeMinutes,
		Price:       m.Price,
		Link:        m.Link,
		Tags:        tagIDs,
		Ingredients: ingredientIDs,
	}
}

func toDetail(m *models.Recipe) *RecipeDetail {
	return &RecipeDetail{
		ID:          m.ID,
		Title:       m.Title,
		TimeMinutes: m.TimeMinutes,
		Price:       m.Price,
		Link:        m.Link,
		Image:       m.ImagePath,
		Tags:        tags.FromModels(m.Tags),
		Ingredients: ingredients.FromModels(m.Ingredients),
	}
}
