package recipes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/recipebookhq/recipebook-backend/internal/ingredients"
	"github.com/recipebookhq/recipebook-backend/internal/tags"
	"github.com/recipebookhq/recipebook-backend/pkg/db"
	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"gorm.io/gorm"
)

// Service defines the recipe operations exposed to controllers.
type Service interface {
	List(ctx context.Context, userID int64, filters ListFilters) ([]RecipeListItem, error)
	Get(ctx context.Context, userID, recipeID int64) (*RecipeDetail, error)
	Create(ctx context.Context, userID int64, req CreateRecipeRequest) (*RecipeDetail, error)
	Replace(ctx context.Context, userID, recipeID int64, req CreateRecipeRequest) (*RecipeDetail, error)
	Update(ctx context.Context, userID, recipeID int64, req UpdateRecipeRequest) (*RecipeDetail, error)
}

// ServiceParams bundles the dependencies required to build a recipes service.
type ServiceParams struct {
	DB *db.Client
}

type service struct {
	db *db.Client
}

// NewService constructs the recipes service.
func NewService(params ServiceParams) (Service, error) {
	if params.DB == nil {
		return nil, fmt.Errorf("database client is required")
	}
	return &service{db: params.DB}, nil
}

func (s *service) List(ctx context.Context, userID int64, filters ListFilters) ([]RecipeListItem, error) {
	repo := NewRepository(s.db.DB())
	rows, err := repo.List(ctx, userID, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list recipes")
	}
	out := make([]RecipeListItem, 0, len(rows))
	for i := range rows {
		out = append(out, toListItem(&rows[i]))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, userID, recipeID int64) (*RecipeDetail, error) {
	repo := NewRepository(s.db.DB())
	recipe, err := repo.FindDetail(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipe not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recipe")
	}
	return toDetail(recipe), nil
}

func (s *service) Create(ctx context.Context, userID int64, req CreateRecipeRequest) (*RecipeDetail, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}

	var created *RecipeDetail
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		tagRows, ingredientRows, err := resolveAssociations(ctx, tx, req.Tags, req.Ingredients)
		if err != nil {
			return err
		}

		recipe := &models.Recipe{
			UserID:      userID,
			Title:       title,
			TimeMinutes: req.TimeMinutes,
			Price:       req.Price,
			Link:        req.Link,
			Tags:        tagRows,
			Ingredients: ingredientRows,
		}

		repo := NewRepository(tx)
		if err := repo.Create(ctx, recipe); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "recipe title already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create recipe")
		}

		created = toDetail(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Replace applies PUT semantics: every writable field is overwritten with the
// request value, absent associations are cleared.
func (s *service) Replace(ctx context.Context, userID, recipeID int64, req CreateRecipeRequest) (*RecipeDetail, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	tagIDs := req.Tags
	if tagIDs == nil {
		tagIDs = []int64{}
	}
	ingredientIDs := req.Ingredients
	if ingredientIDs == nil {
		ingredientIDs = []int64{}
	}
	return s.Update(ctx, userID, recipeID, UpdateRecipeRequest{
		Title:       &title,
		TimeMinutes: &req.TimeMinutes,
		Price:       &req.Price,
		Link:        req.Link,
		Tags:        &tagIDs,
		Ingredients: &ingredientIDs,
	})
}

// Update applies PATCH semantics: only the provided fields change.
func (s *service) Update(ctx context.Context, userID, recipeID int64, req UpdateRecipeRequest) (*RecipeDetail, error) {
	var updated *RecipeDetail
	err := s.db.WithTx(ctx, func(tx *gorm.DB) error {
		repo := NewRepository(tx)
		recipe, err := repo.FindDetail(ctx, userID, recipeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "recipe not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recipe")
		}

		if req.Title != nil {
			title := strings.TrimSpace(*req.Title)
			if title == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
			}
			recipe.Title = title
		}
		if req.TimeMinutes != nil {
			recipe.TimeMinutes = *req.TimeMinutes
		}
		if req.Price != nil {
			recipe.Price = *req.Price
		}
		if req.Link != nil {
			recipe.Link = req.Link
		}
		recipe.UpdatedAt = time.Now().UTC()

		if err := repo.Save(ctx, recipe); err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "recipe title already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update recipe")
		}

		if req.Tags != nil {
			tagRows, _, err := resolveAssociations(ctx, tx, *req.Tags, nil)
			if err != nil {
				return err
			}
			if err := repo.ReplaceTags(ctx, recipe, tagRows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace tags")
			}
			recipe.Tags = tagRows
		}
		if req.Ingredients != nil {
			_, ingredientRows, err := resolveAssociations(ctx, tx, nil, *req.Ingredients)
			if err != nil {
				return err
			}
			if err := repo.ReplaceIngredients(ctx, recipe, ingredientRows); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "replace ingredients")
			}
			recipe.Ingredients = ingredientRows
		}

		updated = toDetail(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// resolveAssociations loads tags and ingredients by id and rejects the
// request if any id does not exist.
func resolveAssociations(ctx context.Context, tx *gorm.DB, tagIDs, ingredientIDs []int64) ([]models.Tag, []models.Ingredient, error) {
	tagRows, err := tags.NewRepository(tx).FindByIDs(ctx, tagIDs)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load tags")
	}
	if missing := missingIDs(tagIDs, tagModelIDs(tagRows)); len(missing) > 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown tag ids").
			WithDetails(map[string]any{"tags": missing})
	}

	ingredientRows, err := ingredients.NewRepository(tx).FindByIDs(ctx, ingredientIDs)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load ingredients")
	}
	if missing := missingIDs(ingredientIDs, ingredientModelIDs(ingredientRows)); len(missing) > 0 {
		return nil, nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown ingredient ids").
			WithDetails(map[string]any{"ingredients": missing})
	}

	if tagRows == nil {
		tagRows = []models.Tag{}
	}
	if ingredientRows == nil {
		ingredientRows = []models.Ingredient{}
	}
	return tagRows, ingredientRows, nil
}

func tagModelIDs(rows []models.Tag) map[int64]struct{} {
	out := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		out[row.ID] = struct{}{}
	}
	return out
}

func ingredientModelIDs(rows []models.Ingredient) map[int64]struct{} {
	out := make(map[int64]struct{}, len(rows))
	for _, row := range rows {
		out[row.ID] = struct{}{}
	}
	return out
}

func missingIDs(requested []int64, found map[int64]struct{}) []int64 {
	var missing []int64
	for _, id := range requested {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
