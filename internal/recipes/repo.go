package recipes

import (
	"context"

	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes recipe persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a recipes repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns the user's recipes ordered by primary id, with associations
// preloaded. Filters apply EXISTS subqueries against the join tables: ids
// within one axis are OR'd, the two axes are AND'd.
func (r *Repository) List(ctx context.Context, userID int64, filters ListFilters) ([]models.Recipe, error) {
	query := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id asc") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.id asc") }).
		Where("user_id = ?", userID)

	if len(filters.TagIDs) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = recipes.id AND rt.tag_id IN ?)",
			filters.TagIDs,
		)
	}
	if len(filters.IngredientIDs) > 0 {
		query = query.Where(
			"EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = recipes.id AND ri.ingredient_id IN ?)",
			filters.IngredientIDs,
		)
	}

	var rows []models.Recipe
	if err := query.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// FindDetail loads one of the user's recipes with associations preloaded.
func (r *Repository) FindDetail(ctx context.Context, userID, recipeID int64) (*models.Recipe, error) {
	var recipe models.Recipe
	err := r.db.WithContext(ctx).
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id asc") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("ingredients.id asc") }).
		Where("user_id = ?", userID).
		First(&recipe, "id = ?", recipeID).Error
	if err != nil {
		return nil, err
	}
	return &recipe, nil
}

// Create inserts the recipe together with its associations.
func (r *Repository) Create(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

// Save persists column changes on an existing recipe row.
func (r *Repository) Save(ctx context.Context, recipe *models.Recipe) error {
	return r.db.WithContext(ctx).
		Model(recipe).
		Select("title", "time_minutes", "price", "link", "updated_at").
		Updates(recipe).Error
}

// ReplaceTags swaps the recipe's tag association for the provided set.
func (r *Repository) ReplaceTags(ctx context.Context, recipe *models.Recipe, rows []models.Tag) error {
	return r.db.WithContext(ctx).Model(recipe).Association("Tags").Replace(rows)
}

// ReplaceIngredients swaps the recipe's ingredient association for the provided set.
func (r *Repository) ReplaceIngredients(ctx context.Context, recipe *models.Recipe, rows []models.Ingredient) error {
	return r.db.WithContext(ctx).Model(recipe).Association("Ingredients").Replace(rows)
}

// UpdateImagePath stores the path of the recipe's uploaded image.
func (r *Repository) UpdateImagePath(ctx context.Context, recipeID int64, path string) error {
	return r.db.WithContext(ctx).
		Model(&models.Recipe{}).
		Where("id = ?", recipeID).
		UpdateColumn("image_path", path).Error
}
