package ingredients

import (
	"context"

	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes ingredient persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs an ingredients repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the user's ingredients ordered by primary id. When
// assignedOnly is set, only ingredients attached to at least one recipe are
// returned.
func (r *Repository) List(ctx context.Context, userID int64, assignedOnly bool) ([]models.Ingredient, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if assignedOnly {
		query = query.Where("EXISTS (SELECT 1 FROM recipe_ingredients ri WHERE ri.ingredient_id = ingredients.id)")
	}
	var rows []models.Ingredient
	if err := query.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new ingredient owned by the given user.
func (r *Repository) Create(ctx context.Context, userID int64, name string) (*models.Ingredient, error) {
	ingredient := &models.Ingredient{Name: name, UserID: userID}
	if err := r.db.WithContext(ctx).Create(ingredient).Error; err != nil {
		return nil, err
	}
	return ingredient, nil
}

// FindByIDs loads the ingredients matching the provided ids, regardless of owner.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.Ingredient, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Ingredient
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
