package tags

import (
	"context"

	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository exposes tag persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository constructs a tags repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List returns the user's tags ordered by primary id. When assignedOnly is
// set, only tags attached to at least one recipe are returned.
func (r *Repository) List(ctx context.Context, userID int64, assignedOnly bool) ([]models.Tag, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if assignedOnly {
		query = query.Where("EXISTS (SELECT 1 FROM recipe_tags rt WHERE rt.tag_id = tags.id)")
	}
	var rows []models.Tag
	if err := query.Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a new tag owned by the given user.
func (r *Repository) Create(ctx context.Context, userID int64, name string) (*models.Tag, error) {
	tag := &models.Tag{Name: name, UserID: userID}
	if err := r.db.WithContext(ctx).Create(tag).Error; err != nil {
		return nil, err
	}
	return tag, nil
}

// FindByIDs loads the tags matching the provided ids, regardless of owner.
func (r *Repository) FindByIDs(ctx context.Context, ids []int64) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []models.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("id asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}
