package tags

import (
	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
)

// TagDTO is the transport shape for a recipe tag.
type TagDTO struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// CreateTagRequest carries the payload for creating a tag.
type CreateTagRequest struct {
	Name string `json:"name" validate:"required,max=255"`
}

func FromModel(t *models.Tag) *TagDTO {
	if t == nil {
		return nil
	}
	return &TagDTO{ID: t.ID, Name: t.Name}
}

func FromModels(rows []models.Tag) []TagDTO {
	out := make([]TagDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out
}
