package tags

import (
	"context"
	"fmt"
	"strings"

	"github.com/recipebookhq/recipebook-backend/pkg/db"
	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
)

// Service defines the tag operations exposed to controllers.
type Service interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]TagDTO, error)
	Create(ctx context.Context, userID int64, req CreateTagRequest) (*TagDTO, error)
}

type repository interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]models.Tag, error)
	Create(ctx context.Context, userID int64, name string) (*models.Tag, error)
}

// ServiceParams bundles the dependencies required to build a tags service.
type ServiceParams struct {
	Repo repository
}

type service struct {
	repo repository
}

// NewService constructs the tags service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("tags repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, userID int64, assignedOnly bool) ([]TagDTO, error) {
	rows, err := s.repo.List(ctx, userID, assignedOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tags")
	}
	return FromModels(rows), nil
}

func (s *service) Create(ctx context.Context, userID int64, req CreateTagRequest) (*TagDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	tag, err := s.repo.Create(ctx, userID, name)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "tag name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create tag")
	}
	return FromModel(tag), nil
}
