package ingredients

import (
	"context"
	"fmt"
	"strings"

	"github.com/recipebookhq/recipebook-backend/pkg/db"
	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
)

// Service defines the ingredient operations exposed to controllers.
type Service interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]IngredientDTO, error)
	Create(ctx context.Context, userID int64, req CreateIngredientRequest) (*IngredientDTO, error)
}

type repository interface {
	List(ctx context.Context, userID int64, assignedOnly bool) ([]models.Ingredient, error)
	Create(ctx context.Context, userID int64, name string) (*models.Ingredient, error)
}

// ServiceParams bundles the dependencies required to build the service.
type ServiceParams struct {
	Repo repository
}

type service struct {
	repo repository
}

// NewService constructs the ingredients service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("ingredients repository is required")
	}
	return &service{repo: params.Repo}, nil
}

func (s *service) List(ctx context.Context, userID int64, assignedOnly bool) ([]IngredientDTO, error) {
	rows, err := s.repo.List(ctx, userID, assignedOnly)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list ingredients")
	}
	return FromModels(rows), nil
}

func (s *service) Create(ctx context.Context, userID int64, req CreateIngredientRequest) (*IngredientDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	ingredient, err := s.repo.Create(ctx, userID, name)
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "ingredient name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create ingredient")
	}
	return FromModel(ingredient), nil
}
