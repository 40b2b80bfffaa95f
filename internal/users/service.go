package users

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/recipebookhq/recipebook-backend/pkg/config"
	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"github.com/recipebookhq/recipebook-backend/pkg/security"
	"gorm.io/gorm"
)

// UpdateMeRequest carries the fields a user may change on their own profile.
// Absent fields are left untouched.
type UpdateMeRequest struct {
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty" validate:"omitempty,min=5"`
}

// Service defines the profile operations exposed to controllers.
type Service interface {
	Me(ctx context.Context, userID int64) (*UserDTO, error)
	UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (*UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
}

type repository interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, updates map[string]any) error
	List(ctx context.Context) ([]models.User, error)
}

// ServiceParams bundles the dependencies required to build a users service.
type ServiceParams struct {
	Repo           repository
	PasswordConfig config.PasswordConfig
}

type service struct {
	repo        repository
	passwordCfg config.PasswordConfig
}

// NewService constructs the profile service.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("users repository is required")
	}
	return &service{
		repo:        params.Repo,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *service) Me(ctx context.Context, userID int64) (*UserDTO, error) {
	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) UpdateMe(ctx context.Context, userID int64, req UpdateMeRequest) (*UserDTO, error) {
	if _, err := s.load(ctx, userID); err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Password != nil {
		if len(*req.Password) < s.minPasswordLength() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "password too short").
				WithDetails(map[string]any{"password": fmt.Sprintf("must be at least %d characters", s.minPasswordLength())})
		}
		hash, err := security.HashPassword(*req.Password, s.passwordCfg)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
		}
		updates["password_hash"] = hash
	}

	if len(updates) > 0 {
		updates["updated_at"] = time.Now().UTC()
		if err := s.repo.UpdateProfile(ctx, userID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update profile")
		}
	}

	user, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return FromModel(user), nil
}

func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list users")
	}
	out := make([]UserDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *FromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) load(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}
	return user, nil
}

func (s *service) minPasswordLength() int {
	if s.passwordCfg.MinLength > 0 {
		return s.passwordCfg.MinLength
	}
	return 5
}
