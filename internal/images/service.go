package images

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"path"
	"path/filepath"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/google/uuid"
	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"gorm.io/gorm"
)

const uploadPrefix = "uploads/recipe"

// Fallback extensions per sniffed format, used when the uploaded filename
// carries none.
var extensionByFormat = map[string]string{
	"jpeg": ".jpg",
	"png":  ".png",
	"gif":  ".gif",
	"webp": ".webp",
}

// UploadResult reports where the accepted image was stored.
type UploadResult struct {
	RecipeID int64  `json:"id"`
	Image    string `json:"image"`
}

// Storage is the blob store the service writes accepted images to.
type Storage interface {
	Save(ctx context.Context, relPath string, r io.Reader) (string, error)
	Remove(ctx context.Context, relPath string) error
}

type recipeRepository interface {
	FindDetail(ctx context.Context, userID, recipeID int64) (*models.Recipe, error)
	UpdateImagePath(ctx context.Context, recipeID int64, path string) error
}

// Service validates and stores recipe images.
type Service interface {
	Upload(ctx context.Context, userID, recipeID int64, filename string, r io.Reader, maxBytes int64) (*UploadResult, error)
}

// ServiceParams bundles the dependencies required to build the image service.
type ServiceParams struct {
	Recipes recipeRepository
	Storage Storage
}

type service struct {
	recipes recipeRepository
	storage Storage
}

// NewService constructs the image upload service.
func NewService(params ServiceParams) (Service, error) {
	if params.Recipes == nil {
		return nil, fmt.Errorf("recipes repository is required")
	}
	if params.Storage == nil {
		return nil, fmt.Errorf("storage is required")
	}
	return &service{recipes: params.Recipes, storage: params.Storage}, nil
}

func (s *service) Upload(ctx context.Context, userID, recipeID int64, filename string, r io.Reader, maxBytes int64) (*UploadResult, error) {
	recipe, err := s.recipes.FindDetail(ctx, userID, recipeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "recipe not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load recipe")
	}

	data, err := readCapped(r, maxBytes)
	if err != nil {
		return nil, err
	}

	format, err := sniffImageFormat(data)
	if err != nil {
		return nil, err
	}

	// Keep the uploaded filename's extension; the content sniff above is the
	// actual gate.
	ext := strings.ToLower(path.Ext(path.Base(filepath.ToSlash(filename))))
	if ext == "" || ext == "." {
		ext = extensionByFormat[format]
	}

	relPath := path.Join(uploadPrefix, uuid.NewString()+ext)
	stored, err := s.storage.Save(ctx, relPath, bytes.NewReader(data))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "store image")
	}

	if err := s.recipes.UpdateImagePath(ctx, recipeID, stored); err != nil {
		// Avoid leaving an orphaned file when the DB write fails.
		_ = s.storage.Remove(ctx, stored)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record image path")
	}

	if recipe.ImagePath != nil && *recipe.ImagePath != stored {
		_ = s.storage.Remove(ctx, *recipe.ImagePath)
	}

	return &UploadResult{RecipeID: recipeID, Image: stored}, nil
}

func readCapped(r io.Reader, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = 10 << 20
	}
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "read image")
	}
	if int64(len(data)) > maxBytes {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image too large").
			WithDetails(map[string]any{"max_bytes": maxBytes})
	}
	if len(data) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image is required")
	}
	return data, nil
}

func sniffImageFormat(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported image format")
	}
	if _, ok := extensionByFormat[format]; !ok {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "unsupported image format").
			WithDetails(map[string]any{"format": format})
	}
	return format, nil
}
