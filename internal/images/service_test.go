package images

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"gorm.io/gorm"
)

type stubStorage struct {
	saved    map[string][]byte
	removed  []string
	saveErr  error
	failPath string
}

func newStubStorage() *stubStorage {
	return &stubStorage{saved: map[string][]byte{}}
}

func (s *stubStorage) Save(ctx context.Context, relPath string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.saved[relPath] = data
	return relPath, nil
}

func (s *stubStorage) Remove(ctx context.Context, relPath string) error {
	s.removed = append(s.removed, relPath)
	delete(s.saved, relPath)
	return nil
}

type stubRecipeRepo struct {
	recipe    *models.Recipe
	ownerID   int64
	imagePath string
	updateErr error
}

func (s *stubRecipeRepo) FindDetail(ctx context.Context, userID, recipeID int64) (*models.Recipe, error) {
	if s.recipe == nil || s.recipe.ID != recipeID || s.ownerID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	return s.recipe, nil
}

func (s *stubRecipeRepo) UpdateImagePath(ctx context.Context, recipeID int64, path string) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	s.imagePath = path
	return nil
}

func buildService(t *testing.T, repo *stubRecipeRepo, storage Storage) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Recipes: repo, Storage: storage})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2)), nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return buf.Bytes()
}

func TestUploadStoresImageAndRecordsPath(t *testing.T) {
	repo := &stubRecipeRepo{recipe: &models.Recipe{ID: 5, UserID: 1}, ownerID: 1}
	storage := newStubStorage()
	svc := buildService(t, repo, storage)

	result, err := svc.Upload(context.Background(), 1, 5, "photo.png", bytes.NewReader(pngBytes(t)), 1<<20)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.RecipeID != 5 {
		t.Fatalf("expected recipe id 5, got %d", result.RecipeID)
	}
	if !strings.HasPrefix(result.Image, "uploads/recipe/") || !strings.HasSuffix(result.Image, ".png") {
		t.Fatalf("unexpected stored path %q", result.Image)
	}
	if repo.imagePath != result.Image {
		t.Fatalf("expected path recorded on recipe, got %q", repo.imagePath)
	}
	if _, ok := storage.saved[result.Image]; !ok {
		t.Fatalf("expected file to be stored")
	}
}

func TestUploadKeepsOriginalExtension(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		wantExt  string
	}{
		{name: "jpeg suffix kept verbatim", filename: "holiday.jpeg", wantExt: ".jpeg"},
		{name: "uppercase suffix lowered", filename: "HOLIDAY.JPEG", wantExt: ".jpeg"},
		{name: "missing suffix falls back to sniffed format", filename: "holiday", wantExt: ".jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRecipeRepo{recipe: &models.Recipe{ID: 5, UserID: 1}, ownerID: 1}
			svc := buildService(t, repo, newStubStorage())

			result, err := svc.Upload(context.Background(), 1, 5, tt.filename, bytes.NewReader(jpegBytes(t)), 1<<20)
			if err != nil {
				t.Fatalf("upload: %v", err)
			}
			if !strings.HasSuffix(result.Image, tt.wantExt) {
				t.Fatalf("expected stored path with %q suffix, got %q", tt.wantExt, result.Image)
			}
		})
	}
}

func TestUploadReplacesPreviousImage(t *testing.T) {
	old := "uploads/recipe/old.png"
	repo := &stubRecipeRepo{recipe: &models.Recipe{ID: 5, UserID: 1, ImagePath: &old}, ownerID: 1}
	storage := newStubStorage()
	svc := buildService(t, repo, storage)

	if _, err := svc.Upload(context.Background(), 1, 5, "photo.png", bytes.NewReader(pngBytes(t)), 1<<20); err != nil {
		t.Fatalf("upload: %v", err)
	}
	if len(storage.removed) != 1 || storage.removed[0] != old {
		t.Fatalf("expected old image removed, got %v", storage.removed)
	}
}

func TestUploadRejectsForeignRecipe(t *testing.T) {
	repo := &stubRecipeRepo{recipe: &models.Recipe{ID: 5, UserID: 1}, ownerID: 1}
	svc := buildService(t, repo, newStubStorage())

	_, err := svc.Upload(context.Background(), 2, 5, "photo.png", bytes.NewReader(pngBytes(t)), 1<<20)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for foreign recipe, got %v", err)
	}
}

func TestUploadRejectsNonImagePayload(t *testing.T) {
	repo := &stubRecipeRepo{recipe: &models.Recipe{ID: 5, UserID: 1}, ownerID: 1}
	svc := buildService(t, repo, newStubStorage())

	_, err := svc.Upload(context.Background(), 1, 5, "notes.txt", strings.NewReader("definitely not an image"), 1<<20)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUploadRejectsEmptyBody(t *testing.T) {
	repo := &stubRecipeRepo{recipe: &models.Recipe{ID: 5, UserID: 1}, ownerID: 1}
	svc := buildService(t, repo, newStubStorage())

	_, err := svc.Upload(context.Background(), 1, 5, "photo.png", strings.NewReader(""), 1<<20)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty body, got %v", err)
	}
}

func TestUploadRejectsOversizedImage(t *testing.T) {
	repo := &stubRecipeRepo{recipe: &models.Recipe{ID: 5, UserID: 1}, ownerID: 1}
	svc := buildService(t, repo, newStubStorage())

	payload := pngBytes(t)
	_, err := svc.Upload(context.Background(), 1, 5, "photo.png", bytes.NewReader(payload), int64(len(payload)-1))
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for oversized image, got %v", err)
	}
}

func TestUploadCleansUpWhenRecordingFails(t *testing.T) {
	repo := &stubRecipeRepo{
		recipe:    &models.Recipe{ID: 5, UserID: 1},
		ownerID:   1,
		updateErr: fmt.Errorf("db down"),
	}
	storage := newStubStorage()
	svc := buildService(t, repo, storage)

	_, err := svc.Upload(context.Background(), 1, 5, "photo.png", bytes.NewReader(pngBytes(t)), 1<<20)
	if err == nil {
		t.Fatalf("expected error when recording fails")
	}
	if len(storage.saved) != 0 {
		t.Fatalf("expected orphaned file to be removed, still have %v", storage.saved)
	}
}
