package users

import (
	"context"
	"testing"

	"github.com/recipebookhq/recipebook-backend/pkg/config"
	"github.com/recipebookhq/recipebook-backend/pkg/db/models"
	pkgerrors "github.com/recipebookhq/recipebook-backend/pkg/errors"
	"github.com/recipebookhq/recipebook-backend/pkg/security"
	"gorm.io/gorm"
)

type stubRepo struct {
	user    *models.User
	users   []models.User
	updates map[string]any
}

func (s *stubRepo) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if s.user == nil || s.user.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	return s.user, nil
}

func (s *stubRepo) UpdateProfile(ctx context.Context, id int64, updates map[string]any) error {
	s.updates = updates
	if name, ok := updates["name"].(string); ok {
		s.user.Name = name
	}
	if hash, ok := updates["password_hash"].(string); ok {
		s.user.PasswordHash = hash
	}
	return nil
}

func (s *stubRepo) List(ctx context.Context) ([]models.User, error) {
	return s.users, nil
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:           repo,
		PasswordConfig: config.PasswordConfig{MinLength: 5},
	})
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc
}

func TestMeReturnsProfile(t *testing.T) {
	repo := &stubRepo{user: &models.User{ID: 9, Email: "me@example.com", Name: "Me", IsActive: true}}
	svc := newTestService(t, repo)

	dto, err := svc.Me(context.Background(), 9)
	if err != nil {
		t.Fatalf("me: %v", err)
	}
	if dto.ID != 9 || dto.Email != "me@example.com" {
		t.Fatalf("unexpected profile %+v", dto)
	}
}

func TestMeUnknownUserNotFound(t *testing.T) {
	svc := newTestService(t, &stubRepo{})

	_, err := svc.Me(context.Background(), 404)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUpdateMeChangesName(t *testing.T) {
	repo := &stubRepo{user: &models.User{ID: 9, Email: "me@example.com", Name: "Old"}}
	svc := newTestService(t, repo)

	name := "New Name"
	dto, err := svc.UpdateMe(context.Background(), 9, UpdateMeRequest{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != "New Name" {
		t.Fatalf("expected name change, got %q", dto.Name)
	}
	if _, ok := repo.updates["updated_at"]; !ok {
		t.Fatalf("expected updated_at to be touched")
	}
	if _, ok := repo.updates["password_hash"]; ok {
		t.Fatalf("password must not change on a name-only update")
	}
}

func TestUpdateMeRehashesPassword(t *testing.T) {
	repo := &stubRepo{user: &models.User{ID: 9, Email: "me@example.com", PasswordHash: "old-hash"}}
	svc := newTestService(t, repo)

	password := "new-secret"
	if _, err := svc.UpdateMe(context.Background(), 9, UpdateMeRequest{Password: &password}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.user.PasswordHash == "old-hash" {
		t.Fatalf("expected password hash to change")
	}
	ok, err := security.VerifyPassword(password, repo.user.PasswordHash)
	if err != nil || !ok {
		t.Fatalf("expected new hash to verify, ok=%v err=%v", ok, err)
	}
}

func TestUpdateMeRejectsShortPassword(t *testing.T) {
	repo := &stubRepo{user: &models.User{ID: 9}}
	svc := newTestService(t, repo)

	password := "pw"
	_, err := svc.UpdateMe(context.Background(), 9, UpdateMeRequest{Password: &password})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.updates != nil {
		t.Fatalf("expected no write on rejected update")
	}
}

func TestUpdateMeNoopWithoutFields(t *testing.T) {
	repo := &stubRepo{user: &models.User{ID: 9, Name: "Same"}}
	svc := newTestService(t, repo)

	dto, err := svc.UpdateMe(context.Background(), 9, UpdateMeRequest{})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != "Same" {
		t.Fatalf("expected profile unchanged, got %+v", dto)
	}
	if repo.updates != nil {
		t.Fatalf("expected no write for empty update")
	}
}

func TestListReturnsEveryAccount(t *testing.T) {
	repo := &stubRepo{users: []models.User{
		{ID: 1, Email: "a@example.com"},
		{ID: 2, Email: "b@example.com"},
	}}
	svc := newTestService(t, repo)

	list, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].ID != 1 || list[1].ID != 2 {
		t.Fatalf("unexpected list %+v", list)
	}
}
