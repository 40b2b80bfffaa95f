package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/recipebookhq/recipebook-backend/api/middleware"
	"github.com/recipebookhq/recipebook-backend/internal/recipes"
)

type stubRecipesService struct {
	lastFilters recipes.ListFilters
	lastGetID   int64
	lastUpdate  *recipes.UpdateRecipeRequest
}

func (s *stubRecipesService) List(ctx context.Context, userID int64, filters recipes.ListFilters) ([]recipes.RecipeListItem, error) {
	s.lastFilters = filters
	return []recipes.RecipeListItem{}, nil
}

func (s *stubRecipesService) Get(ctx context.Context, userID, recipeID int64) (*recipes.RecipeDetail, error) {
	s.lastGetID = recipeID
	return &recipes.RecipeDetail{ID: recipeID}, nil
}

func (s *stubRecipesService) Create(ctx context.Context, userID int64, req recipes.CreateRecipeRequest) (*recipes.RecipeDetail, error) {
	return &recipes.RecipeDetail{ID: 1, Title: req.Title}, nil
}

func (s *stubRecipesService) Replace(ctx context.Context, userID, recipeID int64, req recipes.CreateRecipeRequest) (*recipes.RecipeDetail, error) {
	return &recipes.RecipeDetail{ID: recipeID, Title: req.Title}, nil
}

func (s *stubRecipesService) Update(ctx context.Context, userID, recipeID int64, req recipes.UpdateRecipeRequest) (*recipes.RecipeDetail, error) {
	s.lastUpdate = &req
	return &recipes.RecipeDetail{ID: recipeID}, nil
}

func withPathID(req *http.Request, id string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	return req.WithContext(ctx)
}

func TestRecipesListParsesFilters(t *testing.T) {
	logg := testLogger()
	stub := &stubRecipesService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipe/recipes/?tags=1,3&ingredients=2", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	RecipesList(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.lastFilters.TagIDs) != 2 || stub.lastFilters.TagIDs[0] != 1 || stub.lastFilters.TagIDs[1] != 3 {
		t.Fatalf("unexpected tag filter %v", stub.lastFilters.TagIDs)
	}
	if len(stub.lastFilters.IngredientIDs) != 1 || stub.lastFilters.IngredientIDs[0] != 2 {
		t.Fatalf("unexpected ingredient filter %v", stub.lastFilters.IngredientIDs)
	}
}

func TestRecipesListRejectsMalformedFilter(t *testing.T) {
	logg := testLogger()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipe/recipes/?tags=1,abc", nil)
	req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	RecipesList(&stubRecipesService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed filter, got %d", rec.Code)
	}
}

func TestRecipeDetailParsesPathID(t *testing.T) {
	logg := testLogger()
	stub := &stubRecipesService{}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipe/recipes/17", nil)
	req = withPathID(req, "17")
	req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	RecipeDetail(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastGetID != 17 {
		t.Fatalf("expected id 17 to reach the service, got %d", stub.lastGetID)
	}
}

func TestRecipeDetailRejectsBadID(t *testing.T) {
	logg := testLogger()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipe/recipes/nope", nil)
	req = withPathID(req, "nope")
	req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	RecipeDetail(&stubRecipesService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad id, got %d", rec.Code)
	}
}

func TestRecipesCreate(t *testing.T) {
	logg := testLogger()

	body := `{"title":"soup","time_minutes":30,"price":"4.50"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/recipe/recipes/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	RecipesCreate(&stubRecipesService{}, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestRecipeUpdatePassesPartialBody(t *testing.T) {
	logg := testLogger()
	stub := &stubRecipesService{}

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/recipe/recipes/3", strings.NewReader(`{"title":"new title"}`))
	req.Header.Set("Content-Type", "application/json")
	req = withPathID(req, "3")
	req = req.WithContext(middleware.WithUserID(req.Context(), 42))
	rec := httptest.NewRecorder()
	RecipeUpdate(stub, logg).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if stub.lastUpdate == nil || stub.lastUpdate.Title == nil || *stub.lastUpdate.Title != "new title" {
		t.Fatalf("expected partial update to reach the service, got %+v", stub.lastUpdate)
	}
	if stub.lastUpdate.Tags != nil {
		t.Fatalf("expected absent tags to stay nil")
	}
}
