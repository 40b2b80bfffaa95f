package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/recipebookhq/recipebook-backend/api/controllers"
	"github.com/recipebookhq/recipebook-backend/api/middleware"
	"github.com/recipebookhq/recipebook-backend/internal/auth"
	"github.com/recipebookhq/recipebook-backend/internal/images"
	"github.com/recipebookhq/recipebook-backend/internal/ingredients"
	"github.com/recipebookhq/recipebook-backend/internal/recipes"
	"github.com/recipebookhq/recipebook-backend/internal/tags"
	"github.com/recipebookhq/recipebook-backend/internal/users"
	pkgauth "github.com/recipebookhq/recipebook-backend/pkg/auth"
	"github.com/recipebookhq/recipebook-backend/pkg/auth/session"
	"github.com/recipebookhq/recipebook-backend/pkg/config"
	"github.com/recipebookhq/recipebook-backend/pkg/db"
	"github.com/recipebookhq/recipebook-backend/pkg/logger"
	"github.com/recipebookhq/recipebook-backend/pkg/metrics"
	"github.com/recipebookhq/recipebook-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	NewAccessID() string
	Rotate(ctx context.Context, oldAccessID, refreshToken, newAccessID string) (string, error)
	Revoke(ctx context.Context, accessID string) error
}

// Deps bundles everything the router needs so cmd/api stays small.
type Deps struct {
	Config         *config.Config
	Logger         *logger.Logger
	DBPinger       db.Pinger
	RedisClient    *redis.Client
	TokenIssuer    *pkgauth.TokenIssuer
	SessionManager sessionManager
	HTTPMetrics    *metrics.HTTPMetrics
	Registry       *prometheus.Registry

	AuthService        auth.Service
	RegisterService    auth.RegisterService
	UsersService       users.Service
	TagsService        tags.Service
	IngredientsService ingredients.Service
	RecipesService     recipes.Service
	ImagesService      images.Service

	// MediaRoot, when set, is served read-only under /media/.
	MediaRoot string
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.HTTPMetrics != nil {
		r.Use(middleware.Metrics(deps.HTTPMetrics))
	}

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	var redisPinger redis.Pinger
	if deps.RedisClient != nil {
		redisPinger = deps.RedisClient
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, redisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	// Without redis there is nothing to count against, so the limiter
	// becomes a no-op instead of panicking on a typed nil.
	passthrough := func(next http.Handler) http.Handler { return next }
	limitLogin := passthrough
	limitRegister := passthrough
	if deps.RedisClient != nil {
		limitLogin = middleware.AuthRateLimit(loginPolicy, deps.RedisClient, logg)
		limitRegister = middleware.AuthRateLimit(registerPolicy, deps.RedisClient, logg)
	}

	r.Route("/api/v1/user", func(r chi.Router) {
		r.With(limitRegister).Post("/create", controllers.UserCreate(deps.RegisterService, logg))
		r.With(limitLogin).Post("/login", controllers.UserLogin(deps.AuthService, logg))
		r.Post("/logout", controllers.UserLogout(deps.SessionManager, deps.TokenIssuer, logg))
		r.Post("/refresh", controllers.UserRefresh(deps.SessionManager, deps.TokenIssuer, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.TokenIssuer, deps.SessionManager, logg))
			r.Get("/me", controllers.UserMe(deps.UsersService, logg))
			r.Put("/me", controllers.UserMeUpdate(deps.UsersService, logg))
			r.Patch("/me", controllers.UserMeUpdate(deps.UsersService, logg))
		})
	})

	r.Route("/api/v1/recipe", func(r chi.Router) {
		r.Use(middleware.Auth(deps.TokenIssuer, deps.SessionManager, logg))

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", controllers.TagsList(deps.TagsService, logg))
			r.Post("/", controllers.TagsCreate(deps.TagsService, logg))
		})
		r.Route("/ingredients", func(r chi.Router) {
			r.Get("/", controllers.IngredientsList(deps.IngredientsService, logg))
			r.Post("/", controllers.IngredientsCreate(deps.IngredientsService, logg))
		})
		r.Route("/recipes", func(r chi.Router) {
			r.Get("/", controllers.RecipesList(deps.RecipesService, logg))
			r.Post("/", controllers.RecipesCreate(deps.RecipesService, logg))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", controllers.RecipeDetail(deps.RecipesService, logg))
				r.Put("/", controllers.RecipeReplace(deps.RecipesService, logg))
				r.Patch("/", controllers.RecipeUpdate(deps.RecipesService, logg))
				r.Post("/upload-image", controllers.RecipeImageUpload(deps.ImagesService, cfg.Media.MaxUploadBytes(), logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(deps.TokenIssuer, deps.SessionManager, logg))
		r.Use(middleware.RequireStaff(logg))
		r.Get("/users", controllers.AdminUsersList(deps.UsersService, logg))
	})

	if deps.MediaRoot != "" {
		fs := http.StripPrefix("/media/", http.FileServer(http.Dir(deps.MediaRoot)))
		r.Method(http.MethodGet, "/media/*", fs)
	}

	return r
}
