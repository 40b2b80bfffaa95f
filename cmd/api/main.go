package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/recipebookhq/recipebook-backend/api/routes"
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
	"github.com/recipebookhq/recipebook-backend/pkg/migrate"
	"github.com/recipebookhq/recipebook-backend/pkg/redis"
	"github.com/recipebookhq/recipebook-backend/pkg/storage/disk"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	tokenIssuer, err := pkgauth.NewTokenIssuer(cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create token issuer", err)
		os.Exit(1)
	}

	sessionManager, err := session.NewManager(redisClient, cfg.JWT.RefreshTokenTTL())
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	mediaStore, err := disk.New(context.Background(), cfg.Media, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to prepare media storage", err)
		os.Exit(1)
	}

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       users.NewRepository(dbClient.DB()),
		SessionManager: sessionManager,
		TokenIssuer:    tokenIssuer,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create register service", err)
		os.Exit(1)
	}

	usersService, err := users.NewService(users.ServiceParams{
		Repo:           users.NewRepository(dbClient.DB()),
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create users service", err)
		os.Exit(1)
	}

	tagsService, err := tags.NewService(tags.ServiceParams{Repo: tags.NewRepository(dbClient.DB())})
	if err != nil {
		logg.Error(context.Background(), "failed to create tags service", err)
		os.Exit(1)
	}

	ingredientsService, err := ingredients.NewService(ingredients.ServiceParams{Repo: ingredients.NewRepository(dbClient.DB())})
	if err != nil {
		logg.Error(context.Background(), "failed to create ingredients service", err)
		os.Exit(1)
	}

	recipesService, err := recipes.NewService(recipes.ServiceParams{DB: dbClient})
	if err != nil {
		logg.Error(context.Background(), "failed to create recipes service", err)
		os.Exit(1)
	}

	imagesService, err := images.NewService(images.ServiceParams{
		Recipes: recipes.NewRepository(dbClient.DB()),
		Storage: mediaStore,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create images service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:             cfg,
			Logger:             logg,
			DBPinger:           dbClient,
			RedisClient:        redisClient,
			TokenIssuer:        tokenIssuer,
			SessionManager:     sessionManager,
			HTTPMetrics:        httpMetrics,
			Registry:           registry,
			AuthService:        authService,
			RegisterService:    registerService,
			UsersService:       usersService,
			TagsService:        tagsService,
			IngredientsService: ingredientsService,
			RecipesService:     recipesService,
			ImagesService:      imagesService,
			MediaRoot:          mediaStore.Root(),
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
