package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/recipebookhq/recipebook-backend/internal/auth"
	"github.com/recipebookhq/recipebook-backend/pkg/config"
	"github.com/recipebookhq/recipebook-backend/pkg/db"
	"github.com/recipebookhq/recipebook-backend/pkg/logger"
)

// createadmin provisions a superuser account from the command line.
func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "createadmin"})

	_ = godotenv.Load()

	email := flag.String("email", "", "superuser email (required)")
	password := flag.String("password", "", "superuser password (required)")
	name := flag.String("name", "", "display name")
	flag.Parse()

	if *email == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "both -email and -password are required")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "createadmin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		DB:             dbClient,
		PasswordConfig: cfg.Password,
	})
	if err != nil {
		logg.Error(ctx, "failed to create register service", err)
		os.Exit(1)
	}

	user, err := registerService.RegisterSuperuser(ctx, auth.RegisterRequest{
		Email:    *email,
		Password: *password,
		Name:     *name,
	})
	if err != nil {
		logg.Error(ctx, "failed to create superuser", err)
		os.Exit(1)
	}

	fmt.Printf("superuser created: id=%d email=%s\n", user.ID, user.Email)
}
