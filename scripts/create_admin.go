package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/frontandrew/parking/internal/domain"
	"github.com/frontandrew/parking/internal/pkg/config"
	"github.com/frontandrew/parking/internal/pkg/database"
	"github.com/frontandrew/parking/internal/pkg/jwt"
	"github.com/frontandrew/parking/internal/pkg/logger"
	"github.com/frontandrew/parking/internal/repository/postgres"
	"github.com/frontandrew/parking/internal/usecase/auth"
)

// Создает первого администратора. Пароль берется из ADMIN_PASSWORD,
// чтобы не оставлять его в истории shell.
func main() {
	email := flag.String("email", getEnv("ADMIN_EMAIL", "admin@parking.local"), "admin email")
	name := flag.String("name", getEnv("ADMIN_NAME", "Administrator"), "admin full name")
	flag.Parse()

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		fmt.Println("❌ ADMIN_PASSWORD is not set")
		os.Exit(1)
	}

	fmt.Println("=========================================")
	fmt.Println("Create PARKING administrator")
	fmt.Println("=========================================")
	fmt.Println()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, &cfg.Database)
	if err != nil {
		fmt.Printf("❌ Failed to connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer database.Close(db)

	if err := database.Migrate(ctx, db); err != nil {
		fmt.Printf("❌ Failed to apply schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("✅ Connected to PostgreSQL")

	authService := auth.NewService(
		postgres.NewUserRepository(db),
		postgres.NewRefreshTokenRepository(db),
		jwt.NewTokenService(cfg.JWT.SecretKey, cfg.JWT.AccessExpiry, cfg.JWT.RefreshExpiry),
		logger.NewNoop(),
	)

	user, err := authService.Register(ctx, &auth.RegisterRequest{
		Email:    *email,
		Password: password,
		FullName: *name,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			fmt.Printf("⚠️  User %s already exists\n", *email)
			return
		}
		fmt.Printf("❌ Failed to create admin: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✅ Admin created: %s (%s)\n", user.Email, user.ID)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
