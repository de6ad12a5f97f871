package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/config"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/hr-payroll-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/hr-payroll-backend-go/internal/service/auth"
)

// migrate applies the embedded schema and optionally seeds the first admin.
//
//	go run ./cmd/migrate -admin-user admin -admin-email admin@example.com -admin-password secret
func main() {
	adminUser := flag.String("admin-user", "", "username of the admin account to seed")
	adminEmail := flag.String("admin-email", "", "email of the admin account to seed")
	adminPassword := flag.String("admin-password", os.Getenv("ADMIN_PASSWORD"), "password of the admin account to seed")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	db, err := database.NewPostgreSQLDB(cfg.DatabaseURL())
	if err != nil {
		slog.Error("Error connecting to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	ctx := context.Background()
	if err := db.Migrate(ctx); err != nil {
		slog.Error("Migration failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Migrations applied")

	if *adminUser == "" {
		return
	}
	if *adminPassword == "" {
		slog.Error("admin password is required to seed an admin account")
		os.Exit(1)
	}

	hash, err := serviceAuth.HashPassword(*adminPassword)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		os.Exit(1)
	}

	created, err := postgresql.NewUserRepository(db).Create(ctx, user.User{
		Username:     *adminUser,
		Email:        *adminEmail,
		PasswordHash: hash,
		Role:         user.RoleAdmin,
		IsActive:     true,
	})
	if errors.Is(err, user.ErrUsernameExists) {
		slog.Info("Admin account already exists", "username", *adminUser)
		return
	}
	if err != nil {
		slog.Error("Failed to seed admin account", "error", err)
		os.Exit(1)
	}
	slog.Info("Admin account created", "user_id", created.ID, "username", created.Username)
}
