package main

import (
	"context"
	"errors"
	"os"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"licentra/internal/config"
	"licentra/internal/db"
	"licentra/internal/logger"
	"licentra/internal/model"
	"licentra/internal/repository"
)

// Seeds the first admin account. Idempotent: re-running against an already
// seeded database only ensures the admin role assignment exists.
func main() {
	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	log.Info("starting seed")

	cfg := config.Load()

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("connect database", zap.Error(err))
	}

	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.UserRole{},
		&model.LicenseApplication{},
		&model.License{},
	); err != nil {
		log.Fatal("auto-migrate", zap.Error(err))
	}

	email := getEnv("ADMIN_EMAIL", "admin@licentra.local")
	password := getEnv("ADMIN_PASSWORD", "")
	if password == "" {
		log.Fatal("ADMIN_PASSWORD must be set")
	}

	ctx := context.Background()
	profileRepo := repository.NewProfileRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)

	profile, err := profileRepo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		log.Info("admin profile already exists", zap.String("email", email))
	case errors.Is(err, gorm.ErrRecordNotFound):
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("hash password", zap.Error(err))
		}
		profile = &model.Profile{
			Email:        email,
			FullName:     "Administrator",
			PasswordHash: string(hash),
		}
		if err := profileRepo.Provision(ctx, profile, model.RoleUser); err != nil {
			log.Fatal("provision admin profile", zap.Error(err))
		}
		log.Info("admin profile created", zap.String("email", email))
	default:
		log.Fatal("lookup admin profile", zap.Error(err))
	}

	if err := roleRepo.Assign(ctx, profile.ID, model.RoleAdmin); err != nil {
		log.Fatal("assign admin role", zap.Error(err))
	}

	log.Info("seed complete", zap.String("admin_id", profile.ID.String()))
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
