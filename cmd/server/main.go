package main

import (
	"net/http"

	"go.uber.org/zap"

	"licentra/docs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"licentra/internal/auth"
	"licentra/internal/cache"
	"licentra/internal/config"
	"licentra/internal/db"
	"licentra/internal/handler"
	"licentra/internal/logger"
	"licentra/internal/model"
	"licentra/internal/repository"
	"licentra/internal/router"
	"licentra/internal/service"
)

// @title Licentra Business License API
// @version 1.0
// @description Business-license application intake, administrative review, and public license verification.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	log, err := logger.New()
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	e := echo.New()
	e.Use(middleware.RequestID())

	gormDB, err := db.NewPostgres(cfg.PostgresDSN)
	if err != nil {
		log.Fatal("database init", zap.Error(err))
	}

	// Run migrations for all models
	if err := gormDB.AutoMigrate(
		&model.Profile{},
		&model.UserRole{},
		&model.LicenseApplication{},
		&model.License{},
	); err != nil {
		log.Fatal("auto-migrate", zap.Error(err))
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// Initialize repositories
	profileRepo := repository.NewProfileRepository(gormDB)
	roleRepo := repository.NewRoleRepository(gormDB)
	appRepo := repository.NewApplicationRepository(gormDB)
	licenseRepo := repository.NewLicenseRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)

	// Initialize services
	authService := service.NewAuthService(profileRepo, roleRepo, jwtService, tokenStore)
	profileService := service.NewProfileService(profileRepo, roleRepo)
	applicationService := service.NewApplicationService(appRepo)
	licenseService := service.NewLicenseService(licenseRepo, appRepo, cacheClient, cfg.LicenseValidity, cfg.VerifyCacheTTL)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService)
	profileHandler := handler.NewProfileHandler(profileService)
	applicationHandler := handler.NewApplicationHandler(applicationService)
	licenseHandler := handler.NewLicenseHandler(licenseService)
	adminHandler := handler.NewAdminHandler(applicationService, licenseService)

	// Register routes
	router.Register(
		e,
		cfg,
		tokenStore,
		authHandler,
		profileHandler,
		applicationHandler,
		licenseHandler,
		adminHandler,
	)

	addr := ":" + cfg.ServerPort
	log.Info("starting server", zap.String("addr", addr))
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatal("server start", zap.Error(err))
	}
}
