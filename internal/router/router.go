package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"licentra/internal/auth"
	"licentra/internal/config"
	"licentra/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	tokenStore auth.TokenStoreInterface,
	authHandler *handler.AuthHandler,
	profileHandler *handler.ProfileHandler,
	applicationHandler *handler.ApplicationHandler,
	licenseHandler *handler.LicenseHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)

	// Public verification: anyone may look up a license by number. The
	// response is redacted by the authorization layer, not here.
	api.GET("/verify/:number", licenseHandler.Verify)

	// Secured routes (require JWT authentication)
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.JWTSecret),
		// The third segment strips the scheme prefix before parsing; without
		// it the extractor hands "Bearer eyJ..." to the JWT parser verbatim.
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))
	secured.Use(PrincipalMiddleware(tokenStore))

	secured.POST("/auth/logout", authHandler.Logout)

	// Profile routes
	secured.GET("/profile", profileHandler.GetOwn)
	secured.PUT("/profile", profileHandler.UpdateOwn)

	// Application routes
	secured.POST("/applications", applicationHandler.Submit)
	secured.GET("/applications", applicationHandler.ListMine)
	secured.GET("/applications/:id", applicationHandler.Get)

	// License routes
	secured.GET("/licenses", licenseHandler.ListMine)
	secured.GET("/licenses/:id", licenseHandler.Get)

	// Admin routes
	admin := secured.Group("/admin", RequireAdmin())
	admin.GET("/applications", adminHandler.ListApplications)
	admin.PATCH("/applications/:id/review", adminHandler.Review)
	admin.POST("/applications/:id/license", adminHandler.IssueLicense)
	admin.PATCH("/licenses/:id/status", adminHandler.SetLicenseStatus)
	admin.GET("/users/:id", profileHandler.GetUser)
	admin.GET("/users/:id/roles", profileHandler.ListUserRoles)
	admin.POST("/users/:id/roles", profileHandler.AssignRole)
	admin.DELETE("/users/:id/roles/:role", profileHandler.RemoveRole)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
