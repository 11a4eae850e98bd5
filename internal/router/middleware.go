package router

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"licentra/internal/auth"
	"licentra/internal/authz"
	"licentra/internal/handler"
)

// PrincipalMiddleware builds the request principal from the verified JWT
// claims and rejects tokens revoked by logout. A revoked session fails
// immediately on the next request.
func PrincipalMiddleware(tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := c.Get("user").(*jwt.Token)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}
			claims, ok := token.Claims.(*auth.Claims)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			// Refresh tokens share the signing key but must never
			// authenticate a request: logout only blacklists the access
			// JTI, so a long-lived refresh token would survive it.
			if claims.TokenType != auth.TokenTypeAccess {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			blacklisted, err := tokenStore.IsAccessTokenBlacklisted(c.Request().Context(), claims.ID)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "token check failed")
			}
			if blacklisted {
				return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
			}

			handler.SetPrincipal(c, authz.Principal{
				ID:            claims.UserID,
				Roles:         claims.Roles,
				Authenticated: true,
			})
			return next(c)
		}
	}
}

// RequireAdmin rejects requests whose principal lacks the admin role.
func RequireAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !handler.Principal(c).IsAdmin() {
				return echo.NewHTTPError(http.StatusForbidden, "admin role required")
			}
			return next(c)
		}
	}
}
