package handler

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"licentra/internal/authz"
	apperrors "licentra/internal/errors"
)

// principalContextKey is where the router middleware stores the request's
// principal.
const principalContextKey = "principal"

// SetPrincipal stores the request principal on the echo context.
func SetPrincipal(c echo.Context, p authz.Principal) {
	c.Set(principalContextKey, p)
}

// Principal returns the request's principal, or the anonymous principal
// when none was established.
func Principal(c echo.Context) authz.Principal {
	if p, ok := c.Get(principalContextKey).(authz.Principal); ok {
		return p
	}
	return authz.Anonymous()
}

// FieldError describes one failed field constraint.
type FieldError struct {
	Field string `json:"field"`
	Rule  string `json:"rule"`
}

// ValidationErrorResponse carries per-field validation failures.
type ValidationErrorResponse struct {
	Error  string       `json:"error"`
	Code   string       `json:"code"`
	Fields []FieldError `json:"fields,omitempty"`
}

// validationError turns validator output into a 400 with per-field detail.
func validationError(err error) *echo.HTTPError {
	resp := ValidationErrorResponse{
		Error: "validation failed",
		Code:  "VALIDATION_FAILED",
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			resp.Fields = append(resp.Fields, FieldError{Field: fe.Field(), Rule: fe.Tag()})
		}
	}
	return echo.NewHTTPError(http.StatusBadRequest, resp)
}

// domainError maps a service error onto the HTTP taxonomy.
func domainError(err error) *echo.HTTPError {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}
