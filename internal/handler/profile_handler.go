package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"licentra/internal/model"
	"licentra/internal/service"
)

// ProfileHandler handles profile self-service and admin user management.
type ProfileHandler struct {
	profileService service.ProfileService
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(profileService service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents a profile self-service update.
type UpdateProfileRequest struct {
	FullName string `json:"full_name" validate:"required,min=2,max=255"`
}

// RoleRequest names the role to grant.
type RoleRequest struct {
	Role string `json:"role" validate:"required,oneof=admin user"`
}

// GetOwn godoc
// @Summary Get the caller's profile
// @Tags profile
// @Produce json
// @Success 200 {object} model.Profile
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /profile [get]
func (h *ProfileHandler) GetOwn(c echo.Context) error {
	p := Principal(c)
	profile, err := h.profileService.Get(c.Request().Context(), p, p.ID)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpdateOwn godoc
// @Summary Update the caller's profile
// @Tags profile
// @Accept json
// @Produce json
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.Profile
// @Failure 400 {object} handler.ValidationErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /profile [put]
func (h *ProfileHandler) UpdateOwn(c echo.Context) error {
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	profile, err := h.profileService.Update(c.Request().Context(), Principal(c), service.UpdateProfileInput{
		FullName: req.FullName,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// GetUser godoc
// @Summary Get any user's profile
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} model.Profile
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id} [get]
func (h *ProfileHandler) GetUser(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	profile, err := h.profileService.Get(c.Request().Context(), Principal(c), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, profile)
}

// ListUserRoles godoc
// @Summary List a user's roles
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} model.UserRole
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/roles [get]
func (h *ProfileHandler) ListUserRoles(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	roles, err := h.profileService.Roles(c.Request().Context(), Principal(c), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, roles)
}

// AssignRole godoc
// @Summary Grant a role to a user
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "User ID"
// @Param request body RoleRequest true "Role to grant"
// @Success 204 "No Content"
// @Failure 400 {object} handler.ValidationErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/roles [post]
func (h *ProfileHandler) AssignRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req RoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	if err := h.profileService.AssignRole(c.Request().Context(), Principal(c), id, model.AppRole(req.Role)); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveRole godoc
// @Summary Revoke a role from a user
// @Tags admin
// @Produce json
// @Param id path string true "User ID"
// @Param role path string true "Role to revoke" Enums(admin, user)
// @Success 204 "No Content"
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/users/{id}/roles/{role} [delete]
func (h *ProfileHandler) RemoveRole(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	role := model.AppRole(c.Param("role"))
	if role != model.RoleAdmin && role != model.RoleUser {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid role")
	}

	if err := h.profileService.RemoveRole(c.Request().Context(), Principal(c), id, role); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}
