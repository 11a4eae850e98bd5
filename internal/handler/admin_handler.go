package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"licentra/internal/model"
	"licentra/internal/service"
)

// AdminHandler handles administrative review and issuance endpoints.
type AdminHandler struct {
	appService     service.ApplicationService
	licenseService service.LicenseService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(appService service.ApplicationService, licenseService service.LicenseService) *AdminHandler {
	return &AdminHandler{appService: appService, licenseService: licenseService}
}

// ReviewRequest moves an application through the review workflow.
type ReviewRequest struct {
	Status string `json:"status" validate:"required,oneof=in_review approved rejected"`
	Notes  string `json:"notes" validate:"max=2000"`
}

// SetLicenseStatusRequest changes the stored status of a license.
type SetLicenseStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active suspended revoked"`
}

// ListApplications godoc
// @Summary List all applications
// @Tags admin
// @Produce json
// @Param status query string false "Filter by status" Enums(pending, in_review, approved, rejected)
// @Success 200 {array} model.LicenseApplication
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/applications [get]
func (h *AdminHandler) ListApplications(c echo.Context) error {
	status := model.ApplicationStatus(c.QueryParam("status"))
	apps, err := h.appService.List(c.Request().Context(), Principal(c), status)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, apps)
}

// Review godoc
// @Summary Review an application
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param request body ReviewRequest true "Review decision"
// @Success 200 {object} model.LicenseApplication
// @Failure 400 {object} handler.ValidationErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/applications/{id}/review [patch]
func (h *AdminHandler) Review(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	app, err := h.appService.Review(c.Request().Context(), Principal(c), id, model.ApplicationStatus(req.Status), req.Notes)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, app)
}

// IssueLicense godoc
// @Summary Issue a license from an approved application
// @Tags admin
// @Produce json
// @Param id path string true "Application ID"
// @Success 201 {object} model.License
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/applications/{id}/license [post]
func (h *AdminHandler) IssueLicense(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	license, err := h.licenseService.Issue(c.Request().Context(), Principal(c), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, license)
}

// SetLicenseStatus godoc
// @Summary Suspend, reinstate, or revoke a license
// @Tags admin
// @Accept json
// @Produce json
// @Param id path string true "License ID"
// @Param request body SetLicenseStatusRequest true "New status"
// @Success 200 {object} model.License
// @Failure 400 {object} handler.ValidationErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /admin/licenses/{id}/status [patch]
func (h *AdminHandler) SetLicenseStatus(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var req SetLicenseStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	license, err := h.licenseService.SetStatus(c.Request().Context(), Principal(c), id, model.LicenseStatus(req.Status))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, license)
}
