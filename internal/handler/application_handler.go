package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"licentra/internal/service"
)

// ApplicationHandler handles license-application endpoints for applicants.
type ApplicationHandler struct {
	appService service.ApplicationService
}

// NewApplicationHandler creates a new application handler.
func NewApplicationHandler(appService service.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// SubmitApplicationRequest represents a new license application.
type SubmitApplicationRequest struct {
	LicenseType         string `json:"license_type" validate:"required,max=100"`
	BusinessName        string `json:"business_name" validate:"required,min=2,max=255"`
	RegistrationNumber  string `json:"registration_number" validate:"required,max=100"`
	BusinessAddress     string `json:"business_address" validate:"required,min=5"`
	ContactPerson       string `json:"contact_person" validate:"required,min=2,max=255"`
	ContactEmail        string `json:"contact_email" validate:"required,email"`
	PhoneNumber         string `json:"phone_number" validate:"required,min=7,max=20"`
	BusinessType        string `json:"business_type" validate:"required,max=100"`
	BusinessDescription string `json:"business_description" validate:"required,min=20"`
}

// Submit godoc
// @Summary Submit a license application
// @Tags applications
// @Accept json
// @Produce json
// @Param request body SubmitApplicationRequest true "Application data"
// @Success 201 {object} model.LicenseApplication
// @Failure 400 {object} handler.ValidationErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /applications [post]
func (h *ApplicationHandler) Submit(c echo.Context) error {
	var req SubmitApplicationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	// Field constraints are checked before anything reaches the store.
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	app, err := h.appService.Submit(c.Request().Context(), Principal(c), service.SubmitApplicationInput{
		LicenseType:         req.LicenseType,
		BusinessName:        req.BusinessName,
		RegistrationNumber:  req.RegistrationNumber,
		BusinessAddress:     req.BusinessAddress,
		ContactPerson:       req.ContactPerson,
		ContactEmail:        req.ContactEmail,
		PhoneNumber:         req.PhoneNumber,
		BusinessType:        req.BusinessType,
		BusinessDescription: req.BusinessDescription,
	})
	if err != nil {
		return domainError(err)
	}

	return c.JSON(http.StatusCreated, app)
}

// ListMine godoc
// @Summary List the caller's applications
// @Tags applications
// @Produce json
// @Success 200 {array} model.LicenseApplication
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /applications [get]
func (h *ApplicationHandler) ListMine(c echo.Context) error {
	apps, err := h.appService.ListOwn(c.Request().Context(), Principal(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, apps)
}

// Get godoc
// @Summary Get one application
// @Tags applications
// @Produce json
// @Param id path string true "Application ID"
// @Success 200 {object} model.LicenseApplication
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /applications/{id} [get]
func (h *ApplicationHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	app, err := h.appService.Get(c.Request().Context(), Principal(c), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, app)
}
