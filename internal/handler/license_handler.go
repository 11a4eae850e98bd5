package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"licentra/internal/service"
)

// LicenseHandler handles license endpoints for license holders and the
// public verification lookup.
type LicenseHandler struct {
	licenseService service.LicenseService
}

// NewLicenseHandler creates a new license handler.
func NewLicenseHandler(licenseService service.LicenseService) *LicenseHandler {
	return &LicenseHandler{licenseService: licenseService}
}

// Verify godoc
// @Summary Verify a license by number
// @Description Public lookup. Returns the redacted public view with recomputed validity; an unknown number yields isValid=false with only the queried number echoed back.
// @Tags verification
// @Produce json
// @Param number path string true "License number"
// @Success 200 {object} service.VerificationResult
// @Failure 500 {object} errors.ErrorResponse
// @Router /verify/{number} [get]
func (h *LicenseHandler) Verify(c echo.Context) error {
	result, err := h.licenseService.Verify(c.Request().Context(), c.Param("number"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, result)
}

// ListMine godoc
// @Summary List the caller's licenses
// @Tags licenses
// @Produce json
// @Success 200 {array} model.License
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /licenses [get]
func (h *LicenseHandler) ListMine(c echo.Context) error {
	licenses, err := h.licenseService.ListOwn(c.Request().Context(), Principal(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, licenses)
}

// Get godoc
// @Summary Get one license
// @Tags licenses
// @Produce json
// @Param id path string true "License ID"
// @Success 200 {object} model.License
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Security BearerAuth
// @Router /licenses/{id} [get]
func (h *LicenseHandler) Get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	license, err := h.licenseService.Get(c.Request().Context(), Principal(c), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, license)
}
