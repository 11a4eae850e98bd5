package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrAuthenticationRequired is returned when no valid session accompanies the request.
	ErrAuthenticationRequired = errors.New("authentication required")
	// ErrForbidden is returned when the principal is not permitted to perform the operation.
	ErrForbidden = errors.New("operation not permitted")
	// ErrProfileNotFound is returned when a profile is not found.
	ErrProfileNotFound = errors.New("profile not found")
	// ErrApplicationNotFound is returned when an application is not found.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrLicenseNotFound is returned when a license is not found.
	ErrLicenseNotFound = errors.New("license not found")
	// ErrApplicationNotApproved is returned when issuing a license from a non-approved application.
	ErrApplicationNotApproved = errors.New("application is not approved")
	// ErrLicenseAlreadyIssued is returned when an application already yielded a license.
	ErrLicenseAlreadyIssued = errors.New("license already issued for application")
	// ErrInvalidStatusTransition is returned when a review moves an application to a disallowed status.
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	// ErrStoreOperation is returned when the database rejects an insert/select/update.
	ErrStoreOperation = errors.New("store operation failed")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrAuthenticationRequired):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "AUTH_REQUIRED")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrProfileNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "PROFILE_NOT_FOUND")
	case errors.Is(err, ErrApplicationNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "APPLICATION_NOT_FOUND")
	case errors.Is(err, ErrLicenseNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "LICENSE_NOT_FOUND")
	case errors.Is(err, ErrApplicationNotApproved):
		return NewHTTPError(http.StatusConflict, err.Error(), "APPLICATION_NOT_APPROVED")
	case errors.Is(err, ErrLicenseAlreadyIssued):
		return NewHTTPError(http.StatusConflict, err.Error(), "LICENSE_ALREADY_ISSUED")
	case errors.Is(err, ErrInvalidStatusTransition):
		return NewHTTPError(http.StatusConflict, err.Error(), "INVALID_STATUS_TRANSITION")
	case errors.Is(err, ErrStoreOperation):
		return NewHTTPError(http.StatusInternalServerError, err.Error(), "STORE_OPERATION_FAILED")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
