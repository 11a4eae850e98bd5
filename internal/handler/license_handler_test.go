package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"licentra/internal/authz"
	apperrors "licentra/internal/errors"
	"licentra/internal/model"
	"licentra/internal/service"
)

// MockLicenseService is a mock implementation of service.LicenseService.
type MockLicenseService struct {
	mock.Mock
}

func (m *MockLicenseService) Issue(ctx context.Context, p authz.Principal, applicationID uuid.UUID) (*model.License, error) {
	args := m.Called(ctx, p, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.License), args.Error(1)
}

func (m *MockLicenseService) Verify(ctx context.Context, number string) (*service.VerificationResult, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.VerificationResult), args.Error(1)
}

func (m *MockLicenseService) Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.License, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.License), args.Error(1)
}

func (m *MockLicenseService) ListOwn(ctx context.Context, p authz.Principal) ([]model.License, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.License), args.Error(1)
}

func (m *MockLicenseService) SetStatus(ctx context.Context, p authz.Principal, id uuid.UUID, status model.LicenseStatus) (*model.License, error) {
	args := m.Called(ctx, p, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.License), args.Error(1)
}

// errServiceAuthRequired keeps the domain error import in one place for the
// handler tests.
func errServiceAuthRequired() error {
	return apperrors.ErrAuthenticationRequired
}

func TestVerifyEndpointReturnsUniformMiss(t *testing.T) {
	svc := new(MockLicenseService)
	h := NewLicenseHandler(svc)

	svc.On("Verify", mock.Anything, "LIC-2024-12345").
		Return(&service.VerificationResult{IsValid: false, LicenseNumber: "LIC-2024-12345"}, nil)

	c, rec := newTestContext(http.MethodGet, "/api/verify/LIC-2024-12345", "")
	c.SetParamNames("number")
	c.SetParamValues("LIC-2024-12345")

	err := h.Verify(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["isValid"])
	assert.Equal(t, "LIC-2024-12345", body["licenseNumber"])
	// A miss carries nothing else.
	assert.Len(t, body, 2)
}

func TestVerifyEndpointReturnsPublicView(t *testing.T) {
	svc := new(MockLicenseService)
	h := NewLicenseHandler(svc)

	svc.On("Verify", mock.Anything, "LIC-2026-00001").Return(&service.VerificationResult{
		IsValid:       true,
		LicenseNumber: "LIC-2026-00001",
		LicenseType:   "retail",
		Status:        "active",
		BusinessName:  "Corner Shop",
		IssueDate:     "2026-01-01",
		ExpiryDate:    "2027-01-01",
		IntegrityHash: "abc123",
	}, nil)

	c, rec := newTestContext(http.MethodGet, "/api/verify/LIC-2026-00001", "")
	c.SetParamNames("number")
	c.SetParamValues("LIC-2026-00001")

	err := h.Verify(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["isValid"])
	assert.Equal(t, "Corner Shop", body["businessName"])
	// Redacted fields must never appear in the wire response.
	assert.NotContains(t, body, "id")
	assert.NotContains(t, body, "owner_id")
	assert.NotContains(t, body, "application_id")
}

func TestGetLicenseRejectsMalformedID(t *testing.T) {
	svc := new(MockLicenseService)
	h := NewLicenseHandler(svc)

	c, _ := newTestContext(http.MethodGet, "/api/licenses/not-a-uuid", "")
	c.SetParamNames("id")
	c.SetParamValues("not-a-uuid")

	err := h.Get(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetLicenseMapsNotFound(t *testing.T) {
	svc := new(MockLicenseService)
	h := NewLicenseHandler(svc)

	id := uuid.New()
	svc.On("Get", mock.Anything, mock.Anything, id).Return(nil, apperrors.ErrLicenseNotFound)

	c, _ := newTestContext(http.MethodGet, "/api/licenses/"+id.String(), "")
	c.SetParamNames("id")
	c.SetParamValues(id.String())

	err := h.Get(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}
