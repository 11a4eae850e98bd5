package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"licentra/internal/authz"
	"licentra/internal/model"
	"licentra/internal/service"
)

// MockApplicationService is a mock implementation of service.ApplicationService.
type MockApplicationService struct {
	mock.Mock
}

func (m *MockApplicationService) Submit(ctx context.Context, p authz.Principal, input service.SubmitApplicationInput) (*model.LicenseApplication, error) {
	args := m.Called(ctx, p, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LicenseApplication), args.Error(1)
}

func (m *MockApplicationService) Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.LicenseApplication, error) {
	args := m.Called(ctx, p, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LicenseApplication), args.Error(1)
}

func (m *MockApplicationService) ListOwn(ctx context.Context, p authz.Principal) ([]model.LicenseApplication, error) {
	args := m.Called(ctx, p)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LicenseApplication), args.Error(1)
}

func (m *MockApplicationService) List(ctx context.Context, p authz.Principal, status model.ApplicationStatus) ([]model.LicenseApplication, error) {
	args := m.Called(ctx, p, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LicenseApplication), args.Error(1)
}

func (m *MockApplicationService) Review(ctx context.Context, p authz.Principal, id uuid.UUID, status model.ApplicationStatus, notes string) (*model.LicenseApplication, error) {
	args := m.Called(ctx, p, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LicenseApplication), args.Error(1)
}

type echoValidator struct {
	validator *validator.Validate
}

func (v *echoValidator) Validate(i interface{}) error {
	return v.validator.Struct(i)
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = &echoValidator{validator: validator.New()}
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func validSubmitBody() map[string]interface{} {
	return map[string]interface{}{
		"license_type":         "retail",
		"business_name":        "Corner Shop",
		"registration_number":  "REG-4432",
		"business_address":     "12 Main Street, Springfield",
		"contact_person":       "Sam Doe",
		"contact_email":        "sam@cornershop.example",
		"phone_number":         "+15550001234",
		"business_type":        "sole_proprietor",
		"business_description": "A neighborhood shop selling groceries and household goods.",
	}
}

func TestSubmitRejectsShortDescriptionBeforeService(t *testing.T) {
	svc := new(MockApplicationService)
	h := NewApplicationHandler(svc)

	body := validSubmitBody()
	body["business_description"] = strings.Repeat("x", 19)
	raw, _ := json.Marshal(body)

	c, _ := newTestContext(http.MethodPost, "/api/applications", string(raw))
	SetPrincipal(c, authz.Principal{ID: uuid.New(), Roles: []model.AppRole{model.RoleUser}, Authenticated: true})

	err := h.Submit(c)

	// Field constraint failures never reach the service.
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
	resp, ok := httpErr.Message.(ValidationErrorResponse)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_FAILED", resp.Code)
	assert.Equal(t, "BusinessDescription", resp.Fields[0].Field)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitPassesPrincipalAndInput(t *testing.T) {
	owner := uuid.New()
	svc := new(MockApplicationService)
	h := NewApplicationHandler(svc)

	stored := &model.LicenseApplication{ID: uuid.New(), OwnerID: owner, Status: model.ApplicationStatusPending}
	svc.On("Submit", mock.Anything, mock.MatchedBy(func(p authz.Principal) bool {
		return p.Authenticated && p.ID == owner
	}), mock.AnythingOfType("service.SubmitApplicationInput")).Return(stored, nil)

	raw, _ := json.Marshal(validSubmitBody())
	c, rec := newTestContext(http.MethodPost, "/api/applications", string(raw))
	SetPrincipal(c, authz.Principal{ID: owner, Roles: []model.AppRole{model.RoleUser}, Authenticated: true})

	err := h.Submit(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func TestSubmitWithoutPrincipalIsUnauthorized(t *testing.T) {
	svc := new(MockApplicationService)
	h := NewApplicationHandler(svc)

	svc.On("Submit", mock.Anything, authz.Anonymous(), mock.AnythingOfType("service.SubmitApplicationInput")).
		Return(nil, errServiceAuthRequired())

	raw, _ := json.Marshal(validSubmitBody())
	c, _ := newTestContext(http.MethodPost, "/api/applications", string(raw))

	err := h.Submit(c)

	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}
