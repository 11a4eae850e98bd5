package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"licentra/internal/model"
)

// MockProfileRepository is a mock implementation of repository.ProfileRepository.
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) Create(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *model.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Profile), args.Error(1)
}

func (m *MockProfileRepository) Provision(ctx context.Context, profile *model.Profile, role model.AppRole) error {
	args := m.Called(ctx, profile, role)
	return args.Error(0)
}

// MockRoleRepository is a mock implementation of repository.RoleRepository.
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.UserRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UserRole), args.Error(1)
}

func (m *MockRoleRepository) Assign(ctx context.Context, userID uuid.UUID, role model.AppRole) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

func (m *MockRoleRepository) Remove(ctx context.Context, userID uuid.UUID, role model.AppRole) error {
	args := m.Called(ctx, userID, role)
	return args.Error(0)
}

// MockApplicationRepository is a mock implementation of repository.ApplicationRepository.
type MockApplicationRepository struct {
	mock.Mock
}

func (m *MockApplicationRepository) Create(ctx context.Context, app *model.LicenseApplication) error {
	args := m.Called(ctx, app)
	return args.Error(0)
}

func (m *MockApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LicenseApplication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.LicenseApplication), args.Error(1)
}

func (m *MockApplicationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.LicenseApplication, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LicenseApplication), args.Error(1)
}

func (m *MockApplicationRepository) List(ctx context.Context, status model.ApplicationStatus) ([]model.LicenseApplication, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LicenseApplication), args.Error(1)
}

func (m *MockApplicationRepository) UpdateReview(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewerID uuid.UUID, notes string, reviewedAt time.Time) error {
	args := m.Called(ctx, id, status, reviewerID, notes, reviewedAt)
	return args.Error(0)
}

// MockLicenseRepository is a mock implementation of repository.LicenseRepository.
type MockLicenseRepository struct {
	mock.Mock
}

func (m *MockLicenseRepository) Create(ctx context.Context, license *model.License) error {
	args := m.Called(ctx, license)
	return args.Error(0)
}

func (m *MockLicenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.License, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.License), args.Error(1)
}

func (m *MockLicenseRepository) FindByNumberProjected(ctx context.Context, number string, columns []string) (*model.License, error) {
	args := m.Called(ctx, number, columns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.License), args.Error(1)
}

func (m *MockLicenseRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.License, error) {
	args := m.Called(ctx, applicationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.License), args.Error(1)
}

func (m *MockLicenseRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.License, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.License), args.Error(1)
}

func (m *MockLicenseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.LicenseStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockTokenStore is a mock implementation of auth.TokenStoreInterface.
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uuid.UUID, email string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, userID, email, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uuid.UUID, string, error) {
	args := m.Called(ctx, tokenID)
	return args.Get(0).(uuid.UUID), args.String(1), args.Error(2)
}

func (m *MockTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	args := m.Called(ctx, tokenID)
	return args.Error(0)
}

func (m *MockTokenStore) BlacklistAccessToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	args := m.Called(ctx, tokenID, ttl)
	return args.Error(0)
}

func (m *MockTokenStore) IsAccessTokenBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	args := m.Called(ctx, tokenID)
	return args.Bool(0), args.Error(1)
}
