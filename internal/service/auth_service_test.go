package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"licentra/internal/auth"
	"licentra/internal/model"
)

func newAuthFixture() (*MockProfileRepository, *MockRoleRepository, *MockTokenStore, AuthService) {
	profileRepo := new(MockProfileRepository)
	roleRepo := new(MockRoleRepository)
	tokenStore := new(MockTokenStore)
	jwtService := auth.NewJWTService("test-secret")
	svc := NewAuthService(profileRepo, roleRepo, jwtService, tokenStore)
	return profileRepo, roleRepo, tokenStore, svc
}

func TestRegisterProvisionsProfileWithDefaultRole(t *testing.T) {
	profileRepo, _, _, svc := newAuthFixture()

	profileRepo.On("FindByEmail", mock.Anything, "new@example.com").Return(nil, gorm.ErrRecordNotFound)
	profileRepo.On("Provision", mock.Anything, mock.AnythingOfType("*model.Profile"), model.RoleUser).Return(nil)

	profile, err := svc.Register(context.Background(), "new@example.com", "s3cret-pass", "New User")

	assert.NoError(t, err)
	assert.Equal(t, "new@example.com", profile.Email)
	assert.NotEqual(t, "s3cret-pass", profile.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte("s3cret-pass")))
	profileRepo.AssertExpectations(t)
}

func TestRegisterRejectsExistingEmail(t *testing.T) {
	profileRepo, _, _, svc := newAuthFixture()

	profileRepo.On("FindByEmail", mock.Anything, "taken@example.com").
		Return(&model.Profile{ID: uuid.New(), Email: "taken@example.com"}, nil)

	_, err := svc.Register(context.Background(), "taken@example.com", "s3cret-pass", "Someone")

	assert.ErrorIs(t, err, ErrUserAlreadyExists)
	profileRepo.AssertNotCalled(t, "Provision", mock.Anything, mock.Anything, mock.Anything)
}

func TestLoginReturnsTokensWithRoles(t *testing.T) {
	profileRepo, roleRepo, tokenStore, svc := newAuthFixture()

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-pass"), bcrypt.DefaultCost)
	assert.NoError(t, err)
	profile := &model.Profile{ID: uuid.New(), Email: "user@example.com", PasswordHash: string(hash)}

	profileRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(profile, nil)
	roleRepo.On("ListByUserID", mock.Anything, profile.ID).
		Return([]model.UserRole{{UserID: profile.ID, Role: model.RoleUser}}, nil)
	tokenStore.On("StoreRefreshToken", mock.Anything, mock.AnythingOfType("string"), profile.ID, profile.Email, auth.RefreshTokenExpiry).Return(nil)

	accessToken, refreshToken, got, err := svc.Login(context.Background(), "user@example.com", "correct-pass")

	assert.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, profile, got)

	// The access token must carry the role set for principal construction.
	claims, err := auth.NewJWTService("test-secret").ValidateToken(accessToken)
	assert.NoError(t, err)
	assert.Equal(t, profile.ID, claims.UserID)
	assert.Equal(t, []model.AppRole{model.RoleUser}, claims.Roles)
	tokenStore.AssertExpectations(t)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	profileRepo, _, _, svc := newAuthFixture()

	hash, _ := bcrypt.GenerateFromPassword([]byte("correct-pass"), bcrypt.DefaultCost)
	profile := &model.Profile{ID: uuid.New(), Email: "user@example.com", PasswordHash: string(hash)}
	profileRepo.On("FindByEmail", mock.Anything, "user@example.com").Return(profile, nil)

	_, _, _, err := svc.Login(context.Background(), "user@example.com", "wrong-pass")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	profileRepo, _, _, svc := newAuthFixture()

	profileRepo.On("FindByEmail", mock.Anything, "ghost@example.com").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := svc.Login(context.Background(), "ghost@example.com", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshTokenRejectsUnknownTokenID(t *testing.T) {
	_, _, tokenStore, svc := newAuthFixture()

	jwtService := auth.NewJWTService("test-secret")
	_, refreshToken, err := jwtService.GenerateRefreshToken(uuid.New(), "user@example.com")
	assert.NoError(t, err)

	tokenStore.On("GetRefreshToken", mock.Anything, mock.AnythingOfType("string")).
		Return(uuid.Nil, "", auth.ErrTokenNotFound)

	_, err = svc.RefreshToken(context.Background(), refreshToken)

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	_, _, tokenStore, svc := newAuthFixture()

	jwtService := auth.NewJWTService("test-secret")
	accessToken, err := jwtService.GenerateAccessToken(uuid.New(), "user@example.com", []model.AppRole{model.RoleUser})
	assert.NoError(t, err)

	// An access token is validly signed but must never mint new tokens.
	_, err = svc.RefreshToken(context.Background(), accessToken)

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	tokenStore.AssertNotCalled(t, "GetRefreshToken", mock.Anything, mock.Anything)
}

func TestLogoutDeletesRefreshTokenAndBlacklistsAccess(t *testing.T) {
	_, _, tokenStore, svc := newAuthFixture()

	jwtService := auth.NewJWTService("test-secret")
	userID := uuid.New()
	tokenID, refreshToken, err := jwtService.GenerateRefreshToken(userID, "user@example.com")
	assert.NoError(t, err)
	accessToken, err := jwtService.GenerateAccessToken(userID, "user@example.com", []model.AppRole{model.RoleUser})
	assert.NoError(t, err)

	tokenStore.On("DeleteRefreshToken", mock.Anything, tokenID).Return(nil)
	tokenStore.On("BlacklistAccessToken", mock.Anything, mock.AnythingOfType("string"), mock.AnythingOfType("time.Duration")).Return(nil)

	err = svc.Logout(context.Background(), refreshToken, accessToken)

	assert.NoError(t, err)
	tokenStore.AssertExpectations(t)
}

func TestLogoutRejectsMalformedRefreshToken(t *testing.T) {
	_, _, tokenStore, svc := newAuthFixture()

	err := svc.Logout(context.Background(), "not-a-token", "")

	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
	tokenStore.AssertNotCalled(t, "DeleteRefreshToken", mock.Anything, mock.Anything)
}
