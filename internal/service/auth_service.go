package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"licentra/internal/auth"
	"licentra/internal/model"
	"licentra/internal/repository"
)

const bcryptCost = 10

var (
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserAlreadyExists is returned when trying to register an existing user.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrInvalidRefreshToken is returned when refresh token is invalid or expired.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, email, password, fullName string) (*model.Profile, error)
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, profile *model.Profile, err error)
	RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error)
	Logout(ctx context.Context, refreshToken, accessToken string) error
}

type authService struct {
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
	jwtService  *auth.JWTService
	tokenStore  auth.TokenStoreInterface
}

// NewAuthService creates a new authentication service.
func NewAuthService(profileRepo repository.ProfileRepository, roleRepo repository.RoleRepository, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		profileRepo: profileRepo,
		roleRepo:    roleRepo,
		jwtService:  jwtService,
		tokenStore:  tokenStore,
	}
}

// Register creates a new profile with hashed password and provisions the
// default user role in the same transaction.
func (s *authService) Register(ctx context.Context, email, password, fullName string) (*model.Profile, error) {
	existing, err := s.profileRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, ErrUserAlreadyExists
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("check profile existence: %w", err)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	profile := &model.Profile{
		Email:        email,
		PasswordHash: string(hashedPassword),
		FullName:     fullName,
	}

	if err := s.profileRepo.Provision(ctx, profile, model.RoleUser); err != nil {
		return nil, fmt.Errorf("provision profile: %w", err)
	}

	return profile, nil
}

// Login authenticates a user and returns access and refresh tokens. The
// access token embeds the user's role set so each request can build its
// principal without a role lookup.
func (s *authService) Login(ctx context.Context, email, password string) (accessToken, refreshToken string, profile *model.Profile, err error) {
	profile, err = s.profileRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(profile.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}

	roles, err := s.loadRoles(ctx, profile)
	if err != nil {
		return "", "", nil, fmt.Errorf("load roles: %w", err)
	}

	accessToken, err = s.jwtService.GenerateAccessToken(profile.ID, profile.Email, roles)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate access token: %w", err)
	}

	tokenID, refreshToken, err := s.jwtService.GenerateRefreshToken(profile.ID, profile.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.tokenStore.StoreRefreshToken(ctx, tokenID, profile.ID, profile.Email, auth.RefreshTokenExpiry); err != nil {
		return "", "", nil, fmt.Errorf("store refresh token: %w", err)
	}

	return accessToken, refreshToken, profile, nil
}

// RefreshToken validates a refresh token and returns a new access token.
// Roles are re-read from the store so a role change takes effect on the
// next refresh at the latest.
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (accessToken string, err error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	storedUserID, storedEmail, err := s.tokenStore.GetRefreshToken(ctx, claims.ID)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	if storedUserID != claims.UserID || storedEmail != claims.Email {
		return "", ErrInvalidRefreshToken
	}

	assignments, err := s.roleRepo.ListByUserID(ctx, claims.UserID)
	if err != nil {
		return "", fmt.Errorf("load roles: %w", err)
	}
	roles := make([]model.AppRole, 0, len(assignments))
	for _, a := range assignments {
		roles = append(roles, a.Role)
	}

	accessToken, err = s.jwtService.GenerateAccessToken(claims.UserID, claims.Email, roles)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}

	return accessToken, nil
}

// Logout invalidates the refresh token and blacklists the access token for
// its remaining lifetime, revoking the session for all future requests.
func (s *authService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	refreshClaims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		return ErrInvalidRefreshToken
	}

	if err := s.tokenStore.DeleteRefreshToken(ctx, refreshClaims.ID); err != nil {
		return fmt.Errorf("delete refresh token: %w", err)
	}

	// Access token may already be expired; that is fine, there is nothing
	// left to revoke then.
	claims, err := s.jwtService.ValidateToken(accessToken)
	if err != nil || claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}
	return s.tokenStore.BlacklistAccessToken(ctx, claims.ID, ttl)
}

func (s *authService) loadRoles(ctx context.Context, profile *model.Profile) ([]model.AppRole, error) {
	assignments, err := s.roleRepo.ListByUserID(ctx, profile.ID)
	if err != nil {
		return nil, err
	}
	roles := make([]model.AppRole, 0, len(assignments))
	for _, a := range assignments {
		roles = append(roles, a.Role)
	}
	return roles, nil
}
