package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"licentra/internal/authz"
	apperrors "licentra/internal/errors"
	"licentra/internal/model"
	"licentra/internal/repository"
)

// UpdateProfileInput carries the profile fields a user may change. Email
// is the login identity and stays immutable after registration.
type UpdateProfileInput struct {
	FullName string
}

// ProfileService handles profile reads, self-service updates, and
// administrative role management.
type ProfileService interface {
	Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.Profile, error)
	Update(ctx context.Context, p authz.Principal, input UpdateProfileInput) (*model.Profile, error)
	Roles(ctx context.Context, p authz.Principal, userID uuid.UUID) ([]model.UserRole, error)
	AssignRole(ctx context.Context, p authz.Principal, userID uuid.UUID, role model.AppRole) error
	RemoveRole(ctx context.Context, p authz.Principal, userID uuid.UUID, role model.AppRole) error
}

type profileService struct {
	profileRepo repository.ProfileRepository
	roleRepo    repository.RoleRepository
}

// NewProfileService creates a new profile service.
func NewProfileService(profileRepo repository.ProfileRepository, roleRepo repository.RoleRepository) ProfileService {
	return &profileService{profileRepo: profileRepo, roleRepo: roleRepo}
}

// Get returns a profile the caller may read: their own, or any profile
// for admins. For a profile the owner is the profile's own id.
func (s *profileService) Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.Profile, error) {
	decision := authz.Decide(p, authz.TableProfiles, authz.OpSelect, authz.Row{OwnerID: id})
	if !decision.Allowed {
		// Indistinguishable from absence so callers cannot probe for
		// other users' profile ids.
		return nil, apperrors.ErrProfileNotFound
	}

	profile, err := s.profileRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	return profile, nil
}

// Update changes the caller's own profile.
func (s *profileService) Update(ctx context.Context, p authz.Principal, input UpdateProfileInput) (*model.Profile, error) {
	if !p.Authenticated {
		return nil, apperrors.ErrAuthenticationRequired
	}
	decision := authz.Decide(p, authz.TableProfiles, authz.OpUpdate, authz.Row{OwnerID: p.ID})
	if !decision.Allowed {
		return nil, apperrors.ErrForbidden
	}

	profile, err := s.profileRepo.FindByID(ctx, p.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	profile.FullName = input.FullName
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	return profile, nil
}

// Roles lists the roles of a user the caller may inspect: their own, or
// anyone's for admins.
func (s *profileService) Roles(ctx context.Context, p authz.Principal, userID uuid.UUID) ([]model.UserRole, error) {
	decision := authz.Decide(p, authz.TableUserRoles, authz.OpSelect, authz.Row{OwnerID: userID})
	if !decision.Allowed {
		return nil, apperrors.ErrForbidden
	}
	roles, err := s.roleRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	return roles, nil
}

// AssignRole grants a role to a user. Admin only.
func (s *profileService) AssignRole(ctx context.Context, p authz.Principal, userID uuid.UUID, role model.AppRole) error {
	decision := authz.Decide(p, authz.TableUserRoles, authz.OpInsert, authz.Row{OwnerID: userID})
	if !decision.Allowed {
		return apperrors.ErrForbidden
	}

	if _, err := s.profileRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrProfileNotFound
		}
		return fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	if err := s.roleRepo.Assign(ctx, userID, role); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	return nil
}

// RemoveRole revokes a role from a user. Admin only.
func (s *profileService) RemoveRole(ctx context.Context, p authz.Principal, userID uuid.UUID, role model.AppRole) error {
	decision := authz.Decide(p, authz.TableUserRoles, authz.OpDelete, authz.Row{OwnerID: userID})
	if !decision.Allowed {
		return apperrors.ErrForbidden
	}
	if err := s.roleRepo.Remove(ctx, userID, role); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	return nil
}
