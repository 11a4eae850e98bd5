package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"licentra/internal/model"
)

// ProfileRepository defines profile persistence operations.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	Update(ctx context.Context, profile *model.Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error)
	FindByEmail(ctx context.Context, email string) (*model.Profile, error)
	// Provision creates a profile together with its default role in one
	// transaction, mirroring the creation hook that fires when a new
	// identity first appears.
	Provision(ctx context.Context, profile *model.Profile, role model.AppRole) error
}

type profileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// Create creates a new profile.
func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update updates an existing profile.
func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// FindByID finds a profile by ID.
func (r *profileRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindByEmail finds a profile by email.
func (r *profileRepository) FindByEmail(ctx context.Context, email string) (*model.Profile, error) {
	var profile model.Profile
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// Provision inserts the profile and its default role atomically.
func (r *profileRepository) Provision(ctx context.Context, profile *model.Profile, role model.AppRole) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserRole{UserID: profile.ID, Role: role}).Error
	})
}
