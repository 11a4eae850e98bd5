package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"licentra/internal/model"
)

// LicenseRepository defines license persistence operations.
type LicenseRepository interface {
	Create(ctx context.Context, license *model.License) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.License, error)
	// FindByNumberProjected selects only the given columns for a license,
	// so unauthenticated verification never reads redacted fields out of
	// the store in the first place.
	FindByNumberProjected(ctx context.Context, number string, columns []string) (*model.License, error)
	FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.License, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.License, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.LicenseStatus) error
}

type licenseRepository struct {
	db *gorm.DB
}

// NewLicenseRepository creates a new license repository.
func NewLicenseRepository(db *gorm.DB) LicenseRepository {
	return &licenseRepository{db: db}
}

// Create creates a new license. A duplicate license_number or a second
// license for the same application fails on the unique indexes.
func (r *licenseRepository) Create(ctx context.Context, license *model.License) error {
	return r.db.WithContext(ctx).Create(license).Error
}

// FindByID finds a license by ID.
func (r *licenseRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.License, error) {
	var license model.License
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

// FindByNumberProjected finds a license by number selecting only the
// permitted columns; everything else stays zero-valued.
func (r *licenseRepository) FindByNumberProjected(ctx context.Context, number string, columns []string) (*model.License, error) {
	var license model.License
	if err := r.db.WithContext(ctx).
		Select(columns).
		Where("license_number = ?", number).
		First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

// FindByApplicationID finds the license issued from an application.
func (r *licenseRepository) FindByApplicationID(ctx context.Context, applicationID uuid.UUID) (*model.License, error) {
	var license model.License
	if err := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&license).Error; err != nil {
		return nil, err
	}
	return &license, nil
}

// ListByOwner lists all licenses held by one owner, newest first.
func (r *licenseRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.License, error) {
	var licenses []model.License
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("issue_date DESC").
		Find(&licenses).Error; err != nil {
		return nil, err
	}
	return licenses, nil
}

// UpdateStatus updates the stored status of a license.
func (r *licenseRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status model.LicenseStatus) error {
	return r.db.WithContext(ctx).Model(&model.License{}).
		Where("id = ?", id).
		Update("status", status).Error
}
