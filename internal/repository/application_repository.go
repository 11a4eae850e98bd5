package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"licentra/internal/model"
)

// ApplicationRepository defines license-application persistence operations.
// There is deliberately no Delete: applications are kept forever.
type ApplicationRepository interface {
	Create(ctx context.Context, app *model.LicenseApplication) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LicenseApplication, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.LicenseApplication, error)
	List(ctx context.Context, status model.ApplicationStatus) ([]model.LicenseApplication, error)
	UpdateReview(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewerID uuid.UUID, notes string, reviewedAt time.Time) error
}

type applicationRepository struct {
	db *gorm.DB
}

// NewApplicationRepository creates a new application repository.
func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

// Create creates a new application.
func (r *applicationRepository) Create(ctx context.Context, app *model.LicenseApplication) error {
	return r.db.WithContext(ctx).Create(app).Error
}

// FindByID finds an application by ID.
func (r *applicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.LicenseApplication, error) {
	var app model.LicenseApplication
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&app).Error; err != nil {
		return nil, err
	}
	return &app, nil
}

// ListByOwner lists all applications filed by one owner, newest first.
func (r *applicationRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.LicenseApplication, error) {
	var apps []model.LicenseApplication
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// List lists applications, optionally filtered by status, newest first.
func (r *applicationRepository) List(ctx context.Context, status model.ApplicationStatus) ([]model.LicenseApplication, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var apps []model.LicenseApplication
	if err := q.Find(&apps).Error; err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateReview updates the review fields of an application.
func (r *applicationRepository) UpdateReview(ctx context.Context, id uuid.UUID, status model.ApplicationStatus, reviewerID uuid.UUID, notes string, reviewedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&model.LicenseApplication{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":       status,
			"reviewer_id":  reviewerID,
			"review_notes": notes,
			"reviewed_at":  reviewedAt,
		}).Error
}
