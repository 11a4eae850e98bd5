package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"licentra/internal/authz"
	apperrors "licentra/internal/errors"
	"licentra/internal/model"
	"licentra/internal/repository"
)

// SubmitApplicationInput carries the fields of a new license application.
// Field constraints are enforced at the HTTP boundary before the input
// reaches this service.
type SubmitApplicationInput struct {
	LicenseType         string
	BusinessName        string
	RegistrationNumber  string
	BusinessAddress     string
	ContactPerson       string
	ContactEmail        string
	PhoneNumber         string
	BusinessType        string
	BusinessDescription string
}

// ApplicationService handles license-application intake and review.
type ApplicationService interface {
	Submit(ctx context.Context, p authz.Principal, input SubmitApplicationInput) (*model.LicenseApplication, error)
	Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.LicenseApplication, error)
	ListOwn(ctx context.Context, p authz.Principal) ([]model.LicenseApplication, error)
	List(ctx context.Context, p authz.Principal, status model.ApplicationStatus) ([]model.LicenseApplication, error)
	Review(ctx context.Context, p authz.Principal, id uuid.UUID, status model.ApplicationStatus, notes string) (*model.LicenseApplication, error)
}

type applicationService struct {
	appRepo repository.ApplicationRepository
}

// NewApplicationService creates a new application service.
func NewApplicationService(appRepo repository.ApplicationRepository) ApplicationService {
	return &applicationService{appRepo: appRepo}
}

// Submit stores a new application owned by the caller. Status is always
// pending regardless of anything the client sent.
func (s *applicationService) Submit(ctx context.Context, p authz.Principal, input SubmitApplicationInput) (*model.LicenseApplication, error) {
	if !p.Authenticated {
		return nil, apperrors.ErrAuthenticationRequired
	}
	decision := authz.Decide(p, authz.TableApplications, authz.OpInsert, authz.Row{OwnerID: p.ID})
	if !decision.Allowed {
		return nil, apperrors.ErrForbidden
	}

	app := &model.LicenseApplication{
		OwnerID:             p.ID,
		LicenseType:         input.LicenseType,
		BusinessName:        input.BusinessName,
		RegistrationNumber:  input.RegistrationNumber,
		BusinessAddress:     input.BusinessAddress,
		ContactPerson:       input.ContactPerson,
		ContactEmail:        input.ContactEmail,
		PhoneNumber:         input.PhoneNumber,
		BusinessType:        input.BusinessType,
		BusinessDescription: input.BusinessDescription,
		Status:              model.ApplicationStatusPending,
	}

	if err := s.appRepo.Create(ctx, app); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	return app, nil
}

// Get returns one application if the caller may read it.
func (s *applicationService) Get(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.LicenseApplication, error) {
	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	decision := authz.Decide(p, authz.TableApplications, authz.OpSelect, authz.Row{OwnerID: app.OwnerID})
	if !decision.Allowed {
		// Indistinguishable from absence so callers cannot probe for
		// other users' application ids.
		return nil, apperrors.ErrApplicationNotFound
	}
	return app, nil
}

// ListOwn lists the caller's own applications.
func (s *applicationService) ListOwn(ctx context.Context, p authz.Principal) ([]model.LicenseApplication, error) {
	if !p.Authenticated {
		return nil, apperrors.ErrAuthenticationRequired
	}
	apps, err := s.appRepo.ListByOwner(ctx, p.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	return apps, nil
}

// List lists all applications, optionally filtered by status. Admin only.
func (s *applicationService) List(ctx context.Context, p authz.Principal, status model.ApplicationStatus) ([]model.LicenseApplication, error) {
	decision := authz.Decide(p, authz.TableApplications, authz.OpSelect, authz.Row{})
	if !decision.Allowed {
		return nil, apperrors.ErrForbidden
	}
	apps, err := s.appRepo.List(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}
	return apps, nil
}

// Review moves an application to in_review, approved, or rejected and
// records who decided, when, and why. Terminal states are immutable.
func (s *applicationService) Review(ctx context.Context, p authz.Principal, id uuid.UUID, status model.ApplicationStatus, notes string) (*model.LicenseApplication, error) {
	app, err := s.appRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	decision := authz.Decide(p, authz.TableApplications, authz.OpUpdate, authz.Row{OwnerID: app.OwnerID})
	if !decision.Allowed {
		return nil, apperrors.ErrForbidden
	}

	if !isReviewTarget(status) || app.Terminal() {
		return nil, apperrors.ErrInvalidStatusTransition
	}

	now := time.Now().UTC()
	if err := s.appRepo.UpdateReview(ctx, app.ID, status, p.ID, notes, now); err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStoreOperation, err)
	}

	app.Status = status
	app.ReviewerID = &p.ID
	app.ReviewNotes = notes
	app.ReviewedAt = &now
	return app, nil
}

func isReviewTarget(status model.ApplicationStatus) bool {
	switch status {
	case model.ApplicationStatusInReview, model.ApplicationStatusApproved, model.ApplicationStatusRejected:
		return true
	}
	return false
}
