package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"licentra/internal/authz"
	apperrors "licentra/internal/errors"
	"licentra/internal/model"
)

func validInput() SubmitApplicationInput {
	return SubmitApplicationInput{
		LicenseType:         "retail",
		BusinessName:        "Corner Shop",
		RegistrationNumber:  "REG-4432",
		BusinessAddress:     "12 Main Street, Springfield",
		ContactPerson:       "Sam Doe",
		ContactEmail:        "sam@cornershop.example",
		PhoneNumber:         "+15550001234",
		BusinessType:        "sole_proprietor",
		BusinessDescription: "A neighborhood shop selling groceries and household goods.",
	}
}

func authenticated(id uuid.UUID) authz.Principal {
	return authz.Principal{ID: id, Roles: []model.AppRole{model.RoleUser}, Authenticated: true}
}

func adminOf(id uuid.UUID) authz.Principal {
	return authz.Principal{ID: id, Roles: []model.AppRole{model.RoleAdmin}, Authenticated: true}
}

func TestSubmitRequiresAuthentication(t *testing.T) {
	appRepo := new(MockApplicationRepository)
	svc := NewApplicationService(appRepo)

	_, err := svc.Submit(context.Background(), authz.Anonymous(), validInput())

	assert.ErrorIs(t, err, apperrors.ErrAuthenticationRequired)
	appRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitStoresPendingOwnedByCaller(t *testing.T) {
	ownerID := uuid.New()
	appRepo := new(MockApplicationRepository)
	appRepo.On("Create", mock.Anything, mock.AnythingOfType("*model.LicenseApplication")).Return(nil)
	svc := NewApplicationService(appRepo)

	app, err := svc.Submit(context.Background(), authenticated(ownerID), validInput())

	assert.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusPending, app.Status)
	assert.Equal(t, ownerID, app.OwnerID)
	assert.Empty(t, app.ReviewNotes)
	assert.Nil(t, app.ReviewedAt)
}

func TestSubmitStoreErrorSurfacesAsStoreOperationFailure(t *testing.T) {
	appRepo := new(MockApplicationRepository)
	appRepo.On("Create", mock.Anything, mock.Anything).Return(gorm.ErrInvalidData)
	svc := NewApplicationService(appRepo)

	_, err := svc.Submit(context.Background(), authenticated(uuid.New()), validInput())

	assert.ErrorIs(t, err, apperrors.ErrStoreOperation)
}

func TestGetHidesOtherOwnersApplications(t *testing.T) {
	owner := uuid.New()
	stranger := uuid.New()
	stored := &model.LicenseApplication{ID: uuid.New(), OwnerID: owner, Status: model.ApplicationStatusPending}

	appRepo := new(MockApplicationRepository)
	appRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	svc := NewApplicationService(appRepo)

	_, err := svc.Get(context.Background(), authenticated(stranger), stored.ID)

	// Same error as a genuine miss so ids cannot be probed.
	assert.ErrorIs(t, err, apperrors.ErrApplicationNotFound)
}

func TestGetReturnsOwnApplication(t *testing.T) {
	owner := uuid.New()
	stored := &model.LicenseApplication{ID: uuid.New(), OwnerID: owner, Status: model.ApplicationStatusPending}

	appRepo := new(MockApplicationRepository)
	appRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	svc := NewApplicationService(appRepo)

	app, err := svc.Get(context.Background(), authenticated(owner), stored.ID)

	assert.NoError(t, err)
	assert.Equal(t, stored, app)
}

func TestListRequiresAdmin(t *testing.T) {
	appRepo := new(MockApplicationRepository)
	svc := NewApplicationService(appRepo)

	_, err := svc.List(context.Background(), authenticated(uuid.New()), "")
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	appRepo.On("List", mock.Anything, model.ApplicationStatusPending).Return([]model.LicenseApplication{}, nil)
	_, err = svc.List(context.Background(), adminOf(uuid.New()), model.ApplicationStatusPending)
	assert.NoError(t, err)
}

func TestReviewRecordsDecision(t *testing.T) {
	reviewer := uuid.New()
	stored := &model.LicenseApplication{ID: uuid.New(), OwnerID: uuid.New(), Status: model.ApplicationStatusPending}

	appRepo := new(MockApplicationRepository)
	appRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	appRepo.On("UpdateReview", mock.Anything, stored.ID, model.ApplicationStatusApproved, reviewer, "all documents in order", mock.AnythingOfType("time.Time")).Return(nil)
	svc := NewApplicationService(appRepo)

	app, err := svc.Review(context.Background(), adminOf(reviewer), stored.ID, model.ApplicationStatusApproved, "all documents in order")

	assert.NoError(t, err)
	assert.Equal(t, model.ApplicationStatusApproved, app.Status)
	assert.Equal(t, reviewer, *app.ReviewerID)
	assert.Equal(t, "all documents in order", app.ReviewNotes)
	assert.WithinDuration(t, time.Now().UTC(), *app.ReviewedAt, time.Minute)
	appRepo.AssertExpectations(t)
}

func TestReviewDeniedForNonAdmin(t *testing.T) {
	owner := uuid.New()
	stored := &model.LicenseApplication{ID: uuid.New(), OwnerID: owner, Status: model.ApplicationStatusPending}

	appRepo := new(MockApplicationRepository)
	appRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)
	svc := NewApplicationService(appRepo)

	// Not even the owner may review their own application.
	_, err := svc.Review(context.Background(), authenticated(owner), stored.ID, model.ApplicationStatusApproved, "")

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	appRepo.AssertNotCalled(t, "UpdateReview", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReviewRejectsBadTransitions(t *testing.T) {
	appRepo := new(MockApplicationRepository)
	svc := NewApplicationService(appRepo)
	admin := adminOf(uuid.New())

	t.Run("pending is not a review target", func(t *testing.T) {
		stored := &model.LicenseApplication{ID: uuid.New(), OwnerID: uuid.New(), Status: model.ApplicationStatusInReview}
		appRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

		_, err := svc.Review(context.Background(), admin, stored.ID, model.ApplicationStatusPending, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	})

	t.Run("terminal states are immutable", func(t *testing.T) {
		stored := &model.LicenseApplication{ID: uuid.New(), OwnerID: uuid.New(), Status: model.ApplicationStatusRejected}
		appRepo.On("FindByID", mock.Anything, stored.ID).Return(stored, nil)

		_, err := svc.Review(context.Background(), admin, stored.ID, model.ApplicationStatusApproved, "")
		assert.ErrorIs(t, err, apperrors.ErrInvalidStatusTransition)
	})
}
