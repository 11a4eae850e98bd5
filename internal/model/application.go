package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApplicationStatus represents the review status of a license application.
type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusInReview ApplicationStatus = "in_review"
	ApplicationStatusApproved ApplicationStatus = "approved"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// LicenseApplication represents a user's request for a business license,
// pending administrative review.
type LicenseApplication struct {
	ID                  uuid.UUID         `json:"id" gorm:"type:uuid;primaryKey"`
	OwnerID             uuid.UUID         `json:"owner_id" gorm:"type:uuid;not null;index"`
	LicenseType         string            `json:"license_type" gorm:"size:100;not null"`
	BusinessName        string            `json:"business_name" gorm:"size:255;not null"`
	RegistrationNumber  string            `json:"registration_number" gorm:"size:100;not null"`
	BusinessAddress     string            `json:"business_address" gorm:"type:text;not null"`
	ContactPerson       string            `json:"contact_person" gorm:"size:255;not null"`
	ContactEmail        string            `json:"contact_email" gorm:"size:255;not null"`
	PhoneNumber         string            `json:"phone_number" gorm:"size:20;not null"`
	BusinessType        string            `json:"business_type" gorm:"size:100;not null"`
	BusinessDescription string            `json:"business_description" gorm:"type:text;not null"`
	Status              ApplicationStatus `json:"status" gorm:"type:varchar(20);not null;default:'pending';index"`
	ReviewerID          *uuid.UUID        `json:"reviewer_id,omitempty" gorm:"type:uuid"`
	ReviewNotes         string            `json:"review_notes,omitempty" gorm:"type:text"`
	ReviewedAt          *time.Time        `json:"reviewed_at,omitempty"`
	CreatedAt           time.Time         `json:"created_at"`
	UpdatedAt           time.Time         `json:"updated_at"`

	// Relations
	Owner Profile `json:"-" gorm:"foreignKey:OwnerID"`
}

// TableName overrides the table name used by GORM.
func (LicenseApplication) TableName() string {
	return "license_applications"
}

// BeforeCreate sets UUID before creating the record.
func (a *LicenseApplication) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// Terminal reports whether the application reached a final review state.
func (a *LicenseApplication) Terminal() bool {
	return a.Status == ApplicationStatusApproved || a.Status == ApplicationStatusRejected
}
