package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LicenseStatus represents the stored status of an issued license.
type LicenseStatus string

const (
	LicenseStatusActive    LicenseStatus = "active"
	LicenseStatusExpired   LicenseStatus = "expired"
	LicenseStatusSuspended LicenseStatus = "suspended"
	LicenseStatusRevoked   LicenseStatus = "revoked"
)

// License represents the issued, publicly verifiable credential derived
// from an approved application. Exactly one license exists per application.
type License struct {
	ID            uuid.UUID     `json:"id" gorm:"type:uuid;primaryKey"`
	LicenseNumber string        `json:"license_number" gorm:"uniqueIndex;size:50;not null"`
	LicenseType   string        `json:"license_type" gorm:"size:100;not null"`
	BusinessName  string        `json:"business_name" gorm:"size:255;not null"`
	IssueDate     time.Time     `json:"issue_date" gorm:"not null"`
	ExpiryDate    time.Time     `json:"expiry_date" gorm:"not null;index"`
	Status        LicenseStatus `json:"status" gorm:"type:varchar(20);not null;default:'active';index"`
	IntegrityHash string        `json:"integrity_hash" gorm:"size:64;not null"`
	OwnerID       uuid.UUID     `json:"owner_id" gorm:"type:uuid;not null;index"`
	ApplicationID uuid.UUID     `json:"application_id" gorm:"type:uuid;not null;uniqueIndex"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`

	// Relations
	Owner       Profile            `json:"-" gorm:"foreignKey:OwnerID"`
	Application LicenseApplication `json:"-" gorm:"foreignKey:ApplicationID"`
}

// TableName overrides the table name used by GORM.
func (License) TableName() string {
	return "licenses"
}

// BeforeCreate sets UUID before creating the record.
func (l *License) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// ValidAt reports whether the license is valid at the given instant:
// stored status must be active and the expiry date not yet reached.
func (l *License) ValidAt(now time.Time) bool {
	return l.Status == LicenseStatusActive && now.Before(l.ExpiryDate)
}

// EffectiveStatus recomputes the displayed status: an active license past
// its expiry date is surfaced as expired rather than invalid.
func (l *License) EffectiveStatus(now time.Time) LicenseStatus {
	if l.Status == LicenseStatusActive && !now.Before(l.ExpiryDate) {
		return LicenseStatusExpired
	}
	return l.Status
}
