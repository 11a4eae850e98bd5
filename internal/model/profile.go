package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile represents an authenticated user in the system.
type Profile struct {
	ID           uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey"`
	Email        string         `json:"email" gorm:"uniqueIndex;size:255;not null"`
	FullName     string         `json:"full_name" gorm:"size:255;not null"`
	PasswordHash string         `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`

	// Relations
	Roles []UserRole `json:"roles,omitempty" gorm:"foreignKey:UserID"`
}

// TableName overrides the table name used by GORM.
func (Profile) TableName() string {
	return "profiles"
}

// BeforeCreate sets UUID before creating the record.
func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
