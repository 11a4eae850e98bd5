package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AppRole enumerates the roles a user can hold.
type AppRole string

const (
	RoleAdmin AppRole = "admin"
	RoleUser  AppRole = "user"
)

// UserRole assigns a role to a user. A user may hold several roles but
// each (user, role) pair exists at most once.
type UserRole struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID `json:"user_id" gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_role"`
	Role      AppRole   `json:"role" gorm:"type:varchar(20);not null;uniqueIndex:idx_user_roles_user_role"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName overrides the table name used by GORM.
func (UserRole) TableName() string {
	return "user_roles"
}

// BeforeCreate sets UUID before creating the record.
func (r *UserRole) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
