package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"licentra/internal/model"
)

// RoleRepository defines role persistence operations.
type RoleRepository interface {
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.UserRole, error)
	Assign(ctx context.Context, userID uuid.UUID, role model.AppRole) error
	Remove(ctx context.Context, userID uuid.UUID, role model.AppRole) error
}

type roleRepository struct {
	db *gorm.DB
}

// NewRoleRepository creates a new role repository.
func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

// ListByUserID lists all roles assigned to a user.
func (r *roleRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]model.UserRole, error) {
	var roles []model.UserRole
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

// Assign grants a role to a user. Assigning an already-held role is a no-op.
func (r *roleRepository) Assign(ctx context.Context, userID uuid.UUID, role model.AppRole) error {
	assignment := model.UserRole{UserID: userID, Role: role}
	err := r.db.WithContext(ctx).Create(&assignment).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil
	}
	return err
}

// Remove revokes a role from a user.
func (r *roleRepository) Remove(ctx context.Context, userID uuid.UUID, role model.AppRole) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND role = ?", userID, role).
		Delete(&model.UserRole{}).Error
}
