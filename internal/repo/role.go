package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/vitikova/user-service/internal/models"
)

func (r *GormRepo) FindRoleByName(ctx context.Context, name models.RoleName) (*models.Role, error) {
	var role models.Role
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &role, nil
}

// ResolveRoles maps role names to their persisted rows. An unknown name
// fails the whole resolution.
func (r *GormRepo) ResolveRoles(ctx context.Context, names []models.RoleName) ([]models.Role, error) {
	roles := make([]models.Role, 0, len(names))
	for _, name := range names {
		role, err := r.FindRoleByName(ctx, name)
		if err != nil {
			return nil, err
		}
		roles = append(roles, *role)
	}
	return roles, nil
}
