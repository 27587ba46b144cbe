package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"user-admin/internal/domain"
)

type RoleRepo struct{ db *gorm.DB }

var _ domain.RoleRepository = (*RoleRepo)(nil)

func NewRoleRepo(db *gorm.DB) *RoleRepo { return &RoleRepo{db: db} }

func (r *RoleRepo) FirstOrCreate(ctx context.Context, name string) (*domain.Role, bool, error) {
	role, err := r.FindByName(ctx, name)
	if err == nil {
		return role, false, nil
	}
	if !errors.Is(err, domain.ErrRoleNotFound) {
		return nil, false, err
	}
	role = &domain.Role{Name: name}
	if err := r.db.WithContext(ctx).Create(role).Error; err != nil {
		// 并发兜底：唯一冲突 → 再查一次
		if isDupKey(err) {
			existing, e2 := r.FindByName(ctx, name)
			if e2 != nil {
				return nil, false, e2
			}
			return existing, false, nil
		}
		return nil, false, err
	}
	return role, true, nil
}

func (r *RoleRepo) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var role domain.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrRoleNotFound
	}
	if err != nil {
		return nil, err
	}
	return &role, nil
}
