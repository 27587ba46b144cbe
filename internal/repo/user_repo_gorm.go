package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"user-admin/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

// CreateWithRole 用户 + user_roles 一起提交，任一失败整体回滚
func (r *UserRepo) CreateWithRole(ctx context.Context, u *domain.User, role *domain.Role) error {
	if u == nil || role == nil {
		return gorm.ErrInvalidData
	}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Roles").Create(u).Error; err != nil {
			return err
		}
		return tx.Model(u).Association("Roles").Append(role)
	})
	if err != nil {
		u.ID = 0
		u.Roles = nil
		if isDupKey(err) {
			return domain.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).Preload("Roles", orderByID).Where("email = ?", email).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Page 按创建顺序（自增 ID 升序）分页
func (r *UserRepo) Page(ctx context.Context, offset, limit int) ([]domain.User, int64, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}
	users := make([]domain.User, 0, limit)
	if offset < 0 || int64(offset) >= total {
		return users, total, nil
	}
	err = r.db.WithContext(ctx).
		Preload("Roles", orderByID).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&domain.User{}).Count(&total).Error
	return total, err
}

// AttachRole 已有角色则跳过
func (r *UserRepo) AttachRole(ctx context.Context, u *domain.User, role *domain.Role) error {
	if u.HasRole(role.Name) {
		return nil
	}
	if err := r.db.WithContext(ctx).Model(u).Association("Roles").Append(role); err != nil {
		return err
	}
	return nil
}

func orderByID(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }

func isDupKey(err error) bool { return errors.Is(err, gorm.ErrDuplicatedKey) }
