package domain

import (
	"context"
	"time"
)

// 角色名（本模块只用到这两个）
const (
	RoleAdmin   = "admin"
	RoleRegular = "regular"
)

// Roles 合法角色枚举
var Roles = []string{RoleAdmin, RoleRegular}

type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:32;not null" json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Role) TableName() string { return "roles" }

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:64;not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string    `gorm:"size:100;not null" json:"-"`
	Roles        []Role    `gorm:"many2many:user_roles;" json:"roles"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// RoleNames 按角色 ID 顺序返回角色名（无角色时返回空切片而不是 nil）
func (u *User) RoleNames() []string {
	out := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		out = append(out, r.Name)
	}
	return out
}

// HasRole 是否已分配指定角色
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// UserSummary 对外只读投影（不含密码）
type UserSummary struct {
	ID    uint     `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Roles []string `json:"roles"`
}

func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Name: u.Name, Email: u.Email, Roles: u.RoleNames()}
}

// IsValidRole 是否属于角色枚举
func IsValidRole(name string) bool {
	for _, r := range Roles {
		if r == name {
			return true
		}
	}
	return false
}

type UserRepository interface {
	// CreateWithRole 在同一事务里写入用户和角色关联
	CreateWithRole(ctx context.Context, u *User, role *Role) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	Page(ctx context.Context, offset, limit int) ([]User, int64, error)
	Count(ctx context.Context) (int64, error)
	AttachRole(ctx context.Context, u *User, role *Role) error
}

type RoleRepository interface {
	// FirstOrCreate 按名称幂等创建；created 表示本次是否新建
	FirstOrCreate(ctx context.Context, name string) (role *Role, created bool, err error)
	FindByName(ctx context.Context, name string) (*Role, error)
}
