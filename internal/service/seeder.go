package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"user-admin/internal/domain"
	"user-admin/pkg/utils"
)

const DefaultSeedPassword = "password"

type SeedUser struct {
	Name  string
	Email string
	Role  string
}

// BaselineUsers 初始化的三个账号
var BaselineUsers = []SeedUser{
	{Name: "Admin User", Email: "admin@example.com", Role: domain.RoleAdmin},
	{Name: "Regular User 1", Email: "regular1@example.com", Role: domain.RoleRegular},
	{Name: "Regular User 2", Email: "regular2@example.com", Role: domain.RoleRegular},
}

type SeedReport struct {
	RolesCreated int
	UsersCreated int
	UsersSkipped int
}

// Seeder 幂等：角色按名称、用户按邮箱判重；重复执行不会产生重复记录
type Seeder struct {
	users    domain.UserRepository
	roles    domain.RoleRepository
	password string
	log      *zap.Logger
}

func NewSeeder(users domain.UserRepository, roles domain.RoleRepository, password string, l *zap.Logger) *Seeder {
	if password == "" {
		password = DefaultSeedPassword
	}
	if l == nil {
		l = zap.NewNop()
	}
	return &Seeder{users: users, roles: roles, password: password, log: l}
}

func (s *Seeder) Seed(ctx context.Context) (SeedReport, error) {
	var rep SeedReport

	roles := make(map[string]*domain.Role, len(domain.Roles))
	for _, name := range domain.Roles {
		r, created, err := s.roles.FirstOrCreate(ctx, name)
		if err != nil {
			return rep, fmt.Errorf("seed role %q: %w", name, err)
		}
		if created {
			rep.RolesCreated++
		}
		roles[name] = r
	}

	// 占位密码只哈希一次，三个账号共用
	hash, err := utils.HashPassword(s.password)
	if err != nil {
		return rep, fmt.Errorf("hash seed password: %w", err)
	}

	for _, su := range BaselineUsers {
		role := roles[su.Role]
		existing, err := s.users.FindByEmail(ctx, su.Email)
		switch {
		case err == nil:
			if err := s.users.AttachRole(ctx, existing, role); err != nil {
				return rep, fmt.Errorf("seed user %q: attach role: %w", su.Email, err)
			}
			rep.UsersSkipped++
			continue
		case !errors.Is(err, domain.ErrUserNotFound):
			return rep, fmt.Errorf("seed user %q: %w", su.Email, err)
		}

		u := &domain.User{Name: su.Name, Email: su.Email, PasswordHash: hash}
		if err := s.users.CreateWithRole(ctx, u, role); err != nil {
			if errors.Is(err, domain.ErrEmailTaken) {
				rep.UsersSkipped++
				continue
			}
			return rep, fmt.Errorf("seed user %q: %w", su.Email, err)
		}
		rep.UsersCreated++
		seededUsersTotal.Inc()
	}

	s.log.Info("seed done",
		zap.Int("roles_created", rep.RolesCreated),
		zap.Int("users_created", rep.UsersCreated),
		zap.Int("users_skipped", rep.UsersSkipped),
	)
	return rep, nil
}
