package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"user-admin/internal/core/cache"
	"user-admin/internal/core/pagination"
	"user-admin/internal/domain"
	"user-admin/pkg/utils"
)

const (
	DefaultPerPage = 10
	cacheNS        = "users"
)

// ListCache 列表页缓存；创建用户后 Bump 使旧页失效
type ListCache interface {
	cache.Loader
	Generation(ctx context.Context, ns string) (int64, error)
	Bump(ctx context.Context, ns string) error
}

type Options struct {
	PerPage  int
	CacheTTL time.Duration
	Cache    ListCache // 可为 nil
	Logger   *zap.Logger
}

type UserService struct {
	users   domain.UserRepository
	roles   domain.RoleRepository
	v       *inputValidator
	perPage int
	ttl     time.Duration
	cache   ListCache
	log     *zap.Logger
}

func NewUserService(users domain.UserRepository, roles domain.RoleRepository, o Options) *UserService {
	if o.PerPage <= 0 {
		o.PerPage = DefaultPerPage
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = time.Minute
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
	return &UserService{
		users:   users,
		roles:   roles,
		v:       newInputValidator(),
		perPage: o.PerPage,
		ttl:     o.CacheTTL,
		cache:   o.Cache,
		log:     o.Logger,
	}
}

func (s *UserService) PerPage() int { return s.perPage }

// UserPage 一页数据 + 分页所需的原始数字
type UserPage struct {
	Users   []domain.UserSummary `json:"users"`
	Total   int64                `json:"total"`
	Page    int                  `json:"page"`
	PerPage int                  `json:"perPage"`
}

func (p UserPage) LastPage() int { return pagination.LastPage(p.Total, p.PerPage) }

// ListUsers page 必须 >= 1；超过最后一页返回空数据而不是错误
func (s *UserService) ListUsers(ctx context.Context, page int) (UserPage, error) {
	if page < 1 {
		return UserPage{}, domain.ErrInvalidPage
	}
	load := func(ctx context.Context) (UserPage, error) { return s.loadPage(ctx, page) }
	if s.cache == nil {
		return load(ctx)
	}

	gen, err := s.cache.Generation(ctx, cacheNS)
	if err != nil {
		s.log.Warn("users cache unavailable", zap.Error(err))
		return load(ctx)
	}
	key := cache.GenKey(cacheNS, gen, "p"+strconv.Itoa(page)+":n"+strconv.Itoa(s.perPage))
	return cache.LoadJSON(ctx, s.cache, key, s.ttl, load)
}

func (s *UserService) loadPage(ctx context.Context, page int) (UserPage, error) {
	if pagination.OffsetOverflows(page, s.perPage) {
		total, err := s.users.Count(ctx)
		if err != nil {
			return UserPage{}, err
		}
		return UserPage{Users: []domain.UserSummary{}, Total: total, Page: page, PerPage: s.perPage}, nil
	}
	users, total, err := s.users.Page(ctx, pagination.Offset(page, s.perPage), s.perPage)
	if err != nil {
		return UserPage{}, err
	}
	out := UserPage{
		Users:   make([]domain.UserSummary, 0, len(users)),
		Total:   total,
		Page:    page,
		PerPage: s.perPage,
	}
	for i := range users {
		out.Users = append(out.Users, users[i].Summary())
	}
	return out, nil
}

type CreateUserInput struct {
	Name                 string `json:"name"                  validate:"required,max=64"`
	Email                string `json:"email"                 validate:"required,email,max=191"`
	Password             string `json:"password"              validate:"required,maxbytes=72"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required"`
	Role                 string `json:"role"                  validate:"omitempty,oneof=admin regular"`
}

// CreateUser 校验顺序：必填 → 邮箱格式/唯一 → 确认密码 → 角色
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (domain.UserSummary, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Role = strings.TrimSpace(in.Role)

	fieldErrs := s.v.check(in)
	if ve := fieldErrs.first(stageRequired); ve != nil {
		return domain.UserSummary{}, ve
	}
	if ve := fieldErrs.first(stageFormat); ve != nil {
		return domain.UserSummary{}, ve
	}
	if _, err := s.users.FindByEmail(ctx, in.Email); err == nil {
		return domain.UserSummary{}, emailTaken()
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return domain.UserSummary{}, err
	}
	if in.Password != in.PasswordConfirmation {
		return domain.UserSummary{}, domain.NewValidationError("password", "The password field confirmation does not match.")
	}
	if ve := fieldErrs.first(stageRole); ve != nil {
		return domain.UserSummary{}, ve
	}
	if in.Role == "" {
		in.Role = domain.RoleRegular
	}

	role, _, err := s.roles.FirstOrCreate(ctx, in.Role)
	if err != nil {
		return domain.UserSummary{}, err
	}
	hash, err := utils.HashPassword(in.Password)
	if err != nil {
		return domain.UserSummary{}, err
	}
	u := &domain.User{Name: in.Name, Email: in.Email, PasswordHash: hash}
	if err := s.users.CreateWithRole(ctx, u, role); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return domain.UserSummary{}, emailTaken()
		}
		return domain.UserSummary{}, err
	}

	usersCreatedTotal.WithLabelValues(role.Name).Inc()
	s.log.Info("user created", zap.Uint("id", u.ID), zap.String("role", role.Name))
	if err := s.InvalidateList(ctx); err != nil {
		s.log.Warn("users cache bump failed", zap.Error(err))
	}
	return u.Summary(), nil
}

// FindByEmail 不经过缓存
func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, strings.TrimSpace(email))
}

// InvalidateList 让已缓存的列表页全部失效；未配置缓存时为 no-op
func (s *UserService) InvalidateList(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Bump(ctx, cacheNS)
}

func emailTaken() *domain.ValidationError {
	return &domain.ValidationError{Field: "email", Message: "The email has already been taken.", Err: domain.ErrEmailTaken}
}
