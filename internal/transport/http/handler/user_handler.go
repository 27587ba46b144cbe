package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-admin/internal/domain"
	"user-admin/internal/service"
	"user-admin/internal/transport/http/dto"
	"user-admin/internal/transport/http/ez"
)

// UserService handler 依赖的业务能力
type UserService interface {
	ListUsers(ctx context.Context, page int) (service.UserPage, error)
	CreateUser(ctx context.Context, in service.CreateUserInput) (domain.UserSummary, error)
}

type UserHandler struct {
	svc UserService
	log *zap.Logger
}

func NewUserHandler(svc UserService, l *zap.Logger) *UserHandler {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserHandler{svc: svc, log: l}
}

type listQuery struct {
	Page string `form:"page"`
}

// MountAPI GET /users, POST /users
func (h *UserHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g, h.log)

	ez.Register(e, ez.Action[listQuery, dto.ListUsersResponse]{
		Method: http.MethodGet,
		Path:   "/users",
		Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *listQuery) (dto.ListUsersResponse, error) {
			page, err := ParsePage(in.Page)
			if err != nil {
				return dto.ListUsersResponse{}, err
			}
			p, err := h.svc.ListUsers(c.Request.Context(), page)
			if err != nil {
				return dto.ListUsersResponse{}, err
			}
			return dto.NewListUsersResponse(requestURL(c), p.Page, p.PerPage, p.Total, p.Users), nil
		},
	})

	ez.Register(e, ez.Action[dto.CreateUserRequest, domain.UserSummary]{
		Method: http.MethodPost,
		Path:   "/users",
		Binder: ez.BindJSON,
		Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *dto.CreateUserRequest) (domain.UserSummary, error) {
			return h.svc.CreateUser(c.Request.Context(), createInput(*in))
		},
	})
}

// ParsePage 缺省为 1；非数字或 < 1 返回 400
func ParsePage(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, ez.BadRequest(ez.PageMessage)
	}
	return n, nil
}

func createInput(r dto.CreateUserRequest) service.CreateUserInput {
	return service.CreateUserInput{
		Name:                 r.Name,
		Email:                r.Email,
		Password:             r.Password,
		PasswordConfirmation: r.PasswordConfirmation,
		Role:                 r.Role,
	}
}

// requestURL 不含 query 的完整地址，用于分页链接
func requestURL(c *gin.Context) string {
	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if p := c.GetHeader("X-Forwarded-Proto"); p != "" {
		scheme = p
	}
	return scheme + "://" + c.Request.Host + c.Request.URL.Path
}
