package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-admin/internal/domain"
	"user-admin/internal/feature/user"
	"user-admin/internal/transport/http/dto"
	"user-admin/internal/transport/http/ez"
	resp "user-admin/internal/transport/http/response"
)

const DashboardPath = "/dashboard/users"

// UserPages 服务端渲染的用户管理页；组件直接调用进程内 service
type UserPages struct {
	api serviceAPI
	log *zap.Logger
}

func NewUserPages(svc UserService, l *zap.Logger) *UserPages {
	if l == nil {
		l = zap.NewNop()
	}
	return &UserPages{api: serviceAPI{svc: svc, path: DashboardPath, log: l}, log: l}
}

func (p *UserPages) MountPages(g *gin.RouterGroup) {
	g.GET(DashboardPath, p.list)
	g.POST(DashboardPath, p.create)
}

// GET /dashboard/users?page=n[&modal=open]
func (p *UserPages) list(c *gin.Context) {
	ctx := c.Request.Context()
	v := user.NewListView(p.api)
	if c.Query("modal") == "open" {
		v.OpenModal()
	}
	if err := v.Load(ctx, pageOrFirst(c.Query("page"))); err != nil {
		p.log.Warn("dashboard list failed", zap.Error(err))
	}
	c.HTML(http.StatusOK, user.TemplateUsers, user.NewPageData(DashboardPath, v.Snapshot()))
}

// POST /dashboard/users 提交新增弹窗
func (p *UserPages) create(c *gin.Context) {
	ctx := c.Request.Context()
	var in dto.CreateUserRequest
	// 缺字段交给表单校验提示；只有超限的请求体直接拒绝
	if err := c.ShouldBind(&in); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			resp.Abort(c, resp.CodeRequestTooLarge, "")
			return
		}
	}

	v := user.NewListView(p.api)
	if err := v.Load(ctx, pageOrFirst(c.PostForm("page"))); err != nil {
		p.log.Warn("dashboard list failed", zap.Error(err))
	}
	v.OpenModal()
	v.Form().Set(user.Fields{
		Name:                 in.Name,
		Email:                in.Email,
		Password:             in.Password,
		PasswordConfirmation: in.PasswordConfirmation,
		Role:                 in.Role,
	})

	status := http.StatusOK
	if _, err := v.Form().Submit(ctx); err != nil {
		status = http.StatusUnprocessableEntity
	}
	c.HTML(status, user.TemplateUsers, user.NewPageData(DashboardPath, v.Snapshot()))
}

// ForbiddenPage 页面鉴权失败时渲染 403
func ForbiddenPage(c *gin.Context, _ int, _ string) {
	c.HTML(http.StatusForbidden, user.TemplateForbidden, nil)
	c.Abort()
}

// 页面上的 page 参数非法时回到第 1 页
func pageOrFirst(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// serviceAPI 把 service 适配成组件使用的 API，错误翻译成与 HTTP 客户端一致的 dto.APIError
type serviceAPI struct {
	svc  UserService
	path string
	log  *zap.Logger
}

func (a serviceAPI) ListUsers(ctx context.Context, page int) (*dto.ListUsersResponse, error) {
	pg, err := a.svc.ListUsers(ctx, page)
	if err != nil {
		return nil, translate(err, a.log)
	}
	res := dto.NewListUsersResponse(a.path, pg.Page, pg.PerPage, pg.Total, pg.Users)
	return &res, nil
}

func (a serviceAPI) CreateUser(ctx context.Context, req dto.CreateUserRequest) (domain.UserSummary, error) {
	u, err := a.svc.CreateUser(ctx, createInput(req))
	if err != nil {
		return domain.UserSummary{}, translate(err, a.log)
	}
	return u, nil
}

func translate(err error, l *zap.Logger) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return &dto.APIError{
			Status:  http.StatusUnprocessableEntity,
			Message: ve.Message,
			Errors:  map[string][]string{ve.Field: {ve.Message}},
		}
	case errors.Is(err, domain.ErrInvalidPage):
		return &dto.APIError{Status: http.StatusBadRequest, Message: ez.PageMessage}
	default:
		l.Error("dashboard service call failed", zap.Error(err))
		return &dto.APIError{Status: http.StatusInternalServerError}
	}
}
