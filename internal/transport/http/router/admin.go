package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"user-admin/internal/core/server"
	"user-admin/internal/feature/user"
	"user-admin/internal/transport/http/handler"
	mdw "user-admin/internal/transport/http/middleware"
)

// NewAdminEngine 服务端渲染的管理页：/dashboard/users
func NewAdminEngine(o Options, reg *Registry) (*gin.Engine, error) {
	o = o.withDefaults()
	tpl, err := user.Templates()
	if err != nil {
		return nil, err
	}

	r := server.NewRouter(o.Log, server.Options{CORSOrigins: o.CORSOrigins})
	r.SetHTMLTemplate(tpl)
	r.Use(o.middlewares()...)

	// 健康检查
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, handler.DashboardPath) })

	// 管理页统一要求 admin 角色，失败渲染 403 页
	pages := r.Group("")
	if o.JWT != nil {
		pages.Use(mdw.AuthJWT(o.JWT, o.RequireRole, handler.ForbiddenPage))
	}
	reg.MountPages(pages)
	return r, nil
}
