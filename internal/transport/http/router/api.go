package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"user-admin/internal/core/server"
	mdw "user-admin/internal/transport/http/middleware"
)

// NewAPIEngine JSON 接口：/users、/health、/metrics
func NewAPIEngine(o Options, reg *Registry) *gin.Engine {
	o = o.withDefaults()
	r := server.NewRouter(o.Log, server.Options{CORSOrigins: o.CORSOrigins})
	r.Use(o.middlewares()...)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("")
	if o.JWT != nil {
		api.Use(mdw.AuthJWT(o.JWT, o.RequireRole, nil))
	}
	reg.MountAPI(api)
	return r
}
