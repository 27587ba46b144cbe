package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"user-admin/internal/core/auth"
	mdw "user-admin/internal/transport/http/middleware"
)

type Options struct {
	Log         *zap.Logger
	JWT         *auth.JWTer // nil 时不鉴权
	RequireRole string      // 鉴权开启时要求的角色
	CORSOrigins []string

	RateRPS       float64
	RateBurst     int
	PerIPRPS      float64
	PerIPBurst    int
	MaxConcurrent int64
	MaxBodyBytes  int64
	Timeout       time.Duration
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.RateRPS <= 0 {
		o.RateRPS, o.RateBurst = 200, 400
	}
	if o.PerIPRPS <= 0 {
		o.PerIPRPS, o.PerIPBurst = 20, 40
	}
	if o.MaxConcurrent <= 0 {
		o.MaxConcurrent = 300
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	return o
}

// 两个 engine 共用的中间件链
func (o Options) middlewares() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		mdw.RequestID(),
		mdw.RateLimit(rate.Limit(o.RateRPS), o.RateBurst),
		mdw.RateLimitPerIP(rate.Limit(o.PerIPRPS), o.PerIPBurst),
		mdw.ConcurrencyLimit(o.MaxConcurrent),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.Timeout),
		mdw.Metrics(),
		mdw.AccessLog(o.Log),
	}
}
