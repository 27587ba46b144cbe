package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"user-admin/internal/core/auth"
	resp "user-admin/internal/transport/http/response"
)

// CookieToken 页面请求从该 cookie 读取 token
const CookieToken = "access_token"

// DenyFunc 鉴权失败时的输出方式；JSON 接口用默认值，页面可渲染 403 页
type DenyFunc func(c *gin.Context, code int, msg string)

func denyJSON(c *gin.Context, code int, msg string) { resp.Abort(c, code, msg) }

func AuthJWT(j *auth.JWTer, requireRole string, deny DenyFunc) gin.HandlerFunc {
	if deny == nil {
		deny = denyJSON
	}
	return func(c *gin.Context) {
		tok := bearer(c)
		if tok == "" {
			deny(c, resp.CodeUnauthorized, "missing token")
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			deny(c, resp.CodeUnauthorized, "invalid token")
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			deny(c, resp.CodeForbidden, "")
			return
		}
		c.Set("claims", claims)
		c.Set("userId", claims.UID)
		c.Set("role", claims.Role)
		c.Next()
	}
}

func bearer(c *gin.Context) string {
	if ah := c.GetHeader("Authorization"); strings.HasPrefix(ah, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer "))
	}
	if v, err := c.Cookie(CookieToken); err == nil {
		return v
	}
	return ""
}
