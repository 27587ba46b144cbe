package response

import (
	"github.com/gin-gonic/gin"
)

// Body 错误响应统一结构：{ "message": ..., "errors": { field: [msg] } }
type Body struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// Error 失败响应（可以传自定义 msg 覆盖默认）
func Error(code int, customMsg string) Body {
	msg := CodeMsgMap[code]
	if customMsg != "" {
		msg = customMsg
	}
	return Body{Message: msg}
}

// Validation 422 响应；message 与字段错误一致，前端直接展示
func Validation(field, msg string) Body {
	return Body{Message: msg, Errors: map[string][]string{field: {msg}}}
}

// Abort 写状态码 + 错误体并中断后续 handler
func Abort(c *gin.Context, code int, customMsg string) {
	c.AbortWithStatusJSON(code, Error(code, customMsg))
}
