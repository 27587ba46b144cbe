// Package ez 一行注册 JSON 动作：绑定入参 → 调用 → 统一错误映射
package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"user-admin/internal/domain"
	resp "user-admin/internal/transport/http/response"
)

type EZ struct {
	g   *gin.RouterGroup
	log *zap.Logger
}

func New(g *gin.RouterGroup, l *zap.Logger) EZ {
	if l == nil {
		l = zap.NewNop()
	}
	return EZ{g: g, log: l}
}

// 绑定方式
type Binder string

const (
	BindJSON  Binder = "json"  // 从 JSON 绑定
	BindQuery Binder = "query" // 从 URL ?a=b 绑定
	BindNone  Binder = "none"  // 不绑定，自己从 c.Param / c.Query 取
)

// 统一错误对象
type AErr struct {
	Code int
	Msg  string
	Err  error
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string) error { return &AErr{Code: http.StatusBadRequest, Msg: msg} }
func NotFound(msg string) error   { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// 动作定义：I 入参，O 出参；鉴权由路由组上的中间件负责
type Action[I any, O any] struct {
	Method  string // "GET" | "POST"
	Path    string // 例："/users"
	Binder  Binder // 绑定方式
	Status  int    // 成功状态码，默认 200
	Handler func(c *gin.Context, in *I) (O, error)
}

// Register 在当前 EZ 下注册动作接口
func Register[I any, O any](e EZ, a Action[I, O]) {
	status := a.Status
	if status == 0 {
		status = http.StatusOK
	}
	h := func(c *gin.Context) {
		// 1) 绑定入参
		var in I
		var bindErr error
		switch a.Binder {
		case BindJSON:
			bindErr = c.ShouldBindJSON(&in)
		case BindQuery:
			bindErr = c.ShouldBindQuery(&in)
		default: // BindNone: 不绑定
		}
		if bindErr != nil {
			var mbe *http.MaxBytesError
			if errors.As(bindErr, &mbe) {
				resp.Abort(c, resp.CodeRequestTooLarge, "")
				return
			}
			resp.Abort(c, resp.CodeBadRequest, "The request body is malformed.")
			return
		}

		// 2) 执行 + 统一错误映射
		out, err := a.Handler(c, &in)
		if err != nil {
			e.fail(c, err)
			return
		}
		c.JSON(status, out)
	}

	if strings.EqualFold(a.Method, http.MethodGet) {
		e.g.GET(a.Path, h)
		return
	}
	e.g.POST(a.Path, h)
}

func (e EZ) fail(c *gin.Context, err error) {
	var ve *domain.ValidationError
	var ae *AErr
	switch {
	case errors.As(err, &ve):
		c.AbortWithStatusJSON(resp.CodeUnprocessable, resp.Validation(ve.Field, ve.Message))
	case errors.As(err, &ae):
		if ae.Code >= http.StatusInternalServerError {
			e.log.Error("action failed", zap.String("path", c.FullPath()), zap.Error(err))
			resp.Abort(c, ae.Code, "")
			return
		}
		resp.Abort(c, ae.Code, ae.Msg)
	case errors.Is(err, domain.ErrInvalidPage):
		resp.Abort(c, resp.CodeBadRequest, PageMessage)
	default:
		// 原因只写日志，不回给调用方
		e.log.Error("action failed", zap.String("path", c.FullPath()), zap.Error(err))
		resp.Abort(c, resp.CodeServerError, "")
	}
}

// PageMessage page 参数非法时的提示
const PageMessage = "The page must be a positive integer."
