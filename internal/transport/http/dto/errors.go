package dto

import (
	"errors"
	"fmt"
)

// ErrNetwork 请求没有拿到响应（连接失败、超时等）
var ErrNetwork = errors.New("network error")

// APIError 服务端返回了非 2xx
type APIError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}
