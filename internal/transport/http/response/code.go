package response

import "net/http"

// 直接使用 HTTP 状态码，message 为空时用默认文案
const (
	CodeBadRequest         = http.StatusBadRequest
	CodeUnauthorized       = http.StatusUnauthorized
	CodeForbidden          = http.StatusForbidden
	CodeNotFound           = http.StatusNotFound
	CodeRequestTooLarge    = http.StatusRequestEntityTooLarge
	CodeUnprocessable      = http.StatusUnprocessableEntity
	CodeTooManyRequests    = http.StatusTooManyRequests
	CodeServerError        = http.StatusInternalServerError
	CodeServiceUnavailable = http.StatusServiceUnavailable
	CodeGatewayTimeout     = http.StatusGatewayTimeout
)

// CodeMsgMap 集中管理 code - message
var CodeMsgMap = map[int]string{
	CodeBadRequest:         "Bad Request",
	CodeUnauthorized:       "Unauthenticated.",
	CodeForbidden:          "This action is unauthorized.",
	CodeNotFound:           "Not Found",
	CodeRequestTooLarge:    "Request body too large",
	CodeUnprocessable:      "The given data was invalid.",
	CodeTooManyRequests:    "Too Many Requests",
	CodeServerError:        "Server Error",
	CodeServiceUnavailable: "Server busy",
	CodeGatewayTimeout:     "Request timeout",
}
