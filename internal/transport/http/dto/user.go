package dto

import (
	"user-admin/internal/core/pagination"
	"user-admin/internal/domain"
)

// ListUsersResponse GET /users 的响应体
type ListUsersResponse struct {
	Data  []domain.UserSummary `json:"data"`
	Meta  pagination.Meta      `json:"meta"`
	Links pagination.Links     `json:"links"`
}

// NewListUsersResponse path 为不带 page 的列表地址，如 http://host/users
func NewListUsersResponse(path string, page, perPage int, total int64, users []domain.UserSummary) ListUsersResponse {
	if users == nil {
		users = []domain.UserSummary{}
	}
	meta, links := pagination.Build(path, page, perPage, total, len(users))
	return ListUsersResponse{Data: users, Meta: meta, Links: links}
}

// CreateUserRequest POST /users 请求体
type CreateUserRequest struct {
	Name                 string `json:"name"                  form:"name"`
	Email                string `json:"email"                 form:"email"`
	Password             string `json:"password"              form:"password"`
	PasswordConfirmation string `json:"password_confirmation" form:"password_confirmation"`
	Role                 string `json:"role"                  form:"role"`
}

// ErrorResponse 4xx/5xx 响应体
type ErrorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}
