package domain

import "errors"

var (
	ErrEmailTaken   = errors.New("email already taken")
	ErrInvalidPage  = errors.New("page must be a positive integer")
	ErrRoleNotFound = errors.New("role not found")
	ErrUserNotFound = errors.New("user not found")
)

// ValidationError 校验失败；Message 直接展示给用户
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return e.Err }

func NewValidationError(field, msg string) *ValidationError {
	return &ValidationError{Field: field, Message: msg}
}
