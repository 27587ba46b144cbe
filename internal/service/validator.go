package service

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"user-admin/internal/domain"
)

// 校验分阶段返回，保证错误顺序稳定
type stage int

const (
	stageRequired stage = iota
	stageFormat
	stageRole
)

type inputValidator struct{ v *validator.Validate }

func newInputValidator() *inputValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// 用 json 名作为字段名：password_confirmation
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// bcrypt 按字节截断，max 按字符数，两者都要
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Param())
		return err == nil && len(fl.Field().String()) <= n
	})
	return &inputValidator{v: v}
}

type fieldErrors []validator.FieldError

func (iv *inputValidator) check(in any) fieldErrors {
	err := iv.v.Struct(in)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		return fieldErrors(ve)
	}
	return nil
}

// first 返回指定阶段的第一个错误（按结构体字段顺序）
func (fe fieldErrors) first(s stage) *domain.ValidationError {
	for _, e := range fe {
		if stageOf(e) == s {
			return &domain.ValidationError{Field: e.Field(), Message: fieldMessage(e)}
		}
	}
	return nil
}

func stageOf(e validator.FieldError) stage {
	switch {
	case e.Tag() == "required":
		return stageRequired
	case e.Field() == "role":
		return stageRole
	default:
		return stageFormat
	}
}

func fieldMessage(e validator.FieldError) string {
	field := strings.ReplaceAll(e.Field(), "_", " ")
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", field)
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", field)
	case "max":
		return fmt.Sprintf("The %s field must not be greater than %s characters.", field, e.Param())
	case "maxbytes":
		return fmt.Sprintf("The %s field must not be greater than %s bytes.", field, e.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", field)
	default:
		return fmt.Sprintf("The %s field is invalid.", field)
	}
}
