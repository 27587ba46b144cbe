package user

import (
	"context"
	"errors"
	"sync"

	"user-admin/internal/domain"
	"user-admin/internal/transport/http/dto"
)

const (
	DefaultRole = domain.RoleRegular

	MsgPasswordMismatch = "Passwords do not match"
	MsgAddFailed        = "Error adding user"
	MsgNetwork          = "An error occurred while adding the user"
)

var ErrPasswordMismatch = errors.New(MsgPasswordMismatch)

type Fields struct {
	Name                 string
	Email                string
	Password             string
	PasswordConfirmation string
	Role                 string
}

func defaultFields() Fields { return Fields{Role: DefaultRole} }

// CreateForm 新增用户弹窗；是否可见由父组件决定
type CreateForm struct {
	api       API
	onCreated func(ctx context.Context, u domain.UserSummary) error
	onClose   func()

	mu     sync.Mutex
	fields Fields
	errMsg *string
}

func NewCreateForm(api API, onCreated func(context.Context, domain.UserSummary) error, onClose func()) *CreateForm {
	if onCreated == nil {
		onCreated = func(context.Context, domain.UserSummary) error { return nil }
	}
	if onClose == nil {
		onClose = func() {}
	}
	return &CreateForm{api: api, onCreated: onCreated, onClose: onClose, fields: defaultFields()}
}

// Set 整体替换输入值；Role 为空时保持默认
func (f *CreateForm) Set(in Fields) {
	if in.Role == "" {
		in.Role = DefaultRole
	}
	f.mu.Lock()
	f.fields = in
	f.mu.Unlock()
}

func (f *CreateForm) Fields() Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Error 没有错误时 ok 为 false
func (f *CreateForm) Error() (msg string, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.errMsg == nil {
		return "", false
	}
	return *f.errMsg, true
}

func (f *CreateForm) Reset() {
	f.mu.Lock()
	f.fields = defaultFields()
	f.errMsg = nil
	f.mu.Unlock()
}

// Submit 两次密码不一致时不发请求；失败保留输入，成功后清空、通知父组件并关闭
func (f *CreateForm) Submit(ctx context.Context) (domain.UserSummary, error) {
	f.mu.Lock()
	f.errMsg = nil
	in := f.fields
	if in.Password != in.PasswordConfirmation {
		f.setErrLocked(MsgPasswordMismatch)
		f.mu.Unlock()
		return domain.UserSummary{}, ErrPasswordMismatch
	}
	f.mu.Unlock()

	u, err := f.api.CreateUser(ctx, dto.CreateUserRequest{
		Name:                 in.Name,
		Email:                in.Email,
		Password:             in.Password,
		PasswordConfirmation: in.PasswordConfirmation,
		Role:                 in.Role,
	})
	if err != nil {
		f.mu.Lock()
		f.setErrLocked(submitMessage(err))
		f.mu.Unlock()
		return domain.UserSummary{}, err
	}

	f.Reset()
	// 列表刷新失败记录在 ListView 上，不影响本次创建结果
	_ = f.onCreated(ctx, u)
	f.onClose()
	return u, nil
}

func (f *CreateForm) setErrLocked(msg string) { f.errMsg = &msg }

// 服务端有响应用其 message，否则按网络错误处理
func submitMessage(err error) string {
	var ae *dto.APIError
	if errors.As(err, &ae) {
		if ae.Message != "" {
			return ae.Message
		}
		return MsgAddFailed
	}
	return MsgNetwork
}

// FormView 渲染用；不回显密码
type FormView struct {
	Name     string
	Email    string
	Role     string
	Error    string
	HasError bool
}

func (f *CreateForm) View() FormView {
	f.mu.Lock()
	defer f.mu.Unlock()
	fv := FormView{Name: f.fields.Name, Email: f.fields.Email, Role: f.fields.Role}
	if f.errMsg != nil {
		fv.Error, fv.HasError = *f.errMsg, true
	}
	return fv
}
