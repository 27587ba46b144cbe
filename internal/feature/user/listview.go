// Package user 用户列表页与新增弹窗的前端组件（状态机 + 渲染），
// 通过 API 接口访问后端，既可走 HTTP 也可进程内直连 service。
package user

import (
	"context"
	"errors"
	"sync"

	"user-admin/internal/domain"
	"user-admin/internal/transport/http/dto"
)

// API 列表页和弹窗需要的后端能力
type API interface {
	ListUsers(ctx context.Context, page int) (*dto.ListUsersResponse, error)
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (domain.UserSummary, error)
}

type State int

const (
	StateLoading State = iota
	StateLoaded
	StateEmpty
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateEmpty:
		return "empty"
	}
	return "unknown"
}

// ErrStaleResponse 响应到达时已有更新的请求发出，结果被丢弃
var ErrStaleResponse = errors.New("stale list response")

// ListView 每个实例独立持有状态；并发安全
type ListView struct {
	api  API
	form *CreateForm

	mu        sync.Mutex
	state     State
	users     []domain.UserSummary
	page      int
	lastPage  int
	total     int64
	perPage   int
	seq       uint64
	err       error
	modalOpen bool
}

func NewListView(api API) *ListView {
	v := &ListView{api: api, state: StateLoading, page: 1, lastPage: 1}
	v.form = NewCreateForm(api, v.OnUserCreated, v.CloseModal)
	return v
}

// Mount 首次加载第 1 页
func (v *ListView) Mount(ctx context.Context) error { return v.Load(ctx, 1) }

// Load 无条件请求指定页
func (v *ListView) Load(ctx context.Context, page int) error {
	v.mu.Lock()
	v.seq++
	seq := v.seq
	v.state = StateLoading
	v.page = page
	v.mu.Unlock()

	res, err := v.api.ListUsers(ctx, page)

	v.mu.Lock()
	defer v.mu.Unlock()
	if seq != v.seq {
		return ErrStaleResponse
	}
	if err != nil {
		// 保留上一次的数据
		v.err = err
		v.settle()
		return err
	}
	v.err = nil
	v.users = res.Data
	v.page = res.Meta.CurrentPage
	v.lastPage = max(1, res.Meta.LastPage)
	v.total = res.Meta.Total
	v.perPage = res.Meta.PerPage
	v.settle()
	return nil
}

func (v *ListView) settle() {
	if len(v.users) == 0 {
		v.state = StateEmpty
		return
	}
	v.state = StateLoaded
}

// GoTo 切页；当前页或越界时忽略，不发请求，返回 false
func (v *ListView) GoTo(ctx context.Context, page int) (bool, error) {
	v.mu.Lock()
	ignore := page == v.page || page < 1 || page > v.lastPage
	v.mu.Unlock()
	if ignore {
		return false, nil
	}
	return true, v.Load(ctx, page)
}

func (v *ListView) Prev(ctx context.Context) (bool, error) { return v.GoTo(ctx, v.Page()-1) }

func (v *ListView) Next(ctx context.Context) (bool, error) { return v.GoTo(ctx, v.Page()+1) }

// OnUserCreated 新增成功后强制回到第 1 页并重新拉取
func (v *ListView) OnUserCreated(ctx context.Context, _ domain.UserSummary) error {
	return v.Load(ctx, 1)
}

func (v *ListView) OpenModal() {
	v.mu.Lock()
	v.modalOpen = true
	v.mu.Unlock()
}

func (v *ListView) CloseModal() {
	v.mu.Lock()
	v.modalOpen = false
	v.mu.Unlock()
}

func (v *ListView) Form() *CreateForm { return v.form }

func (v *ListView) Page() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.page
}

func (v *ListView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

// Snapshot 渲染用的只读快照
type Snapshot struct {
	State     State
	Users     []domain.UserSummary
	Page      int
	LastPage  int
	PerPage   int
	Total     int64
	Err       error
	ModalOpen bool
	Pager     Pager
	Form      FormView
}

func (v *ListView) Snapshot() Snapshot {
	v.mu.Lock()
	s := Snapshot{
		State:     v.state,
		Users:     append([]domain.UserSummary(nil), v.users...),
		Page:      v.page,
		LastPage:  v.lastPage,
		PerPage:   v.perPage,
		Total:     v.total,
		Err:       v.err,
		ModalOpen: v.modalOpen,
		Pager:     buildPager(v.page, v.lastPage),
	}
	v.mu.Unlock()
	s.Form = v.form.View()
	return s
}

type PageButton struct {
	Page   int
	Active bool
}

// Pager 页码按钮 1..LastPage；Prev/Next 在边界处禁用
type Pager struct {
	Visible      bool
	Buttons      []PageButton
	Prev         int
	Next         int
	PrevDisabled bool
	NextDisabled bool
}

func (v *ListView) Pager() Pager {
	v.mu.Lock()
	defer v.mu.Unlock()
	return buildPager(v.page, v.lastPage)
}

func buildPager(page, last int) Pager {
	p := Pager{
		Visible:      last > 1,
		Buttons:      make([]PageButton, 0, last),
		Prev:         page - 1,
		Next:         page + 1,
		PrevDisabled: page <= 1,
		NextDisabled: page >= last,
	}
	for i := 1; i <= last; i++ {
		p.Buttons = append(p.Buttons, PageButton{Page: i, Active: i == page})
	}
	return p
}
