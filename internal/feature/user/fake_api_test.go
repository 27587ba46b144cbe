package user

import (
	"context"
	"sync"

	"user-admin/internal/domain"
	"user-admin/internal/transport/http/dto"
)

// fakeAPI 内存实现：按 perPage 分页，可注入错误
type fakeAPI struct {
	mu        sync.Mutex
	users     []domain.UserSummary
	perPage   int
	listCalls []int
	creates   []dto.CreateUserRequest
	listErr   error
	createErr error
	// block 非空时 ListUsers 在返回前等待对应页的信号
	block map[int]chan struct{}
}

func newFakeAPI(n, perPage int) *fakeAPI {
	f := &fakeAPI{perPage: perPage}
	for i := 1; i <= n; i++ {
		f.users = append(f.users, domain.UserSummary{
			ID: uint(i), Name: "User", Email: emailOf(i), Roles: []string{domain.RoleRegular},
		})
	}
	return f
}

func emailOf(i int) string { return "u" + string(rune('0'+i%10)) + "@example.com" }

func (f *fakeAPI) ListUsers(ctx context.Context, page int) (*dto.ListUsersResponse, error) {
	f.mu.Lock()
	f.listCalls = append(f.listCalls, page)
	ch := f.block[page]
	f.mu.Unlock()
	if ch != nil {
		<-ch
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	start := (page - 1) * f.perPage
	var data []domain.UserSummary
	if start < len(f.users) {
		end := min(start+f.perPage, len(f.users))
		data = append(data, f.users[start:end]...)
	}
	res := dto.NewListUsersResponse("/users", page, f.perPage, int64(len(f.users)), data)
	return &res, nil
}

func (f *fakeAPI) CreateUser(ctx context.Context, req dto.CreateUserRequest) (domain.UserSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, req)
	if f.createErr != nil {
		return domain.UserSummary{}, f.createErr
	}
	u := domain.UserSummary{ID: uint(len(f.users) + 1), Name: req.Name, Email: req.Email, Roles: []string{req.Role}}
	f.users = append(f.users, u)
	return u, nil
}

func (f *fakeAPI) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.listCalls...)
}
