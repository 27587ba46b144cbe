// Package userapi /users 接口的 HTTP 客户端，实现 feature/user.API
package userapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"user-admin/internal/domain"
	"user-admin/internal/transport/http/dto"
)

type Options struct {
	BaseURL string
	Token   string // 为空时不带 Authorization
	Timeout time.Duration
}

type Client struct {
	r *resty.Client
}

func New(o Options) *Client {
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	hc := &http.Client{
		Timeout: o.Timeout,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 30 * time.Second}).DialContext,
			MaxIdleConns:          20,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   5 * time.Second,
			ResponseHeaderTimeout: o.Timeout,
		},
	}
	r := resty.NewWithClient(hc).
		SetBaseURL(o.BaseURL).
		SetHeader("Accept", "application/json")
	if o.Token != "" {
		r.SetAuthToken(o.Token)
	}
	return &Client{r: r}
}

func (c *Client) ListUsers(ctx context.Context, page int) (*dto.ListUsersResponse, error) {
	var out dto.ListUsersResponse
	var eb dto.ErrorResponse
	res, err := c.r.R().
		SetContext(ctx).
		SetQueryParam("page", strconv.Itoa(page)).
		SetResult(&out).
		SetError(&eb).
		Get("/users")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dto.ErrNetwork, err)
	}
	if res.IsError() {
		return nil, apiError(res, eb)
	}
	return &out, nil
}

func (c *Client) CreateUser(ctx context.Context, req dto.CreateUserRequest) (domain.UserSummary, error) {
	var out domain.UserSummary
	var eb dto.ErrorResponse
	res, err := c.r.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&out).
		SetError(&eb).
		Post("/users")
	if err != nil {
		return domain.UserSummary{}, fmt.Errorf("%w: %v", dto.ErrNetwork, err)
	}
	if res.IsError() {
		return domain.UserSummary{}, apiError(res, eb)
	}
	return out, nil
}

func apiError(res *resty.Response, eb dto.ErrorResponse) error {
	return &dto.APIError{Status: res.StatusCode(), Message: eb.Message, Errors: eb.Errors}
}
