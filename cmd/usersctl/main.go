// usersctl 终端版用户管理：通过 HTTP 驱动列表页与新增弹窗组件
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"user-admin/internal/client/userapi"
	"user-admin/internal/core/config"
	"user-admin/internal/feature/user"
)

const usage = `usage:
  usersctl list   [--page n] [global flags]
  usersctl create --name NAME --email EMAIL --password PW --password-confirmation PW [--role admin|regular] [global flags]

global flags:
  -c, --config string     config file path
      --base-url string   API base url (overrides client.base_url)
      --token string      bearer token (overrides client.token)
      --timeout duration  request timeout (overrides client.timeout_sec)
`

func main() {
	_ = godotenv.Load()
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type globals struct {
	config  string
	baseURL string
	token   string
	timeout time.Duration
}

func (g *globals) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&g.config, "config", "c", os.Getenv("CONFIG_PATH"), "config file path")
	fs.StringVar(&g.baseURL, "base-url", "", "API base url")
	fs.StringVar(&g.token, "token", "", "bearer token")
	fs.DurationVar(&g.timeout, "timeout", 0, "request timeout")
}

// client flag 优先，其次配置
func (g *globals) client() (*userapi.Client, error) {
	cfg, err := config.Load(g.config)
	if err != nil {
		return nil, err
	}
	o := userapi.Options{
		BaseURL: cfg.Client.BaseURL,
		Token:   cfg.Client.Token,
		Timeout: time.Duration(cfg.Client.TimeoutSec) * time.Second,
	}
	if g.baseURL != "" {
		o.BaseURL = g.baseURL
	}
	if g.token != "" {
		o.Token = g.token
	}
	if g.timeout > 0 {
		o.Timeout = g.timeout
	}
	return userapi.New(o), nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		fmt.Fprint(out, usage)
		return errors.New("missing command")
	}
	switch args[0] {
	case "list":
		return runList(ctx, args[1:], out)
	case "create":
		return runCreate(ctx, args[1:], out)
	case "-h", "--help", "help":
		fmt.Fprint(out, usage)
		return nil
	}
	fmt.Fprint(out, usage)
	return fmt.Errorf("unknown command %q", args[0])
}

func runList(ctx context.Context, args []string, out io.Writer) error {
	var g globals
	fs := pflag.NewFlagSet("list", pflag.ContinueOnError)
	g.bind(fs)
	page := fs.IntP("page", "p", 1, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := g.client()
	if err != nil {
		return err
	}

	v := user.NewListView(c)
	if err := v.Load(ctx, *page); err != nil {
		return err
	}
	return user.RenderText(out, v.Snapshot())
}

func runCreate(ctx context.Context, args []string, out io.Writer) error {
	var g globals
	var f user.Fields
	fs := pflag.NewFlagSet("create", pflag.ContinueOnError)
	g.bind(fs)
	fs.StringVar(&f.Name, "name", "", "display name")
	fs.StringVar(&f.Email, "email", "", "email address")
	fs.StringVar(&f.Password, "password", "", "password")
	fs.StringVar(&f.PasswordConfirmation, "password-confirmation", "", "password confirmation")
	fs.StringVar(&f.Role, "role", user.DefaultRole, "role: admin | regular")
	if err := fs.Parse(args); err != nil {
		return err
	}
	c, err := g.client()
	if err != nil {
		return err
	}

	v := user.NewListView(c)
	v.OpenModal()
	v.Form().Set(f)
	u, err := v.Form().Submit(ctx)
	if err != nil {
		msg, _ := v.Form().Error()
		return errors.New(msg)
	}
	fmt.Fprintf(out, "created user #%d %s <%s>\n\n", u.ID, u.Name, u.Email)
	// 提交成功后列表已回到第 1 页
	return user.RenderText(out, v.Snapshot())
}
