package user

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"text/tabwriter"

	"user-admin/internal/domain"
)

const (
	MsgLoading = "Loading users..."
	MsgEmpty   = "No users found."

	TemplateUsers     = "users.html"
	TemplateForbidden = "403.html"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcMap = template.FuncMap{
	"JoinRoles": JoinRoles,
	"RoleLabel": RoleLabel,
}

// JoinRoles ["admin","regular"] -> "admin, regular"
func JoinRoles(roles []string) string { return strings.Join(roles, ", ") }

// RoleLabel 下拉框显示名
func RoleLabel(r string) string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(r[:1]) + r[1:]
}

// Templates 解析内嵌模板，供 gin SetHTMLTemplate 使用
func Templates() (*template.Template, error) {
	return template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
}

// PageData users.html 的数据
type PageData struct {
	Snapshot
	Path        string // 列表页地址，如 /dashboard/users
	Roles       []string
	LoadingText string
	EmptyText   string
}

func NewPageData(path string, s Snapshot) PageData {
	return PageData{
		Snapshot:    s,
		Path:        path,
		Roles:       []string{domain.RoleRegular, domain.RoleAdmin},
		LoadingText: MsgLoading,
		EmptyText:   MsgEmpty,
	}
}

func (p PageData) PageURL(page int) string { return fmt.Sprintf("%s?page=%d", p.Path, page) }

func (p PageData) ModalURL() string { return fmt.Sprintf("%s?page=%d&modal=open", p.Path, p.Page) }

// RenderText 终端输出：表格 + 页码
func RenderText(w io.Writer, s Snapshot) error {
	switch s.State {
	case StateLoading:
		_, err := fmt.Fprintln(w, MsgLoading)
		return err
	case StateEmpty:
		if _, err := fmt.Fprintln(w, MsgEmpty); err != nil {
			return err
		}
	default:
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tROLES")
		for _, u := range s.Users {
			fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", u.ID, u.Name, u.Email, JoinRoles(u.Roles))
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}
	if !s.Pager.Visible {
		return nil
	}
	_, err := fmt.Fprintln(w, pagerLine(s.Pager), fmt.Sprintf("(page %d of %d, %d total)", s.Page, s.LastPage, s.Total))
	return err
}

// pagerLine "< Previous  [1] 2 3  Next >"，禁用的按钮加括号
func pagerLine(p Pager) string {
	var b strings.Builder
	if p.PrevDisabled {
		b.WriteString("(< Previous)")
	} else {
		b.WriteString("< Previous")
	}
	b.WriteString(" ")
	for _, btn := range p.Buttons {
		if btn.Active {
			fmt.Fprintf(&b, " [%d]", btn.Page)
		} else {
			fmt.Fprintf(&b, " %d", btn.Page)
		}
	}
	b.WriteString("  ")
	if p.NextDisabled {
		b.WriteString("(Next >)")
	} else {
		b.WriteString("Next >")
	}
	return b.String()
}
