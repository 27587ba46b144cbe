// Package pagination 生成与 Laravel 分页器兼容的 meta / links 结构
package pagination

import (
	"math"
	"net/url"
	"strconv"
)

const (
	LabelPrevious = "&laquo; Previous"
	LabelNext     = "Next &raquo;"
)

type Link struct {
	URL    *string `json:"url"`
	Label  string  `json:"label"`
	Active bool    `json:"active"`
}

type Meta struct {
	CurrentPage int    `json:"current_page"`
	From        *int   `json:"from"`
	LastPage    int    `json:"last_page"`
	Links       []Link `json:"links"`
	Path        string `json:"path"`
	PerPage     int    `json:"per_page"`
	To          *int   `json:"to"`
	Total       int64  `json:"total"`
}

type Links struct {
	First string  `json:"first"`
	Last  string  `json:"last"`
	Prev  *string `json:"prev"`
	Next  *string `json:"next"`
}

// Offset 第 page 页的起始偏移；page 需 >= 1，且 OffsetOverflows 为 false
func Offset(page, perPage int) int { return (page - 1) * perPage }

// OffsetOverflows 页码过大时 (page-1)*perPage 会溢出 int
func OffsetOverflows(page, perPage int) bool {
	return perPage > 0 && page > 1 && page-1 > math.MaxInt/perPage
}

// LastPage 至少为 1（空表也有第 1 页）
func LastPage(total int64, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 1
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// PageURL path?page=n，保留 path 上已有的 query
func PageURL(path string, page int) string {
	u, err := url.Parse(path)
	if err != nil {
		return path + "?page=" + strconv.Itoa(page)
	}
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()
	return u.String()
}

// Build count 为本页实际返回行数
func Build(path string, page, perPage int, total int64, count int) (Meta, Links) {
	last := LastPage(total, perPage)
	m := Meta{
		CurrentPage: page,
		LastPage:    last,
		Path:        path,
		PerPage:     perPage,
		Total:       total,
	}
	if count > 0 && page <= last {
		from := Offset(page, perPage) + 1
		to := from + count - 1
		m.From, m.To = &from, &to
	}

	var prev, next *string
	if page > 1 {
		p := PageURL(path, page-1)
		prev = &p
	}
	if page < last {
		n := PageURL(path, page+1)
		next = &n
	}

	m.Links = make([]Link, 0, last+2)
	m.Links = append(m.Links, Link{URL: prev, Label: LabelPrevious})
	for i := 1; i <= last; i++ {
		u := PageURL(path, i)
		m.Links = append(m.Links, Link{URL: &u, Label: strconv.Itoa(i), Active: i == page})
	}
	m.Links = append(m.Links, Link{URL: next, Label: LabelNext})

	l := Links{
		First: PageURL(path, 1),
		Last:  PageURL(path, last),
		Prev:  prev,
		Next:  next,
	}
	return m, l
}
