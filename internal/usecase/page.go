package usecase

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	repo "delivery/internal/repository"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageRequest は handler から受け取るページ指定（page は 0 始まり）。
// Sort は "field" または "field,asc|desc"。
type PageRequest struct {
	Page int
	Size int
	Sort string
}

type PageInfo struct {
	Number        int   `json:"number"`
	Size          int   `json:"size"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	First         bool  `json:"first"`
	Last          bool  `json:"last"`
}

type PageLinks struct {
	First string `json:"first"`
	Last  string `json:"last"`
	Next  string `json:"next,omitempty"`
	Prev  string `json:"prev,omitempty"`
}

type Page[T any] struct {
	Content []T       `json:"content"`
	Page    PageInfo  `json:"page"`
	Links   PageLinks `json:"links"`
}

// toPageQuery は sort のフィールド名を allowed（APIの名前 -> カラム名）で検証する。
func (r PageRequest) toPageQuery(allowed map[string]string) (repo.PageQuery, error) {
	fields := map[string]string{}
	if r.Page < 0 {
		fields["page"] = "must be >= 0"
	}
	size := r.Size
	if size == 0 {
		size = DefaultPageSize
	}
	if size < 1 || size > MaxPageSize {
		fields["size"] = fmt.Sprintf("must be between 1 and %d", MaxPageSize)
	}

	q := repo.PageQuery{Page: r.Page, Size: size}

	if s := strings.TrimSpace(r.Sort); s != "" {
		parts := strings.SplitN(s, ",", 2)
		col, ok := allowed[strings.TrimSpace(parts[0])]
		if !ok {
			fields["sort"] = "unsupported sort field"
		}
		q.SortColumn = col
		if len(parts) == 2 {
			switch strings.ToLower(strings.TrimSpace(parts[1])) {
			case "asc":
			case "desc":
				q.SortDesc = true
			default:
				fields["sort"] = "direction must be asc or desc"
			}
		}
	}

	if len(fields) > 0 {
		return repo.PageQuery{}, Validation(fields)
	}
	return q, nil
}

func newPage[T any](content []T, q repo.PageQuery, total int64) Page[T] {
	if content == nil {
		content = []T{}
	}
	totalPages := 0
	if q.Size > 0 {
		totalPages = int((total + int64(q.Size) - 1) / int64(q.Size))
	}
	return Page[T]{
		Content: content,
		Page: PageInfo{
			Number:        q.Page,
			Size:          q.Size,
			TotalElements: total,
			TotalPages:    totalPages,
			First:         q.Page == 0,
			Last:          q.Page >= totalPages-1,
		},
	}
}

// WithLinks は basePath と現在のクエリから first/last/next/prev を作る。
func (p Page[T]) WithLinks(basePath string, query url.Values) Page[T] {
	link := func(n int) string {
		v := url.Values{}
		for k, vals := range query {
			v[k] = append([]string(nil), vals...)
		}
		v.Set("page", strconv.Itoa(n))
		v.Set("size", strconv.Itoa(p.Page.Size))
		return basePath + "?" + v.Encode()
	}

	last := p.Page.TotalPages - 1
	if last < 0 {
		last = 0
	}
	p.Links = PageLinks{First: link(0), Last: link(last)}
	if p.Page.Number < last {
		p.Links.Next = link(p.Page.Number + 1)
	}
	if p.Page.Number > 0 {
		p.Links.Prev = link(p.Page.Number - 1)
	}
	return p
}
