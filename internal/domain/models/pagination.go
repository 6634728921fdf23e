package models

import "strings"

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
	DefaultSort     = "-createdAt"
)

// sortable поля, по которым разрешена сортировка списка
var sortable = map[string]struct{}{
	"createdAt": {},
	"updatedAt": {},
	"title":     {},
}

type ListParams struct {
	Page     int
	PageSize int
	Sort     string
}

// Normalize подставляет значения по умолчанию
func (p ListParams) Normalize() ListParams {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PageSize < 1 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if _, _, ok := parseSort(p.Sort); !ok {
		p.Sort = DefaultSort
	}

	return p
}

func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// SortField разбирает спецификацию вида "-createdAt": имя поля и признак убывания
func (p ListParams) SortField() (field string, desc bool) {
	field, desc, ok := parseSort(p.Sort)
	if !ok {
		field, desc, _ = parseSort(DefaultSort)
	}

	return field, desc
}

func parseSort(spec string) (string, bool, bool) {
	spec = strings.TrimSpace(spec)
	desc := strings.HasPrefix(spec, "-")
	field := strings.TrimPrefix(strings.TrimPrefix(spec, "-"), "+")

	if _, ok := sortable[field]; !ok {
		return "", false, false
	}

	return field, desc, true
}

type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalPhotos int64 `json:"totalPhotos"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

func NewPagination(page, pageSize int, total int64) Pagination {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int((total + int64(pageSize) - 1) / int64(pageSize))
	}

	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalPhotos: total,
		HasNext:     int64(page)*int64(pageSize) < total,
		HasPrev:     page > 1,
	}
}
