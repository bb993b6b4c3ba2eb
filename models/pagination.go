package models

const (
	DefaultPerPage = 20
	MaxPerPage     = 100
)

// PageRequest is a 1-based page window.
type PageRequest struct {
	Page    int
	PerPage int
}

// Skip returns the number of rows before the page.
func (p PageRequest) Skip() int64 {
	return int64((p.Page - 1) * p.PerPage)
}

type PageMeta struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PerPage    int   `json:"perPage"`
	TotalPages int   `json:"totalPages"`
}

func NewPageMeta(total int64, p PageRequest) PageMeta {
	pages := 0
	if p.PerPage > 0 {
		pages = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	return PageMeta{Total: total, Page: p.Page, PerPage: p.PerPage, TotalPages: pages}
}

// Page is the envelope returned by list endpoints.
type Page[T any] struct {
	Data []T      `json:"data"`
	Meta PageMeta `json:"meta"`
}
