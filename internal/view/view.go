package view

import "golang.org/x/text/language"

// Params are the four control values applied to a snapshot.
type Params struct {
	Query     string    `json:"searchQuery"`
	Field     Field     `json:"sortField"`
	Direction Direction `json:"sortDirection"`
	Page      int       `json:"currentPage"`
}

// Result is one derived page.
type Result[T any] struct {
	Records    []T `json:"records"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
	Page       int `json:"currentPage"`
}

// Arrange filters and sorts records without paginating.
func Arrange[T any](records []T, p Params, schema Schema[T], locale language.Tag) []T {
	filtered := Filter(records, p.Query, schema)
	return Sort(filtered, p.Field, p.Direction, schema, NewCollator(locale))
}

// Run filters, sorts and paginates records with PageSize.
func Run[T any](records []T, p Params, schema Schema[T], locale language.Tag) Result[T] {
	arranged := Arrange(records, p, schema, locale)
	return Result[T]{
		Records:    Paginate(arranged, p.Page, PageSize),
		Total:      len(arranged),
		TotalPages: TotalPages(len(arranged), PageSize),
		Page:       p.Page,
	}
}
