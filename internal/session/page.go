package session

import (
	"fmt"

	"golang.org/x/text/language"

	"bibliotech/internal/view"
)

// ViewModel is everything a list page renders.
type ViewModel[T any] struct {
	Records       []T            `json:"records"`
	Total         int            `json:"total"`
	TotalPages    int            `json:"totalPages"`
	CurrentPage   int            `json:"currentPage"`
	SortField     view.Field     `json:"sortField"`
	SortDirection view.Direction `json:"sortDirection"`
	SearchQuery   string         `json:"searchQuery"`
	Loading       bool           `json:"loading"`
}

// Page derives one list page from a record source and its controls.
type Page[T any] struct {
	controls *view.Controls
	schema   view.Schema[T]
	locale   language.Tag
	// source returns the current snapshot, or loading=true while the
	// underlying caches have not finished their first load.
	source  func() (records []T, loading bool)
	version func() uint64
}

func newPage[T any](schema view.Schema[T], locale language.Tag, source func() ([]T, bool), version func() uint64) *Page[T] {
	return &Page[T]{
		controls: view.NewControls(schema.Default),
		schema:   schema,
		locale:   locale,
		source:   source,
		version:  version,
	}
}

// View derives the current page. A change of the underlying records since
// the last call sends the page back to 1.
func (p *Page[T]) View() ViewModel[T] {
	p.controls.Observe(p.version())
	params := p.controls.Params()
	vm := ViewModel[T]{
		Records:       []T{},
		CurrentPage:   params.Page,
		SortField:     params.Field,
		SortDirection: params.Direction,
		SearchQuery:   p.controls.Query(),
	}

	records, loading := p.source()
	if loading {
		vm.Loading = true
		return vm
	}

	res := view.Run(records, params, p.schema, p.locale)
	vm.Records = res.Records
	vm.Total = res.Total
	vm.TotalPages = res.TotalPages
	return vm
}

// Export returns every record matching the current query in the current
// sort order, without pagination.
func (p *Page[T]) Export() []T {
	records, loading := p.source()
	if loading {
		return []T{}
	}
	return view.Arrange(records, p.controls.Params(), p.schema, p.locale)
}

func (p *Page[T]) SetQuery(q string) { p.controls.SetQuery(q) }

// ToggleSort sorts by field, flipping the direction when it is already the
// sort field.
func (p *Page[T]) ToggleSort(field view.Field) error {
	if !p.schema.Has(field) {
		return fmt.Errorf("%w: %s", ErrUnknownSortField, field)
	}
	p.controls.ToggleSort(field)
	return nil
}

// GoTo moves to page, which must lie in [1, TotalPages].
func (p *Page[T]) GoTo(page int) error {
	vm := p.View()
	if page < 1 || page > vm.TotalPages {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrPageOutOfRange, page, vm.TotalPages)
	}
	p.controls.SetPage(page)
	return nil
}

// SetPage moves to page without a range check; an out-of-range page renders
// empty.
func (p *Page[T]) SetPage(page int) { p.controls.SetPage(page) }
