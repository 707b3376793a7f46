// Package view derives the displayed page from a snapshot of records:
// filter, then sort, then paginate. Everything here is pure and works on
// copies; the caches are never touched.
package view

// PageSize is the number of records shown per page.
const PageSize = 5

// Field names a sortable column.
type Field string

// Direction is the sort direction.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Desc {
		return Asc
	}
	return Desc
}

// Key extracts a sort key from a record. Exactly one of Text or Number is set.
type Key[T any] struct {
	Text   func(T) string
	Number func(T) int
}

func TextKey[T any](f func(T) string) Key[T] { return Key[T]{Text: f} }

func NumberKey[T any](f func(T) int) Key[T] { return Key[T]{Number: f} }

// Schema describes how records of one entity are searched and sorted.
type Schema[T any] struct {
	// Searchable returns the values a search query is matched against.
	Searchable func(T) []string
	Keys       map[Field]Key[T]
	// Default is used when a requested field is unknown.
	Default Field
}

// Resolve returns field if the schema knows it, otherwise the default.
func (s Schema[T]) Resolve(field Field) Field {
	if _, ok := s.Keys[field]; ok {
		return field
	}
	return s.Default
}

// Has reports whether field is a sortable column of the schema.
func (s Schema[T]) Has(field Field) bool {
	_, ok := s.Keys[field]
	return ok
}
