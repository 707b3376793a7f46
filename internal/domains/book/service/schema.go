package service

import (
	"bibliotech/internal/domains/book/model"
	"bibliotech/internal/view"
)

// Sortable book columns.
const (
	SortTitle          view.Field = "title"
	SortAuthorLastName view.Field = "authorLastName"
	SortISBN           view.Field = "isbn"
	SortYear           view.Field = "year"
)

// Schema searches the joined author name, isbn, title and year, and sorts by
// title by default. Year sorts numerically.
var Schema = view.Schema[model.BookView]{
	Searchable: func(b model.BookView) []string {
		return []string{b.AuthorFirstName, b.AuthorLastName, b.ISBN, b.Title, b.YearString()}
	},
	Keys: map[view.Field]view.Key[model.BookView]{
		SortTitle:          view.TextKey(func(b model.BookView) string { return b.Title }),
		SortAuthorLastName: view.TextKey(func(b model.BookView) string { return b.AuthorLastName }),
		SortISBN:           view.TextKey(func(b model.BookView) string { return b.ISBN }),
		SortYear:           view.NumberKey(func(b model.BookView) int { return b.Year }),
	},
	Default: SortTitle,
}
