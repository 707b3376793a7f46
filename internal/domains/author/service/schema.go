package service

import (
	"bibliotech/internal/domains/author/model"
	"bibliotech/internal/view"
)

// Sortable author columns.
const (
	SortLastName  view.Field = "lastName"
	SortFirstName view.Field = "firstName"
)

// Schema searches first and last name and sorts by last name by default.
var Schema = view.Schema[model.Author]{
	Searchable: func(a model.Author) []string { return []string{a.FirstName, a.LastName} },
	Keys: map[view.Field]view.Key[model.Author]{
		SortLastName:  view.TextKey(func(a model.Author) string { return a.LastName }),
		SortFirstName: view.TextKey(func(a model.Author) string { return a.FirstName }),
	},
	Default: SortLastName,
}
