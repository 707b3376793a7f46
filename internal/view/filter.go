package view

import (
	"strings"

	"golang.org/x/text/cases"
)

// Filter keeps the records where any searchable value contains query,
// ignoring case. A blank query returns records unchanged.
func Filter[T any](records []T, query string, schema Schema[T]) []T {
	query = strings.TrimSpace(query)
	if query == "" || schema.Searchable == nil {
		return records
	}

	fold := cases.Fold()
	needle := fold.String(query)

	out := make([]T, 0, len(records))
	for _, r := range records {
		for _, v := range schema.Searchable(r) {
			if strings.Contains(fold.String(v), needle) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
