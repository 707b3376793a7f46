package view

import (
	"cmp"
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// NewCollator returns a case-insensitive collator for tag. A Collator is not
// safe for concurrent use.
func NewCollator(tag language.Tag) *collate.Collator {
	return collate.New(tag, collate.IgnoreCase)
}

// Sort returns a sorted copy of records. The sort is stable: records with
// equal keys keep their input order in both directions. Text keys are
// compared with coll, number keys numerically.
func Sort[T any](records []T, field Field, dir Direction, schema Schema[T], coll *collate.Collator) []T {
	out := slices.Clone(records)
	key, ok := schema.Keys[schema.Resolve(field)]
	if !ok {
		return out
	}

	compare := func(a, b T) int {
		if key.Number != nil {
			return cmp.Compare(key.Number(a), key.Number(b))
		}
		return coll.CompareString(key.Text(a), key.Text(b))
	}
	if dir == Desc {
		slices.SortStableFunc(out, func(a, b T) int { return -compare(a, b) })
	} else {
		slices.SortStableFunc(out, compare)
	}
	return out
}
