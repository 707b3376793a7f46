package service

import (
	"fmt"

	"github.com/rs/zerolog/log"

	authormodel "bibliotech/internal/domains/author/model"
	"bibliotech/internal/domains/book/model"
	"bibliotech/internal/shared/failure"
)

// AuthorLookup resolves an author id against the author cache.
type AuthorLookup interface {
	Lookup(id string) (authormodel.Author, bool)
}

// Resolve joins b with its author. A missing author leaves the name fields
// empty and AuthorResolved false.
func Resolve(b model.Book, authors AuthorLookup) model.BookView {
	v := model.BookView{Book: b}
	if authors == nil {
		return v
	}
	if a, ok := authors.Lookup(b.AuthorID); ok {
		v.AuthorFirstName = a.FirstName
		v.AuthorLastName = a.LastName
		v.AuthorResolved = true
	}
	return v
}

// ResolveAll joins every book. The result is recomputed on every call.
func ResolveAll(books []model.Book, authors AuthorLookup) []model.BookView {
	views := make([]model.BookView, len(books))
	for i, b := range books {
		views[i] = Resolve(b, authors)
	}
	return views
}

// Unresolved returns a referential failure naming how many views have no
// author, or nil when every view resolved.
func Unresolved(views []model.BookView) error {
	n := 0
	for _, v := range views {
		if !v.AuthorResolved {
			n++
		}
	}
	if n == 0 {
		return nil
	}
	log.Debug().Int("count", n).Msg("books reference authors missing from the cache")
	return failure.Referential("books.join", fmt.Errorf("%d book(s) reference an unknown author", n))
}
