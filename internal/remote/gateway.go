// Package remote is the gateway to the relational store that owns the
// authors and books tables. The records client never talks to the store any
// other way.
package remote

import (
	"context"

	authormodel "bibliotech/internal/domains/author/model"
	bookmodel "bibliotech/internal/domains/book/model"
)

// Op names one gateway operation. It is carried by every *Error and used by
// the in-memory store for fault injection.
type Op string

const (
	OpListAuthors         Op = "list_authors"
	OpInsertAuthor        Op = "insert_author"
	OpUpdateAuthor        Op = "update_author"
	OpDeleteAuthor        Op = "delete_author"
	OpListBooksWithAuthor Op = "list_books_with_author"
	OpInsertBook          Op = "insert_book"
	OpUpdateBook          Op = "update_book"
	OpDeleteBook          Op = "delete_book"
)

// BookWithAuthor is a book row joined with the author row it references.
// Author is nil when the store returned no author for the row.
type BookWithAuthor struct {
	bookmodel.Book
	Author *authormodel.Author `json:"author,omitempty"`
}

type AuthorGateway interface {
	// ListAuthors returns every author ordered by last name ascending.
	ListAuthors(ctx context.Context) ([]authormodel.Author, error)
	InsertAuthor(ctx context.Context, fields authormodel.AuthorFields) (authormodel.Author, error)
	UpdateAuthor(ctx context.Context, id string, fields authormodel.AuthorFields) (authormodel.Author, error)
	// DeleteAuthor fails with CodeForeignKey while books still reference id.
	DeleteAuthor(ctx context.Context, id string) error
}

type BookGateway interface {
	// ListBooksWithAuthor returns every book joined with its author in one
	// query, ordered by title ascending.
	ListBooksWithAuthor(ctx context.Context) ([]BookWithAuthor, error)
	InsertBook(ctx context.Context, fields bookmodel.BookFields) (BookWithAuthor, error)
	UpdateBook(ctx context.Context, id string, fields bookmodel.BookFields) (BookWithAuthor, error)
	DeleteBook(ctx context.Context, id string) error
}

// Gateway is the full remote contract.
type Gateway interface {
	AuthorGateway
	BookGateway
}

// Books strips the joined author payload from rows.
func Books(rows []BookWithAuthor) []bookmodel.Book {
	out := make([]bookmodel.Book, len(rows))
	for i, r := range rows {
		out[i] = r.Book
	}
	return out
}
