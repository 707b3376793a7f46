package service

import (
	"context"
	"errors"
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"bibliotech/internal/cache"
	"bibliotech/internal/domains/book/model"
	"bibliotech/internal/infrastructure/notify"
	"bibliotech/internal/remote"
	"bibliotech/internal/shared/failure"
)

// Store is the book boundary used by the presentation layer. The cache holds
// plain books; author names are joined on read from authors.
type Store struct {
	gw       remote.BookGateway
	cache    *cache.EntityCache[model.Book]
	notifier notify.Notifier
	authors  AuthorLookup
}

// NewStore builds a book store. When authors is non-nil, Add and Update
// reject an author id it does not know before calling the remote.
func NewStore(gw remote.BookGateway, notifier notify.Notifier, authors AuthorLookup) *Store {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Store{
		gw:       gw,
		cache:    cache.New("books", model.Key),
		notifier: notifier,
		authors:  authors,
	}
}

func (s *Store) Records() []model.Book { return s.cache.Records() }

func (s *Store) IsLoading() bool { return s.cache.IsLoading() }

func (s *Store) Version() uint64 { return s.cache.Version() }

func (s *Store) Get(id string) (model.Book, bool) { return s.cache.Get(id) }

// Views joins every cached book with its author.
func (s *Store) Views() []model.BookView {
	return ResolveAll(s.cache.Records(), s.authors)
}

// ByAuthor returns the joined books written by authorID.
func (s *Store) ByAuthor(authorID string) []model.BookView {
	var books []model.Book
	for _, b := range s.cache.Records() {
		if b.AuthorID == authorID {
			books = append(books, b)
		}
	}
	return ResolveAll(books, s.authors)
}

// Load fetches every book with its author and replaces the cache. The joined
// author payload is only logged; display names always come from the author
// cache.
func (s *Store) Load(ctx context.Context) error {
	err := s.cache.Load(ctx, func(ctx context.Context) ([]model.Book, error) {
		rows, err := s.gw.ListBooksWithAuthor(ctx)
		if err != nil {
			return nil, err
		}
		orphans := 0
		for _, r := range rows {
			if r.Author == nil {
				orphans++
			}
		}
		log.Debug().Int("books", len(rows)).Int("without_author", orphans).Msg("fetched books")
		return remote.Books(rows), nil
	})
	if err != nil {
		s.notifier.Notify(ctx, notify.Failure("Error fetching books", failure.Message(err)))
	}
	return err
}

func (s *Store) Refetch(ctx context.Context) error { return s.Load(ctx) }

func (s *Store) Add(ctx context.Context, in model.BookInput) (model.Book, error) {
	const op = "books.add"
	fields, err := s.checkInput(ctx, op, in)
	if err != nil {
		return model.Book{}, err
	}

	b, err := s.cache.Add(ctx, func(ctx context.Context) (model.Book, error) {
		row, err := s.gw.InsertBook(ctx, fields)
		return row.Book, err
	})
	if err != nil {
		s.notifier.Notify(ctx, notify.Failure("Error adding book", failure.Message(err)))
		return model.Book{}, err
	}

	log.Info().Str("id", b.ID).Str("title", b.Title).Msg("book added")
	s.notifier.Notify(ctx, notify.Success("Book added", fmt.Sprintf(`"%s" has been added successfully.`, fields.Title)))
	return b, nil
}

func (s *Store) Update(ctx context.Context, id string, in model.BookInput) (model.Book, error) {
	const op = "books.update"
	fields, err := s.checkInput(ctx, op, in)
	if err != nil {
		return model.Book{}, err
	}

	b, err := s.cache.Update(ctx, id, func(ctx context.Context) (model.Book, error) {
		row, err := s.gw.UpdateBook(ctx, id, fields)
		return row.Book, err
	})
	if err != nil {
		s.notifier.Notify(ctx, notify.Failure("Error updating book", failure.Message(err)))
		return model.Book{}, err
	}

	log.Info().Str("id", id).Str("title", b.Title).Msg("book updated")
	s.notifier.Notify(ctx, notify.Success("Book updated", fmt.Sprintf(`"%s" has been updated successfully.`, fields.Title)))
	return b, nil
}

func (s *Store) Remove(ctx context.Context, id string) error {
	err := s.cache.Remove(ctx, id, func(ctx context.Context) error {
		return s.gw.DeleteBook(ctx, id)
	})
	if err != nil {
		s.notifier.Notify(ctx, notify.Failure("Error deleting book", failure.Message(err)))
		return err
	}

	log.Info().Str("id", id).Msg("book deleted")
	s.notifier.Notify(ctx, notify.Success("Book deleted", "Book has been deleted successfully."))
	return nil
}

func (s *Store) Close() { s.cache.Close() }

// checkInput validates the form and, when an author lookup is configured,
// that the selected author is cached.
func (s *Store) checkInput(ctx context.Context, op string, in model.BookInput) (model.BookFields, error) {
	fields, err := in.Fields()
	if err == nil && s.authors != nil {
		if _, ok := s.authors.Lookup(fields.AuthorID); !ok {
			err = fmt.Errorf("%w: %s", model.ErrUnknownAuthor, fields.AuthorID)
		}
	}
	if err != nil {
		s.notifier.Notify(ctx, notify.Failure("Error", sentence(rootMessage(err))))
		return model.BookFields{}, failure.Validation(op, err)
	}
	return fields, nil
}

func rootMessage(err error) string {
	for _, sentinel := range []error{model.ErrFieldsRequired, model.ErrYearFormat, model.ErrUnknownAuthor} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

func sentence(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
