// Package session owns one records client: the author and book caches, their
// stores and the two list pages derived from them. Nothing is global; every
// collaborator gets the session it works with.
package session

import (
	"context"
	"sync/atomic"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	authormodel "bibliotech/internal/domains/author/model"
	authorservice "bibliotech/internal/domains/author/service"
	bookmodel "bibliotech/internal/domains/book/model"
	bookservice "bibliotech/internal/domains/book/service"
	"bibliotech/internal/infrastructure/notify"
	"bibliotech/internal/remote"
)

type Options struct {
	// Locale drives the collation of text sort keys. Defaults to English.
	Locale language.Tag
}

type Session struct {
	authors     *authorservice.Store
	books       *bookservice.Store
	authorsPage *Page[authormodel.Author]
	booksPage   *Page[bookmodel.BookView]
	closed      atomic.Bool
}

// New builds a session with both caches empty and loading. Call Start to
// fetch the data.
func New(gw remote.Gateway, notifier notify.Notifier, opts Options) *Session {
	if opts.Locale == language.Und {
		opts.Locale = language.English
	}

	s := &Session{}
	s.authors = authorservice.NewStore(gw, notifier)
	s.books = bookservice.NewStore(gw, notifier, s.authors)

	s.authorsPage = newPage(authorservice.Schema, opts.Locale,
		func() ([]authormodel.Author, bool) {
			if s.authors.IsLoading() {
				return nil, true
			}
			return s.authors.Records(), false
		},
		s.authors.Version,
	)
	s.booksPage = newPage(bookservice.Schema, opts.Locale,
		func() ([]bookmodel.BookView, bool) {
			if !s.Ready() {
				return nil, true
			}
			views := s.books.Views()
			if err := bookservice.Unresolved(views); err != nil {
				log.Warn().Err(err).Msg("book views with unresolved authors")
			}
			return views, false
		},
		s.books.Version,
	)
	return s
}

// Start loads authors and books concurrently. Each load reports its own
// failure; one failing does not stop the other.
func (s *Session) Start(ctx context.Context) error {
	var g errgroup.Group
	g.Go(func() error { return s.authors.Load(ctx) })
	g.Go(func() error { return s.books.Load(ctx) })
	err := g.Wait()

	log.Info().
		Int("authors", len(s.authors.Records())).
		Int("books", len(s.books.Records())).
		Bool("ok", err == nil).
		Msg("session loaded")
	return err
}

// Refresh refetches both tables.
func (s *Session) Refresh(ctx context.Context) error { return s.Start(ctx) }

// Ready reports whether both caches have finished loading.
func (s *Session) Ready() bool {
	return !s.authors.IsLoading() && !s.books.IsLoading()
}

func (s *Session) Authors() *authorservice.Store { return s.authors }

func (s *Session) Books() *bookservice.Store { return s.books }

func (s *Session) AuthorsPage() *Page[authormodel.Author] { return s.authorsPage }

func (s *Session) BooksPage() *Page[bookmodel.BookView] { return s.booksPage }

// AuthorBooks returns the joined books of one author.
func (s *Session) AuthorBooks(authorID string) []bookmodel.BookView {
	return s.books.ByAuthor(authorID)
}

// Close tears the session down. Mutations afterwards fail with
// failure.ErrClosed.
func (s *Session) Close() {
	if !s.closed.CompareAndSwap(false, true) {
		return
	}
	s.authors.Close()
	s.books.Close()
	log.Info().Msg("session closed")
}

func (s *Session) Closed() bool { return s.closed.Load() }
