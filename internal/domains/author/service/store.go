package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"bibliotech/internal/cache"
	"bibliotech/internal/domains/author/model"
	"bibliotech/internal/infrastructure/notify"
	"bibliotech/internal/remote"
	"bibliotech/internal/shared/failure"
)

// Store is the author boundary used by the presentation layer. It validates
// form input, runs the remote operation through the cache and raises one
// notification per outcome.
type Store struct {
	gw       remote.AuthorGateway
	cache    *cache.EntityCache[model.Author]
	notifier notify.Notifier
}

func NewStore(gw remote.AuthorGateway, notifier notify.Notifier) *Store {
	if notifier == nil {
		notifier = notify.Discard{}
	}
	return &Store{
		gw:       gw,
		cache:    cache.New("authors", model.Key),
		notifier: notifier,
	}
}

// Records returns the cached authors in cache order.
func (s *Store) Records() []model.Author { return s.cache.Records() }

func (s *Store) IsLoading() bool { return s.cache.IsLoading() }

// Version changes whenever the cached authors change.
func (s *Store) Version() uint64 { return s.cache.Version() }

func (s *Store) Get(id string) (model.Author, bool) { return s.cache.Get(id) }

// Lookup resolves an author id against the cache. It never calls the remote.
func (s *Store) Lookup(id string) (model.Author, bool) { return s.cache.Get(id) }

// Exists reports whether id is a cached author.
func (s *Store) Exists(id string) bool {
	_, ok := s.cache.Get(id)
	return ok
}

// Load fetches every author and replaces the cache.
func (s *Store) Load(ctx context.Context) error {
	err := s.cache.Load(ctx, s.gw.ListAuthors)
	if err != nil {
		s.notifier.Notify(ctx, notify.Failure("Error fetching authors", failure.Message(err)))
	}
	return err
}

// Refetch reloads the authors from the remote.
func (s *Store) Refetch(ctx context.Context) error { return s.Load(ctx) }

func (s *Store) Add(ctx context.Context, in model.AuthorInput) (model.Author, error) {
	const op = "authors.add"
	if err := in.Validate(); err != nil {
		s.rejectInput(ctx, err)
		return model.Author{}, failure.Validation(op, err)
	}
	fields := in.Fields()

	a, err := s.cache.Add(ctx, func(ctx context.Context) (model.Author, error) {
		return s.gw.InsertAuthor(ctx, fields)
	})
	if err != nil {
		s.notifier.Notify(ctx, notify.Failure("Error adding author", failure.Message(err)))
		return model.Author{}, err
	}

	log.Info().Str("id", a.ID).Str("name", a.DisplayName()).Msg("author added")
	s.notifier.Notify(ctx, notify.Success("Author added", fields.FirstName+" "+fields.LastName+" has been added successfully."))
	return a, nil
}

// Update replaces the author with id by the record the remote returns.
func (s *Store) Update(ctx context.Context, id string, in model.AuthorInput) (model.Author, error) {
	const op = "authors.update"
	if err := in.Validate(); err != nil {
		s.rejectInput(ctx, err)
		return model.Author{}, failure.Validation(op, err)
	}
	fields := in.Fields()

	a, err := s.cache.Update(ctx, id, func(ctx context.Context) (model.Author, error) {
		return s.gw.UpdateAuthor(ctx, id, fields)
	})
	if err != nil {
		s.notifier.Notify(ctx, notify.Failure("Error updating author", failure.Message(err)))
		return model.Author{}, err
	}

	log.Info().Str("id", id).Str("name", a.DisplayName()).Msg("author updated")
	s.notifier.Notify(ctx, notify.Success("Author updated", fields.FirstName+" "+fields.LastName+" has been updated successfully."))
	return a, nil
}

// Remove deletes the author. The remote refuses while books reference it.
func (s *Store) Remove(ctx context.Context, id string) error {
	err := s.cache.Remove(ctx, id, func(ctx context.Context) error {
		return s.gw.DeleteAuthor(ctx, id)
	})
	if err != nil {
		s.notifier.Notify(ctx, notify.Failure("Error deleting author", failure.Message(err)))
		return err
	}

	log.Info().Str("id", id).Msg("author deleted")
	s.notifier.Notify(ctx, notify.Success("Author deleted", "Author has been deleted successfully."))
	return nil
}

// Close discards the cache. Later mutations fail with a closed failure.
func (s *Store) Close() { s.cache.Close() }

func (s *Store) rejectInput(ctx context.Context, err error) {
	msg := "Please fill in all fields"
	if !errors.Is(err, model.ErrFieldsRequired) {
		msg = err.Error()
	}
	s.notifier.Notify(ctx, notify.Failure("Error", msg))
}
