package remote

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	authormodel "bibliotech/internal/domains/author/model"
	bookmodel "bibliotech/internal/domains/book/model"
)

// Memory is an in-process store with the same contract as Postgres: server
// assigned ids and timestamps, and foreign key enforcement between books and
// authors. Tests drive it through FailNext and SetHook.
type Memory struct {
	mu       sync.Mutex
	authors  map[string]authormodel.Author
	books    map[string]bookmodel.Book
	now      func() time.Time
	failures map[Op][]string
	calls    map[Op]int
	hook     func(ctx context.Context, op Op)
}

var _ Gateway = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		authors:  make(map[string]authormodel.Author),
		books:    make(map[string]bookmodel.Book),
		now:      time.Now,
		failures: make(map[Op][]string),
		calls:    make(map[Op]int),
	}
}

// SetClock replaces the timestamp source.
func (m *Memory) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// FailNext makes the next call of op fail with message.
func (m *Memory) FailNext(op Op, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[op] = append(m.failures[op], message)
}

// SetHook installs h to run at the start of every call, before the store is
// touched. A hook that blocks holds the call in flight.
func (m *Memory) SetHook(h func(ctx context.Context, op Op)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = h
}

// Calls returns how many times op was invoked.
func (m *Memory) Calls(op Op) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[op]
}

// begin records the call, runs the hook and returns an injected or context
// failure. On nil it returns with m.mu held.
func (m *Memory) begin(ctx context.Context, op Op) error {
	m.mu.Lock()
	m.calls[op]++
	hook := m.hook
	m.mu.Unlock()

	if hook != nil {
		hook(ctx, op)
	}

	if err := ctx.Err(); err != nil {
		return newError(op, CodeUnavailable, err)
	}

	m.mu.Lock()
	if queued := m.failures[op]; len(queued) > 0 {
		m.failures[op] = queued[1:]
		m.mu.Unlock()
		log.Debug().Str("op", string(op)).Msg("memory store: injected failure")
		return &Error{Op: op, Code: CodeUnavailable, Message: queued[0], Err: errors.New(queued[0])}
	}
	return nil
}

func (m *Memory) ListAuthors(ctx context.Context) ([]authormodel.Author, error) {
	if err := m.begin(ctx, OpListAuthors); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	out := make([]authormodel.Author, 0, len(m.authors))
	for _, a := range m.authors {
		out = append(out, a)
	}
	slices.SortFunc(out, func(x, y authormodel.Author) int {
		return cmp.Or(
			cmp.Compare(x.LastName, y.LastName),
			cmp.Compare(x.FirstName, y.FirstName),
			cmp.Compare(x.ID, y.ID),
		)
	})
	return out, nil
}

func (m *Memory) InsertAuthor(ctx context.Context, fields authormodel.AuthorFields) (authormodel.Author, error) {
	if err := m.begin(ctx, OpInsertAuthor); err != nil {
		return authormodel.Author{}, err
	}
	defer m.mu.Unlock()

	now := m.now().UTC()
	a := authormodel.Author{
		ID:        uuid.Must(uuid.NewV7()).String(),
		FirstName: fields.FirstName,
		LastName:  fields.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.authors[a.ID] = a
	return a, nil
}

func (m *Memory) UpdateAuthor(ctx context.Context, id string, fields authormodel.AuthorFields) (authormodel.Author, error) {
	if err := m.begin(ctx, OpUpdateAuthor); err != nil {
		return authormodel.Author{}, err
	}
	defer m.mu.Unlock()

	a, ok := m.authors[id]
	if !ok {
		return authormodel.Author{}, notFoundError(OpUpdateAuthor)
	}
	a.FirstName = fields.FirstName
	a.LastName = fields.LastName
	a.UpdatedAt = m.now().UTC()
	m.authors[id] = a
	return a, nil
}

// DeleteAuthor removes id. Deleting an id that does not exist succeeds.
func (m *Memory) DeleteAuthor(ctx context.Context, id string) error {
	if err := m.begin(ctx, OpDeleteAuthor); err != nil {
		return err
	}
	defer m.mu.Unlock()

	for _, b := range m.books {
		if b.AuthorID == id {
			return foreignKeyError(OpDeleteAuthor, nil)
		}
	}
	delete(m.authors, id)
	return nil
}

func (m *Memory) ListBooksWithAuthor(ctx context.Context) ([]BookWithAuthor, error) {
	if err := m.begin(ctx, OpListBooksWithAuthor); err != nil {
		return nil, err
	}
	defer m.mu.Unlock()

	out := make([]BookWithAuthor, 0, len(m.books))
	for _, b := range m.books {
		out = append(out, m.joinLocked(b))
	}
	slices.SortFunc(out, func(x, y BookWithAuthor) int {
		return cmp.Or(cmp.Compare(x.Title, y.Title), cmp.Compare(x.ID, y.ID))
	})
	return out, nil
}

func (m *Memory) InsertBook(ctx context.Context, fields bookmodel.BookFields) (BookWithAuthor, error) {
	if err := m.begin(ctx, OpInsertBook); err != nil {
		return BookWithAuthor{}, err
	}
	defer m.mu.Unlock()

	if _, ok := m.authors[fields.AuthorID]; !ok {
		return BookWithAuthor{}, foreignKeyError(OpInsertBook, nil)
	}
	now := m.now().UTC()
	b := bookmodel.Book{
		ID:        uuid.Must(uuid.NewV7()).String(),
		AuthorID:  fields.AuthorID,
		ISBN:      fields.ISBN,
		Title:     fields.Title,
		Year:      fields.Year,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.books[b.ID] = b
	return m.joinLocked(b), nil
}

func (m *Memory) UpdateBook(ctx context.Context, id string, fields bookmodel.BookFields) (BookWithAuthor, error) {
	if err := m.begin(ctx, OpUpdateBook); err != nil {
		return BookWithAuthor{}, err
	}
	defer m.mu.Unlock()

	b, ok := m.books[id]
	if !ok {
		return BookWithAuthor{}, notFoundError(OpUpdateBook)
	}
	if _, ok := m.authors[fields.AuthorID]; !ok {
		return BookWithAuthor{}, foreignKeyError(OpUpdateBook, nil)
	}
	b.AuthorID = fields.AuthorID
	b.ISBN = fields.ISBN
	b.Title = fields.Title
	b.Year = fields.Year
	b.UpdatedAt = m.now().UTC()
	m.books[id] = b
	return m.joinLocked(b), nil
}

// DeleteBook removes id. Deleting an id that does not exist succeeds.
func (m *Memory) DeleteBook(ctx context.Context, id string) error {
	if err := m.begin(ctx, OpDeleteBook); err != nil {
		return err
	}
	defer m.mu.Unlock()

	delete(m.books, id)
	return nil
}

func (m *Memory) joinLocked(b bookmodel.Book) BookWithAuthor {
	row := BookWithAuthor{Book: b}
	if a, ok := m.authors[b.AuthorID]; ok {
		row.Author = &a
	}
	return row
}
