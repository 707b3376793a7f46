package remote

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authormodel "bibliotech/internal/domains/author/model"
	bookmodel "bibliotech/internal/domains/book/model"
)

// newTestPostgres connects to BIBLIOTECH_TEST_DATABASE_URL and skips when it
// is not set. Tables are truncated before each test.
func newTestPostgres(t *testing.T) *Postgres {
	t.Helper()
	dsn := os.Getenv("BIBLIOTECH_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("BIBLIOTECH_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	p := NewPostgres(pool)
	require.NoError(t, p.EnsureSchema(ctx))
	_, err = pool.Exec(ctx, `TRUNCATE books, authors`)
	require.NoError(t, err)
	return p
}

func TestPostgresRoundTrip(t *testing.T) {
	p := newTestPostgres(t)
	ctx := context.Background()

	austen, err := p.InsertAuthor(ctx, authormodel.AuthorFields{FirstName: "Jane", LastName: "Austen"})
	require.NoError(t, err)

	row, err := p.InsertBook(ctx, bookmodel.BookFields{AuthorID: austen.ID, ISBN: "978", Title: "Emma", Year: 1815})
	require.NoError(t, err)
	require.NotNil(t, row.Author)
	assert.Equal(t, "Jane", row.Author.FirstName)

	updated, err := p.UpdateBook(ctx, row.ID, bookmodel.BookFields{AuthorID: austen.ID, ISBN: "978", Title: "Emma (2nd ed.)", Year: 1816})
	require.NoError(t, err)
	assert.Equal(t, 1816, updated.Year)

	rows, err := p.ListBooksWithAuthor(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Emma (2nd ed.)", rows[0].Title)

	err = p.DeleteAuthor(ctx, austen.ID)
	assert.True(t, IsCode(err, CodeForeignKey))

	require.NoError(t, p.DeleteBook(ctx, row.ID))
	require.NoError(t, p.DeleteAuthor(ctx, austen.ID))

	authors, err := p.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Empty(t, authors)
}

func TestPostgresUnknownAuthor(t *testing.T) {
	p := newTestPostgres(t)

	_, err := p.InsertBook(context.Background(), bookmodel.BookFields{
		AuthorID: "00000000-0000-0000-0000-000000000000", ISBN: "1", Title: "Orphan", Year: 2000,
	})

	assert.True(t, IsCode(err, CodeForeignKey))
}

func TestPostgresUpdateMissingAuthor(t *testing.T) {
	p := newTestPostgres(t)

	_, err := p.UpdateAuthor(context.Background(), "00000000-0000-0000-0000-000000000000",
		authormodel.AuthorFields{FirstName: "A", LastName: "B"})

	assert.True(t, IsCode(err, CodeNotFound))
}

func TestPostgresDeleteMalformedID(t *testing.T) {
	p := newTestPostgres(t)
	ctx := context.Background()

	assert.NoError(t, p.DeleteAuthor(ctx, "not-a-uuid"))
	assert.NoError(t, p.DeleteBook(ctx, "not-a-uuid"))
	assert.NoError(t, NewMemory().DeleteAuthor(ctx, "not-a-uuid"))
}

func TestMalformedID(t *testing.T) {
	assert.True(t, malformedID(&pgconn.PgError{Code: "22P02"}))
	assert.True(t, malformedID(errors.Join(errors.New("exec"), &pgconn.PgError{Code: "22P02"})))
	assert.False(t, malformedID(&pgconn.PgError{Code: "23503"}))
	assert.False(t, malformedID(nil))
}
