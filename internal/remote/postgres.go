package remote

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	authormodel "bibliotech/internal/domains/author/model"
	bookmodel "bibliotech/internal/domains/book/model"
	"bibliotech/pkg/database"
)

//go:embed schema.sql
var schemaSQL string

// Postgres implements Gateway on a pgx connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

var _ Gateway = (*Postgres)(nil)

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

// EnsureSchema creates the authors and books tables when missing.
func (p *Postgres) EnsureSchema(ctx context.Context) error {
	if _, err := p.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

const authorColumns = `id::text, first_name, last_name, created_at, updated_at`

const bookWithAuthorSelect = `
	SELECT b.id::text, b.author_id::text, b.isbn, b.title, b.year, b.created_at, b.updated_at,
	       a.id::text, a.first_name, a.last_name, a.created_at, a.updated_at
	FROM books b
	LEFT JOIN authors a ON a.id = b.author_id
`

func scanAuthor(row pgx.Row) (authormodel.Author, error) {
	var a authormodel.Author
	err := row.Scan(&a.ID, &a.FirstName, &a.LastName, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

func scanBookWithAuthor(row pgx.Row) (BookWithAuthor, error) {
	var (
		r                   BookWithAuthor
		authorID            *string
		firstName, lastName *string
		created, updated    *time.Time
	)
	err := row.Scan(
		&r.ID, &r.AuthorID, &r.ISBN, &r.Title, &r.Year, &r.CreatedAt, &r.UpdatedAt,
		&authorID, &firstName, &lastName, &created, &updated,
	)
	if err != nil {
		return BookWithAuthor{}, err
	}
	// LEFT JOIN columns are all NULL when the author row is gone.
	if authorID != nil {
		r.Author = &authormodel.Author{
			ID:        *authorID,
			FirstName: *firstName,
			LastName:  *lastName,
			CreatedAt: *created,
			UpdatedAt: *updated,
		}
	}
	return r, nil
}

func (p *Postgres) ListAuthors(ctx context.Context) ([]authormodel.Author, error) {
	query := `SELECT ` + authorColumns + ` FROM authors ORDER BY last_name ASC, first_name ASC`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, translate(OpListAuthors, err)
	}
	defer rows.Close()

	authors := make([]authormodel.Author, 0)
	for rows.Next() {
		a, err := scanAuthor(rows)
		if err != nil {
			return nil, translate(OpListAuthors, err)
		}
		authors = append(authors, a)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(OpListAuthors, err)
	}
	return authors, nil
}

func (p *Postgres) InsertAuthor(ctx context.Context, fields authormodel.AuthorFields) (authormodel.Author, error) {
	query := `
		INSERT INTO authors (first_name, last_name)
		VALUES ($1, $2)
		RETURNING ` + authorColumns

	a, err := scanAuthor(p.pool.QueryRow(ctx, query, fields.FirstName, fields.LastName))
	if err != nil {
		return authormodel.Author{}, translate(OpInsertAuthor, err)
	}
	return a, nil
}

func (p *Postgres) UpdateAuthor(ctx context.Context, id string, fields authormodel.AuthorFields) (authormodel.Author, error) {
	query := `
		UPDATE authors
		SET first_name = $2, last_name = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + authorColumns

	a, err := scanAuthor(p.pool.QueryRow(ctx, query, id, fields.FirstName, fields.LastName))
	if err != nil {
		return authormodel.Author{}, translate(OpUpdateAuthor, err)
	}
	return a, nil
}

func (p *Postgres) DeleteAuthor(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM authors WHERE id = $1`, id)
	if malformedID(err) {
		log.Debug().Str("id", id).Msg("delete author with malformed id")
		return nil
	}
	if err != nil {
		return translate(OpDeleteAuthor, err)
	}
	if tag.RowsAffected() == 0 {
		log.Debug().Str("id", id).Msg("delete author matched no rows")
	}
	return nil
}

func (p *Postgres) ListBooksWithAuthor(ctx context.Context) ([]BookWithAuthor, error) {
	rows, err := p.pool.Query(ctx, bookWithAuthorSelect+` ORDER BY b.title ASC`)
	if err != nil {
		return nil, translate(OpListBooksWithAuthor, err)
	}
	defer rows.Close()

	books := make([]BookWithAuthor, 0)
	for rows.Next() {
		r, err := scanBookWithAuthor(rows)
		if err != nil {
			return nil, translate(OpListBooksWithAuthor, err)
		}
		books = append(books, r)
	}
	if err := rows.Err(); err != nil {
		return nil, translate(OpListBooksWithAuthor, err)
	}
	return books, nil
}

// InsertBook writes the row and reads it back joined with its author in the
// same transaction.
func (p *Postgres) InsertBook(ctx context.Context, fields bookmodel.BookFields) (BookWithAuthor, error) {
	r, err := database.WithTransactionResult(ctx, p.pool, func(tx pgx.Tx) (BookWithAuthor, error) {
		var id string
		err := tx.QueryRow(ctx, `
			INSERT INTO books (author_id, isbn, title, year)
			VALUES ($1, $2, $3, $4)
			RETURNING id::text`,
			fields.AuthorID, fields.ISBN, fields.Title, fields.Year,
		).Scan(&id)
		if err != nil {
			return BookWithAuthor{}, err
		}
		return scanBookWithAuthor(tx.QueryRow(ctx, bookWithAuthorSelect+` WHERE b.id = $1`, id))
	})
	if err != nil {
		return BookWithAuthor{}, translate(OpInsertBook, err)
	}
	return r, nil
}

func (p *Postgres) UpdateBook(ctx context.Context, id string, fields bookmodel.BookFields) (BookWithAuthor, error) {
	r, err := database.WithTransactionResult(ctx, p.pool, func(tx pgx.Tx) (BookWithAuthor, error) {
		tag, err := tx.Exec(ctx, `
			UPDATE books
			SET author_id = $2, isbn = $3, title = $4, year = $5, updated_at = now()
			WHERE id = $1`,
			id, fields.AuthorID, fields.ISBN, fields.Title, fields.Year,
		)
		if err != nil {
			return BookWithAuthor{}, err
		}
		if tag.RowsAffected() == 0 {
			return BookWithAuthor{}, pgx.ErrNoRows
		}
		return scanBookWithAuthor(tx.QueryRow(ctx, bookWithAuthorSelect+` WHERE b.id = $1`, id))
	})
	if err != nil {
		return BookWithAuthor{}, translate(OpUpdateBook, err)
	}
	return r, nil
}

func (p *Postgres) DeleteBook(ctx context.Context, id string) error {
	tag, err := p.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if malformedID(err) {
		log.Debug().Str("id", id).Msg("delete book with malformed id")
		return nil
	}
	if err != nil {
		return translate(OpDeleteBook, err)
	}
	if tag.RowsAffected() == 0 {
		log.Debug().Str("id", id).Msg("delete book matched no rows")
	}
	return nil
}

// malformedID reports whether postgres refused an id that is not a uuid.
// No row can carry such an id.
func malformedID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// translate maps driver errors onto gateway codes.
func translate(op Op, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return notFoundError(op)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23503": // foreign_key_violation
			return foreignKeyError(op, err)
		case "22P02": // invalid_text_representation: a malformed uuid
			if op == OpInsertBook {
				return foreignKeyError(op, err)
			}
			return notFoundError(op)
		}
		log.Error().Err(err).Str("op", string(op)).Str("code", pgErr.Code).Msg("postgres rejected operation")
		return &Error{Op: op, Code: CodeInternal, Message: pgErr.Message, Err: err}
	}

	log.Error().Err(err).Str("op", string(op)).Msg("postgres unavailable")
	return newError(op, CodeUnavailable, err)
}
