package spreadsheet

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	authormodel "bibliotech/internal/domains/author/model"
	bookmodel "bibliotech/internal/domains/book/model"
	"bibliotech/internal/shared/failure"
)

// AuthorSink is the part of the author store the importer writes through.
type AuthorSink interface {
	Records() []authormodel.Author
	Add(ctx context.Context, in authormodel.AuthorInput) (authormodel.Author, error)
}

// BookSink is the part of the book store the importer writes through.
type BookSink interface {
	Add(ctx context.Context, in bookmodel.BookInput) (bookmodel.Book, error)
}

// RowError is a row that could not be imported.
type RowError struct {
	Sheet   string `json:"sheet"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type Report struct {
	AuthorsAdded int        `json:"authorsAdded"`
	BooksAdded   int        `json:"booksAdded"`
	Errors       []RowError `json:"errors"`
	// Skipped lists author rows naming an author that was already cached
	// before the import started.
	Skipped []RowError `json:"skipped"`
}

// Importer adds every row of a workbook through the stores, one remote call
// per record. A failing row is recorded and the import goes on.
type Importer struct {
	authors AuthorSink
	books   BookSink
}

func NewImporter(authors AuthorSink, books BookSink) *Importer {
	return &Importer{authors: authors, books: books}
}

// Import reads the authors sheet, then the books sheet. Every author row adds
// an author, even when its name repeats a row above; rows naming an author
// that existed before the import are skipped so a re-import adds nothing.
// A book resolves its author by name to the first match and creates the
// author when none is known.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Report, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Report{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var report Report
	existing := make(map[string]string)
	for _, a := range im.authors.Records() {
		key := nameKey(a.FirstName, a.LastName)
		if _, ok := existing[key]; !ok {
			existing[key] = a.ID
		}
	}
	known := make(map[string]string, len(existing))
	for k, id := range existing {
		known[k] = id
	}

	authorRows, err := readSheet(f, SheetAuthors)
	if err != nil {
		return report, err
	}
	if len(authorRows) > 0 {
		cols := columnIndex(authorRows[0])
		for i, row := range authorRows[1:] {
			if blank(row) {
				continue
			}
			in := authormodel.AuthorInput{
				FirstName: cell(row, cols, "first name"),
				LastName:  cell(row, cols, "last name"),
			}
			key := nameKey(in.FirstName, in.LastName)
			if _, ok := existing[key]; ok {
				report.Skipped = append(report.Skipped, RowError{Sheet: SheetAuthors, Row: i + 2, Message: "author already exists"})
				continue
			}
			a, err := im.addAuthor(ctx, in, &report)
			if err != nil {
				report.Errors = append(report.Errors, rowError(SheetAuthors, i+2, err))
				continue
			}
			if _, ok := known[key]; !ok {
				known[key] = a.ID
			}
		}
	}

	bookRows, err := readSheet(f, SheetBooks)
	if err != nil {
		return report, err
	}
	if len(bookRows) > 0 {
		cols := columnIndex(bookRows[0])
		for i, row := range bookRows[1:] {
			if blank(row) {
				continue
			}
			if err := im.importBook(ctx, known, row, cols, &report); err != nil {
				report.Errors = append(report.Errors, rowError(SheetBooks, i+2, err))
			}
		}
	}

	log.Info().
		Int("authors", report.AuthorsAdded).
		Int("books", report.BooksAdded).
		Int("errors", len(report.Errors)).
		Int("skipped", len(report.Skipped)).
		Msg("spreadsheet import finished")
	return report, nil
}

func (im *Importer) importBook(ctx context.Context, known map[string]string, row []string, cols map[string]int, report *Report) error {
	authorID, err := im.ensureAuthor(ctx, known, authormodel.AuthorInput{
		FirstName: cell(row, cols, "author first name"),
		LastName:  cell(row, cols, "author last name"),
	}, report)
	if err != nil {
		return err
	}

	_, err = im.books.Add(ctx, bookmodel.BookInput{
		AuthorID: authorID,
		ISBN:     cell(row, cols, "isbn"),
		Title:    cell(row, cols, "title"),
		Year:     cell(row, cols, "year"),
	})
	if err != nil {
		return err
	}
	report.BooksAdded++
	return nil
}

// ensureAuthor returns the id of the author named by in, adding it when it
// is not known yet.
func (im *Importer) ensureAuthor(ctx context.Context, known map[string]string, in authormodel.AuthorInput, report *Report) (string, error) {
	key := nameKey(in.FirstName, in.LastName)
	if id, ok := known[key]; ok {
		return id, nil
	}
	a, err := im.addAuthor(ctx, in, report)
	if err != nil {
		return "", err
	}
	known[key] = a.ID
	return a.ID, nil
}

func (im *Importer) addAuthor(ctx context.Context, in authormodel.AuthorInput, report *Report) (authormodel.Author, error) {
	a, err := im.authors.Add(ctx, in)
	if err != nil {
		return authormodel.Author{}, err
	}
	report.AuthorsAdded++
	return a, nil
}

func readSheet(f *excelize.File, sheet string) ([][]string, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to look up sheet %q: %w", sheet, err)
	}
	if idx == -1 {
		log.Debug().Str("sheet", sheet).Msg("sheet not present, skipping")
		return nil, nil
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func nameKey(first, last string) string {
	return strings.ToLower(strings.TrimSpace(first)) + "\x00" + strings.ToLower(strings.TrimSpace(last))
}

func rowError(sheet string, row int, err error) RowError {
	return RowError{Sheet: sheet, Row: row, Message: failure.Message(err)}
}
