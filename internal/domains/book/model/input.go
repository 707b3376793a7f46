package model

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var yearPattern = regexp.MustCompile(`^\d{4}$`)

// BookInput holds the raw values of the book form. Year stays a string until
// it has been checked against the 4-digit rule.
type BookInput struct {
	AuthorID string `json:"authorId"`
	ISBN     string `json:"isbn"`
	Title    string `json:"title"`
	Year     string `json:"year"`
}

// Normalize trims surrounding whitespace from every field.
func (in BookInput) Normalize() BookInput {
	return BookInput{
		AuthorID: strings.TrimSpace(in.AuthorID),
		ISBN:     strings.TrimSpace(in.ISBN),
		Title:    strings.TrimSpace(in.Title),
		Year:     strings.TrimSpace(in.Year),
	}
}

// Validate requires every field and a 4-digit year.
func (in BookInput) Validate() error {
	n := in.Normalize()
	err := validation.Errors{
		"authorId": validation.Validate(n.AuthorID, validation.Required),
		"isbn":     validation.Validate(n.ISBN, validation.Required),
		"title":    validation.Validate(n.Title, validation.Required),
		"year":     validation.Validate(n.Year, validation.Required),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFieldsRequired, err)
	}

	if err := validation.Validate(n.Year, validation.Match(yearPattern)); err != nil {
		return fmt.Errorf("%w: got %q", ErrYearFormat, n.Year)
	}
	return nil
}

// Fields converts a validated input into the values sent to the remote store.
func (in BookInput) Fields() (BookFields, error) {
	if err := in.Validate(); err != nil {
		return BookFields{}, err
	}
	n := in.Normalize()
	year, err := strconv.Atoi(n.Year)
	if err != nil {
		return BookFields{}, fmt.Errorf("%w: %v", ErrYearFormat, err)
	}
	return BookFields{
		AuthorID: n.AuthorID,
		ISBN:     n.ISBN,
		Title:    n.Title,
		Year:     year,
	}, nil
}

// InputFromBook fills the edit form from a cached book.
func InputFromBook(b Book) BookInput {
	return BookInput{
		AuthorID: b.AuthorID,
		ISBN:     b.ISBN,
		Title:    b.Title,
		Year:     b.YearString(),
	}
}
