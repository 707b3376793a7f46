package model

import (
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// AuthorInput holds the raw values of the author form.
type AuthorInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Normalize trims surrounding whitespace from every field.
func (in AuthorInput) Normalize() AuthorInput {
	return AuthorInput{
		FirstName: strings.TrimSpace(in.FirstName),
		LastName:  strings.TrimSpace(in.LastName),
	}
}

// Validate requires both names. Whitespace-only values count as missing.
func (in AuthorInput) Validate() error {
	n := in.Normalize()
	err := validation.Errors{
		"firstName": validation.Validate(n.FirstName, validation.Required),
		"lastName":  validation.Validate(n.LastName, validation.Required),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFieldsRequired, err)
	}
	return nil
}

// Fields returns the normalized values to send to the remote store.
func (in AuthorInput) Fields() AuthorFields {
	n := in.Normalize()
	return AuthorFields{FirstName: n.FirstName, LastName: n.LastName}
}
