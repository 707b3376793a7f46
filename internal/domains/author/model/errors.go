package model

import "errors"

var (
	// Validation Errors
	ErrFieldsRequired = errors.New("please fill in all fields")

	// Business Rule Errors
	ErrAuthorNotFound = errors.New("author not found")
	ErrAuthorHasBooks = errors.New("cannot delete author with linked books")
)
