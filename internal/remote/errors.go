package remote

import (
	"errors"

	authormodel "bibliotech/internal/domains/author/model"
	bookmodel "bibliotech/internal/domains/book/model"
)

// Code classifies why the store rejected an operation.
type Code string

const (
	CodeNotFound    Code = "not_found"
	CodeForeignKey  Code = "foreign_key"
	CodeUnavailable Code = "unavailable"
	CodeInternal    Code = "internal"
)

// Error is returned by every gateway implementation. Message is meant to be
// shown to the user as is.
type Error struct {
	Op      Op
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// IsCode reports whether err is a gateway error with the given code.
func IsCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func newError(op Op, code Code, cause error) *Error {
	return &Error{Op: op, Code: code, Message: cause.Error(), Err: cause}
}

// foreignKeyError picks the message for a referential violation from the
// operation that hit it.
func foreignKeyError(op Op, cause error) *Error {
	switch op {
	case OpDeleteAuthor:
		return &Error{Op: op, Code: CodeForeignKey, Message: authormodel.ErrAuthorHasBooks.Error(), Err: authormodel.ErrAuthorHasBooks}
	default:
		return &Error{Op: op, Code: CodeForeignKey, Message: bookmodel.ErrUnknownAuthor.Error(), Err: errors.Join(bookmodel.ErrUnknownAuthor, cause)}
	}
}

func notFoundError(op Op) *Error {
	switch op {
	case OpUpdateBook, OpDeleteBook:
		return newError(op, CodeNotFound, bookmodel.ErrBookNotFound)
	default:
		return newError(op, CodeNotFound, authormodel.ErrAuthorNotFound)
	}
}
