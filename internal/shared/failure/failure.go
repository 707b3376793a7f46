// Package failure classifies the errors returned by the records client.
//
// Every operation boundary converts what went wrong into a *Failure so callers
// can branch on the kind with errors.Is and show the underlying message.
package failure

import (
	"errors"
)

// Kind identifies one branch of the error taxonomy.
type Kind string

const (
	KindRemote      Kind = "remote"
	KindValidation  Kind = "validation"
	KindReferential Kind = "referential"
	KindConflict    Kind = "conflict"
	KindClosed      Kind = "closed"
)

type kindError Kind

func (k kindError) Error() string { return string(k) + " failure" }

// Kind sentinels, matched through errors.Is against any *Failure.
var (
	ErrRemote      error = kindError(KindRemote)
	ErrValidation  error = kindError(KindValidation)
	ErrReferential error = kindError(KindReferential)
	ErrConflict    error = kindError(KindConflict)
	ErrClosed      error = kindError(KindClosed)
)

var (
	ErrInFlight      = errors.New("another operation is already in progress for this record")
	ErrSessionClosed = errors.New("session is closed")
)

// Failure is the error value produced at every operation boundary.
type Failure struct {
	Kind Kind
	Op   string
	Err  error
}

func (f *Failure) Error() string {
	if f.Op == "" {
		return f.Err.Error()
	}
	return f.Op + ": " + f.Err.Error()
}

func (f *Failure) Unwrap() error { return f.Err }

// Is reports whether target is the sentinel for f's kind.
func (f *Failure) Is(target error) bool {
	k, ok := target.(kindError)
	return ok && Kind(k) == f.Kind
}

func newFailure(kind Kind, op string, err error) error {
	var existing *Failure
	if errors.As(err, &existing) {
		return err
	}
	return &Failure{Kind: kind, Op: op, Err: err}
}

// Remote wraps an error returned by the remote store. An error that already
// carries a kind is returned unchanged.
func Remote(op string, err error) error { return newFailure(KindRemote, op, err) }

// Validation wraps an input error detected before any remote call.
func Validation(op string, err error) error { return newFailure(KindValidation, op, err) }

func Referential(op string, err error) error { return newFailure(KindReferential, op, err) }

func Conflict(op string, err error) error { return newFailure(KindConflict, op, err) }

func Closed(op string) error { return &Failure{Kind: KindClosed, Op: op, Err: ErrSessionClosed} }

// KindOf returns the kind of err, or "" when err is not a *Failure.
func KindOf(err error) Kind {
	var f *Failure
	if errors.As(err, &f) {
		return f.Kind
	}
	return ""
}

// Message returns the human-readable message carried by err, without the
// operation prefix.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Err.Error()
	}
	return err.Error()
}
