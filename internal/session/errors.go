package session

import "errors"

var (
	ErrPageOutOfRange   = errors.New("page out of range")
	ErrUnknownSortField = errors.New("unknown sort field")
)
