package model

import (
	"strings"
	"time"
)

// Author is the cached copy of one row of the remote authors table.
// Uniqueness of first/last name pairs is not enforced.
type Author struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AuthorFields are the writable columns sent to the remote store.
type AuthorFields struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// Key returns the cache identity of a.
func Key(a Author) string { return a.ID }

// DisplayName returns "First Last".
func (a Author) DisplayName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}
