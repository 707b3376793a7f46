package model

import (
	"strconv"
	"time"
)

// Book is the cached copy of one row of the remote books table.
// AuthorID is the only field that carries the relationship to an author.
type Book struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"authorId"`
	ISBN      string    `json:"isbn"`
	Title     string    `json:"title"`
	Year      int       `json:"year"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookFields are the writable columns sent to the remote store.
type BookFields struct {
	AuthorID string `json:"authorId"`
	ISBN     string `json:"isbn"`
	Title    string `json:"title"`
	Year     int    `json:"year"`
}

// BookView is a Book enriched with the display name of its author as found in
// the author cache at derivation time. It is never stored.
type BookView struct {
	Book
	AuthorFirstName string `json:"authorFirstName"`
	AuthorLastName  string `json:"authorLastName"`
	// AuthorResolved is false when AuthorID had no cached author; the name
	// fields are then empty.
	AuthorResolved bool `json:"authorResolved"`
}

// Key returns the cache identity of b.
func Key(b Book) string { return b.ID }

// YearString formats the year the way the search box sees it.
func (b Book) YearString() string { return strconv.Itoa(b.Year) }
