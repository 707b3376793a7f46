// Package notify delivers the toasts raised by the records client: a title
// and a description, either informational or destructive.
package notify

import (
	"context"
	"time"
)

type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

type Notification struct {
	Variant     Variant   `json:"variant"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	At          time.Time `json:"at"`
}

// Notifier receives every notification. Implementations must not block the
// caller for long and never fail it.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Success builds an informational notification.
func Success(title, description string) Notification {
	return Notification{Variant: VariantDefault, Title: title, Description: description, At: time.Now()}
}

// Failure builds a destructive notification.
func Failure(title, description string) Notification {
	return Notification{Variant: VariantDestructive, Title: title, Description: description, At: time.Now()}
}

// Multi fans a notification out to every notifier in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n Notification) {
	for _, notifier := range m {
		if notifier != nil {
			notifier.Notify(ctx, n)
		}
	}
}

// Discard drops every notification.
type Discard struct{}

func (Discard) Notify(context.Context, Notification) {}
