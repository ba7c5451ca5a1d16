// Package ports defines the interfaces the application layer depends on.
// Adapters implement them; the application never sees transport or storage types.
//
// Conventions:
//   - context.Context is always the first parameter
//   - methods return domain types and domain errors
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/quotesync/internal/domain"
)

// KeyValueStore is a durable string-keyed byte store.
type KeyValueStore interface {
	// Get returns the value for key, or (nil, nil) when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set creates or overwrites the value for key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}

// QuoteStore persists the quote collection and the view preferences.
type QuoteStore interface {
	// LoadQuotes returns the stored collection.
	// Returns domain.ErrNotFound when nothing is stored and domain.ErrValidation
	// when the stored value is not a JSON array.
	LoadQuotes(ctx context.Context) ([]domain.Quote, error)

	// SaveQuotes overwrites the stored collection.
	SaveQuotes(ctx context.Context, quotes []domain.Quote) error

	// ClearQuotes removes the stored collection.
	ClearQuotes(ctx context.Context) error

	// LoadPreferences returns stored preferences, or zero preferences when none exist.
	LoadPreferences(ctx context.Context) (domain.Preferences, error)

	// SavePreferences overwrites the stored preferences.
	SavePreferences(ctx context.Context, prefs domain.Preferences) error
}

// RemoteQuotes is the remote endpoint the collection is reconciled against.
type RemoteQuotes interface {
	// CreateQuote submits a quote and returns the identifier the remote assigned.
	// Returns domain.ErrUnavailable on transport failures.
	CreateQuote(ctx context.Context, draft domain.Draft) (string, error)

	// ListQuotes fetches up to limit remote quotes with Text, Category,
	// ServerID, and Source populated.
	ListQuotes(ctx context.Context, limit int) ([]domain.Quote, error)
}

// SyncObserver is notified about sync cycles, typically to record metrics.
type SyncObserver interface {
	// SyncSkipped is called when a cycle is dropped because one is in flight.
	SyncSkipped()

	// SyncFinished is called once per executed cycle with its outcome.
	SyncFinished(result domain.SyncResult, err error, elapsed time.Duration)
}
