// Package storage persists the quote collection and preferences in a
// key/value store.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/jsamuelsen/quotesync/internal/adapters/transfer"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

// Storage keys.
const (
	QuotesKey      = "dqg-quotes-v2"
	PreferencesKey = "dqg-preferences"
)

// Compile-time interface check.
var _ ports.QuoteStore = (*QuoteStore)(nil)

type preferencesRecord struct {
	Category  string           `json:"category,omitempty"`
	LastQuote *transfer.Record `json:"lastQuote,omitempty"`
}

// QuoteStore implements ports.QuoteStore over a ports.KeyValueStore.
type QuoteStore struct {
	kv ports.KeyValueStore
}

// NewQuoteStore creates a QuoteStore.
func NewQuoteStore(kv ports.KeyValueStore) *QuoteStore {
	return &QuoteStore{kv: kv}
}

// LoadQuotes implements ports.QuoteStore. Stored entries without an ID are
// given one so that every loaded quote is addressable.
func (s *QuoteStore) LoadQuotes(ctx context.Context) ([]domain.Quote, error) {
	data, err := s.kv.Get(ctx, QuotesKey)
	if err != nil {
		return nil, fmt.Errorf("reading quotes: %w", err)
	}

	if data == nil {
		return nil, domain.NewNotFoundError("quotes", QuotesKey)
	}

	quotes, err := transfer.Unmarshal(data)
	if err != nil {
		return nil, err
	}

	for i := range quotes {
		if quotes[i].ID == "" {
			quotes[i].ID = uuid.NewString()
		}
	}

	return quotes, nil
}

// SaveQuotes implements ports.QuoteStore.
func (s *QuoteStore) SaveQuotes(ctx context.Context, quotes []domain.Quote) error {
	data, err := transfer.Marshal(quotes)
	if err != nil {
		return err
	}

	if err := s.kv.Set(ctx, QuotesKey, data); err != nil {
		return fmt.Errorf("writing quotes: %w", err)
	}

	return nil
}

// ClearQuotes implements ports.QuoteStore.
func (s *QuoteStore) ClearQuotes(ctx context.Context) error {
	if err := s.kv.Delete(ctx, QuotesKey); err != nil {
		return fmt.Errorf("clearing quotes: %w", err)
	}

	return nil
}

// LoadPreferences implements ports.QuoteStore.
func (s *QuoteStore) LoadPreferences(ctx context.Context) (domain.Preferences, error) {
	data, err := s.kv.Get(ctx, PreferencesKey)
	if err != nil {
		return domain.Preferences{}, fmt.Errorf("reading preferences: %w", err)
	}

	if data == nil {
		return domain.Preferences{}, nil
	}

	var rec preferencesRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return domain.Preferences{}, domain.NewValidationError("preferences", err.Error())
	}

	prefs := domain.Preferences{Category: rec.Category}
	if rec.LastQuote != nil {
		if q, ok := rec.LastQuote.ToDomain(); ok {
			prefs.LastQuote = &q
		}
	}

	return prefs, nil
}

// SavePreferences implements ports.QuoteStore.
func (s *QuoteStore) SavePreferences(ctx context.Context, prefs domain.Preferences) error {
	rec := preferencesRecord{Category: prefs.Category}
	if prefs.LastQuote != nil {
		r := transfer.FromDomain(*prefs.LastQuote)
		rec.LastQuote = &r
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	if err := s.kv.Set(ctx, PreferencesKey, data); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}

	return nil
}
