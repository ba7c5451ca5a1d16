package app

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesync/internal/adapters/storage"
	"github.com/jsamuelsen/quotesync/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/mocks"
)

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

// newTestLibrary returns a library over an in-memory store seeded with quotes.
// A nil seed leaves the store empty so that Load falls back to defaults.
func newTestLibrary(t *testing.T, seed []domain.Quote) (*Library, *storage.QuoteStore) {
	t.Helper()

	store := storage.NewQuoteStore(memory.New())
	if seed != nil {
		require.NoError(t, store.SaveQuotes(context.Background(), seed))
	}

	n := 0
	lib := NewLibrary(LibraryConfig{
		Store:  store,
		Logger: discardLogger(),
		Now:    func() time.Time { return fixedNow },
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
	})
	lib.Load(context.Background())

	return lib, store
}

func TestNewLibrary_PanicsWithoutStore(t *testing.T) {
	assert.Panics(t, func() {
		NewLibrary(LibraryConfig{})
	})
}

func TestLibrary_LoadFallsBackToDefaults(t *testing.T) {
	lib, _ := newTestLibrary(t, nil)

	var got []domain.Quote
	lib.View(func(c *domain.Collection) { got = c.All() })

	assert.Equal(t, domain.DefaultQuotes(fixedNow), got)
}

func TestLibrary_LoadErrorFallsBackToDefaults(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	store.EXPECT().LoadQuotes(mock.Anything).Return(nil, errors.New("disk gone"))
	store.EXPECT().LoadPreferences(mock.Anything).Return(domain.Preferences{}, errors.New("disk gone"))

	lib := NewLibrary(LibraryConfig{Store: store, Logger: discardLogger()})
	lib.Load(context.Background())

	var n int
	lib.View(func(c *domain.Collection) { n = c.Len() })
	assert.Equal(t, 5, n)
}

// TestLibrary_WriteFailuresAreIgnored verifies that a failing store never
// surfaces an error from a mutation.
func TestLibrary_WriteFailuresAreIgnored(t *testing.T) {
	store := mocks.NewMockQuoteStore(t)
	store.EXPECT().LoadQuotes(mock.Anything).Return([]domain.Quote{}, nil)
	store.EXPECT().LoadPreferences(mock.Anything).Return(domain.Preferences{}, nil)
	store.EXPECT().SaveQuotes(mock.Anything, mock.Anything).Return(errors.New("quota exceeded"))

	lib := NewLibrary(LibraryConfig{Store: store, Logger: discardLogger()})
	lib.Load(context.Background())

	err := lib.Update(context.Background(), func(c *domain.Collection) error {
		c.Add(domain.Quote{ID: "x", Text: "T", Category: "C"})
		return nil
	})
	require.NoError(t, err)

	var n int
	lib.View(func(c *domain.Collection) { n = c.Len() })
	assert.Equal(t, 1, n)
}

func TestLibrary_UpdatePersistsEvenOnError(t *testing.T) {
	lib, store := newTestLibrary(t, []domain.Quote{})
	boom := errors.New("boom")

	err := lib.Update(context.Background(), func(c *domain.Collection) error {
		c.Add(domain.Quote{ID: "x", Text: "T", Category: "C", Source: domain.SourceLocal})
		return boom
	})
	require.ErrorIs(t, err, boom)

	stored, err := store.LoadQuotes(context.Background())
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestLibrary_ResetRestoresDefaultsAndClearsLastQuote(t *testing.T) {
	lib, store := newTestLibrary(t, []domain.Quote{{ID: "x", Text: "T", Category: "C", Source: domain.SourceLocal}})
	ctx := context.Background()

	last := domain.Quote{ID: "x", Text: "T", Category: "C"}
	lib.UpdatePreferences(ctx, func(p *domain.Preferences) { p.LastQuote = &last })

	quotes := lib.Reset(ctx)

	assert.Equal(t, domain.DefaultQuotes(fixedNow), quotes)
	assert.Nil(t, lib.Preferences().LastQuote)

	stored, err := store.LoadQuotes(ctx)
	require.NoError(t, err)
	assert.Equal(t, quotes, stored)
}

func TestLibrary_PreferencesFallBackToAll(t *testing.T) {
	lib, _ := newTestLibrary(t, nil)
	ctx := context.Background()

	assert.Equal(t, domain.CategoryAll, lib.Preferences().Category)

	lib.UpdatePreferences(ctx, func(p *domain.Preferences) { p.Category = "Programming" })
	assert.Equal(t, "Programming", lib.Preferences().Category)

	lib.UpdatePreferences(ctx, func(p *domain.Preferences) { p.Category = "Vanished" })
	assert.Equal(t, domain.CategoryAll, lib.Preferences().Category)
}
