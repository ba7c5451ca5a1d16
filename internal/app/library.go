package app

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

// Library owns the quote collection and the view preferences. Its methods are
// the only way to read or mutate them, and they are safe for concurrent use.
//
// Persistence is best-effort: a failed read falls back to the default
// collection and a failed write is logged and otherwise ignored.
type Library struct {
	mu     sync.Mutex
	quotes *domain.Collection
	prefs  domain.Preferences

	store  ports.QuoteStore
	logger *slog.Logger
	now    func() time.Time
	newID  func() string
}

// LibraryConfig contains the dependencies of a Library.
type LibraryConfig struct {
	Store  ports.QuoteStore
	Logger *slog.Logger

	// Now and NewID default to time.Now and uuid.NewString.
	Now   func() time.Time
	NewID func() string
}

// NewLibrary creates an empty library. Call Load before use.
func NewLibrary(cfg LibraryConfig) *Library {
	if cfg.Store == nil {
		panic("app.NewLibrary: Store is required")
	}

	l := &Library{
		quotes: domain.NewCollection(nil),
		store:  cfg.Store,
		logger: cfg.Logger,
		now:    cfg.Now,
		newID:  cfg.NewID,
	}

	if l.logger == nil {
		l.logger = slog.Default()
	}

	if l.now == nil {
		l.now = time.Now
	}

	if l.newID == nil {
		l.newID = uuid.NewString
	}

	l.logger = l.logger.With(slog.String("component", "app.Library"))

	return l
}

// Load reads the collection and preferences from the store. Anything missing
// or unreadable is replaced with defaults.
func (l *Library) Load(ctx context.Context) {
	logger := logging.FromContextOr(ctx, l.logger)

	quotes, err := l.store.LoadQuotes(ctx)
	if err != nil {
		logger.DebugContext(ctx, "using default quotes", slog.Any("reason", err))

		quotes = domain.DefaultQuotes(l.now())
	}

	prefs, err := l.store.LoadPreferences(ctx)
	if err != nil {
		logger.DebugContext(ctx, "using default preferences", slog.Any("reason", err))

		prefs = domain.Preferences{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.quotes.Reset(quotes)
	l.prefs = prefs
}

// View calls fn with the collection under the lock. fn must not retain it.
func (l *Library) View(fn func(c *domain.Collection)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fn(l.quotes)
}

// Update calls fn with the collection under the lock and persists the result.
// The collection is persisted even when fn returns an error so that partial
// changes survive.
func (l *Library) Update(ctx context.Context, fn func(c *domain.Collection) error) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	err := fn(l.quotes)
	l.saveQuotesLocked(ctx)

	return err
}

// Reset restores the default collection and clears the last shown quote.
func (l *Library) Reset(ctx context.Context) []domain.Quote {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := l.store.ClearQuotes(ctx); err != nil {
		l.warn(ctx, "clearing quotes", err)
	}

	l.quotes.Reset(domain.DefaultQuotes(l.now()))
	l.saveQuotesLocked(ctx)

	l.prefs.LastQuote = nil
	l.savePrefsLocked(ctx)

	return l.quotes.All()
}

// Preferences returns the current preferences. A selected category that no
// longer has quotes reads back as CategoryAll.
func (l *Library) Preferences() domain.Preferences {
	l.mu.Lock()
	defer l.mu.Unlock()

	prefs := l.prefs
	if domain.IsAllCategory(prefs.Category) || !l.quotes.HasCategory(prefs.Category) {
		prefs.Category = domain.CategoryAll
	}

	if prefs.LastQuote != nil {
		last := *prefs.LastQuote
		prefs.LastQuote = &last
	}

	return prefs
}

// UpdatePreferences applies fn to the preferences and persists them.
func (l *Library) UpdatePreferences(ctx context.Context, fn func(p *domain.Preferences)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	fn(&l.prefs)
	l.savePrefsLocked(ctx)
}

// Now returns the library clock.
func (l *Library) Now() time.Time {
	return l.now()
}

// NewID returns a fresh quote identifier.
func (l *Library) NewID() string {
	return l.newID()
}

func (l *Library) saveQuotesLocked(ctx context.Context) {
	if err := l.store.SaveQuotes(ctx, l.quotes.All()); err != nil {
		l.warn(ctx, "saving quotes", err)
	}
}

func (l *Library) savePrefsLocked(ctx context.Context) {
	if err := l.store.SavePreferences(ctx, l.prefs); err != nil {
		l.warn(ctx, "saving preferences", err)
	}
}

func (l *Library) warn(ctx context.Context, action string, err error) {
	logging.FromContextOr(ctx, l.logger).WarnContext(ctx, "persistence failed",
		slog.String("action", action),
		slog.Any("error", err),
	)
}
