// Package app contains application services that orchestrate use cases.
// It coordinates the domain collection with storage and the remote endpoint
// through ports; it knows nothing about HTTP or the CLI.
package app

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
)

// AddQuoteInput is the raw user input for a new quote.
type AddQuoteInput struct {
	Text     string
	Category string
}

// QuoteService implements the collection use cases: listing, random pick,
// add, import, export, reset, and preferences.
type QuoteService struct {
	library *Library
	exec    *Executor
	logger  *slog.Logger
	pick    func(n int) int
}

// QuoteServiceConfig contains configuration for the quote service.
type QuoteServiceConfig struct {
	Library *Library
	Logger  *slog.Logger

	// Pick returns a uniform index in [0, n). Defaults to math/rand/v2.
	Pick func(n int) int
}

// NewQuoteService creates a quote service.
func NewQuoteService(cfg QuoteServiceConfig) *QuoteService {
	if cfg.Library == nil {
		panic("app.NewQuoteService: Library is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	pick := cfg.Pick
	if pick == nil {
		pick = rand.IntN
	}

	return &QuoteService{
		library: cfg.Library,
		exec:    NewExecutor(logger),
		logger:  logger.With(slog.String("component", "app.QuoteService")),
		pick:    pick,
	}
}

// List returns the quotes in category in insertion order. The category is
// normalized first; CategoryAll or "" selects every quote.
func (s *QuoteService) List(_ context.Context, category string) []domain.Quote {
	var quotes []domain.Quote

	category = filterCategory(category)
	s.library.View(func(c *domain.Collection) {
		quotes = c.Filter(category)
	})

	return quotes
}

// Export returns the whole collection.
func (s *QuoteService) Export(ctx context.Context) []domain.Quote {
	return s.List(ctx, domain.CategoryAll)
}

// Categories returns the distinct categories, sorted.
func (s *QuoteService) Categories(_ context.Context) []string {
	var categories []string

	s.library.View(func(c *domain.Collection) {
		categories = c.Categories()
	})

	return categories
}

// Random picks a quote from category uniformly and records it as the last
// shown quote. An empty pool clears the last shown quote and returns a
// not-found error.
func (s *QuoteService) Random(ctx context.Context, category string) (domain.Quote, error) {
	pool := s.List(ctx, category)

	if len(pool) == 0 {
		s.library.UpdatePreferences(ctx, func(p *domain.Preferences) {
			p.LastQuote = nil
		})

		return domain.Quote{}, domain.NewEmptyCategoryError(filterCategory(category))
	}

	q := pool[s.pick(len(pool))]

	s.library.UpdatePreferences(ctx, func(p *domain.Preferences) {
		last := q
		p.LastQuote = &last
	})

	return q, nil
}

// Add creates a pending local quote and selects its category.
func (s *QuoteService) Add(ctx context.Context, input AddQuoteInput) (domain.Quote, error) {
	return Execute(ctx, s.exec, Operation[AddQuoteInput, domain.Quote, domain.Quote]{
		Name: "add_quote",
		Validate: func(_ context.Context, in AddQuoteInput) error {
			_, err := domain.NewInputDraft(in.Text, in.Category)
			return err
		},
		Perform: func(ctx context.Context, in AddQuoteInput) (domain.Quote, error) {
			draft, err := domain.NewInputDraft(in.Text, in.Category)
			if err != nil {
				return domain.Quote{}, err
			}

			q := domain.Quote{
				ID:        s.library.NewID(),
				Text:      draft.Text,
				Category:  draft.Category,
				Source:    domain.SourceLocal,
				UpdatedAt: s.library.Now(),
				Pending:   true,
			}

			err = s.library.Update(ctx, func(c *domain.Collection) error {
				c.Add(q)
				return nil
			})

			return q, err
		},
		Archive: func(ctx context.Context, q domain.Quote) error {
			s.library.UpdatePreferences(ctx, func(p *domain.Preferences) {
				p.Category = q.Category
			})

			return nil
		},
		Respond: func(ctx context.Context, q domain.Quote) (domain.Quote, error) {
			logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quote added",
				slog.String("quote_id", q.ID),
				slog.String("category", q.Category),
			)

			return q, nil
		},
	}, input)
}

// Import merges drafts into the collection, skipping merge keys that are
// already present. Nothing changes when drafts is empty.
func (s *QuoteService) Import(ctx context.Context, drafts []domain.Draft) (domain.ImportResult, error) {
	return Execute(ctx, s.exec, Operation[[]domain.Draft, domain.ImportResult, domain.ImportResult]{
		Name: "import_quotes",
		Validate: func(_ context.Context, in []domain.Draft) error {
			if len(in) == 0 {
				return domain.NewValidationError("", "no valid quotes found")
			}

			return nil
		},
		Perform: func(ctx context.Context, in []domain.Draft) (domain.ImportResult, error) {
			var res domain.ImportResult

			err := s.library.Update(ctx, func(c *domain.Collection) error {
				res = c.Import(in, s.library.NewID, s.library.Now())
				return nil
			})

			return res, err
		},
		Respond: func(ctx context.Context, res domain.ImportResult) (domain.ImportResult, error) {
			logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quotes imported",
				slog.Int("imported", res.Imported),
				slog.Int("skipped", res.Skipped),
			)

			return res, nil
		},
	}, drafts)
}

// Reset restores the default collection.
func (s *QuoteService) Reset(ctx context.Context) []domain.Quote {
	quotes := s.library.Reset(ctx)

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "collection reset", slog.Int("count", len(quotes)))

	return quotes
}

// Preferences returns the current preferences.
func (s *QuoteService) Preferences(_ context.Context) domain.Preferences {
	return s.library.Preferences()
}

// SelectCategory sets the selected category filter. The category is
// normalized; CategoryAll and "" clear the selection. A category with no
// quotes is a not-found error.
func (s *QuoteService) SelectCategory(ctx context.Context, category string) (domain.Preferences, error) {
	selected := filterCategory(category)
	if selected != domain.CategoryAll {
		var known bool
		s.library.View(func(c *domain.Collection) {
			known = c.HasCategory(selected)
		})

		if !known {
			return domain.Preferences{}, domain.NewEmptyCategoryError(selected)
		}
	}

	s.library.UpdatePreferences(ctx, func(p *domain.Preferences) {
		p.Category = selected
	})

	return s.library.Preferences(), nil
}

func filterCategory(category string) string {
	if domain.IsAllCategory(category) {
		return domain.CategoryAll
	}

	return domain.NormalizeCategory(category)
}
