package domain

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Limits for quotes typed into the add form. Imported and synced quotes are
// not limited.
const (
	MaxTextLength     = 280
	MaxCategoryLength = 60
)

// CategoryAll is the pseudo-category that selects every quote.
const CategoryAll = "All"

// Source records where the current version of a quote came from.
type Source string

const (
	// SourceLocal marks a quote created or imported on this side.
	SourceLocal Source = "local"

	// SourceServer marks a quote whose current version came from the remote endpoint.
	SourceServer Source = "server"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	return s == SourceLocal || s == SourceServer
}

// Quote is the only entity of the collection.
type Quote struct {
	ID        string
	Text      string
	Category  string
	Source    Source
	UpdatedAt time.Time
	Pending   bool
	ServerID  string
}

// Key returns the merge key of the quote.
func (q Quote) Key() MergeKey {
	return MergeKey{Text: q.Text, Category: q.Category}
}

// MergeKey identifies a logical quote across local and remote copies.
type MergeKey struct {
	Text     string
	Category string
}

// Draft is user or remote input that has been normalized but not yet stored.
type Draft struct {
	Text     string
	Category string
}

// Key returns the merge key the draft would have once stored.
func (d Draft) Key() MergeKey {
	return MergeKey{Text: d.Text, Category: d.Category}
}

// NewDraft normalizes text and category and rejects either being empty.
func NewDraft(text, category string) (Draft, error) {
	d := Draft{Text: NormalizeText(text), Category: NormalizeCategory(category)}

	switch {
	case d.Text == "":
		return Draft{}, NewValidationError("text", "is required")
	case d.Category == "":
		return Draft{}, NewValidationError("category", "is required")
	}

	return d, nil
}

// NewInputDraft is NewDraft plus the add form's length limits.
func NewInputDraft(text, category string) (Draft, error) {
	d, err := NewDraft(text, category)
	if err != nil {
		return Draft{}, err
	}

	switch {
	case utf8.RuneCountInString(d.Text) > MaxTextLength:
		return Draft{}, NewValidationError("text", fmt.Sprintf("must be at most %d characters", MaxTextLength))
	case utf8.RuneCountInString(d.Category) > MaxCategoryLength:
		return Draft{}, NewValidationError("category", fmt.Sprintf("must be at most %d characters", MaxCategoryLength))
	}

	return d, nil
}

// NormalizeText trims surrounding whitespace.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}

// NormalizeCategory trims, collapses inner whitespace, and title-cases each word.
// Applying it twice yields the same result as applying it once.
func NormalizeCategory(category string) string {
	collapsed := strings.Join(strings.Fields(category), " ")
	if collapsed == "" {
		return ""
	}

	return cases.Title(language.English).String(collapsed)
}

// IsAllCategory reports whether category selects every quote.
func IsAllCategory(category string) bool {
	return category == "" || strings.EqualFold(category, CategoryAll)
}

var defaultDrafts = []Draft{
	{Text: "The best way to get started is to quit talking and begin doing.", Category: "Motivation"},
	{Text: "Don't let yesterday take up too much of today.", Category: "Motivation"},
	{Text: "JavaScript is the language of the web.", Category: "Programming"},
	{Text: "First, solve the problem. Then, write the code.", Category: "Programming"},
	{Text: "What we think, we become.", Category: "Mindset"},
}

// DefaultQuotes returns the built-in collection used when nothing is stored.
// IDs are stable so that repeated resets produce the same entries.
func DefaultQuotes(now time.Time) []Quote {
	quotes := make([]Quote, 0, len(defaultDrafts))
	for i, d := range defaultDrafts {
		quotes = append(quotes, Quote{
			ID:        defaultIDs[i],
			Text:      d.Text,
			Category:  d.Category,
			Source:    SourceLocal,
			UpdatedAt: now,
		})
	}

	return quotes
}

var defaultIDs = [...]string{
	"default-1",
	"default-2",
	"default-3",
	"default-4",
	"default-5",
}

// Preferences are the per-user view settings kept alongside the collection.
type Preferences struct {
	// Category is the selected filter; CategoryAll when unset.
	Category string

	// LastQuote is the most recently shown quote, if any.
	LastQuote *Quote
}
