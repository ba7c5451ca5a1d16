package dto

import (
	"time"

	"github.com/jsamuelsen/quotesync/internal/domain"
)

// QuoteResponse is a quote as returned by the API.
type QuoteResponse struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Category  string    `json:"category"`
	Source    string    `json:"source"`
	UpdatedAt time.Time `json:"updatedAt"`
	Pending   bool      `json:"pending"`
	ServerID  string    `json:"serverId,omitempty"`
}

// NewQuoteResponse converts a domain quote.
func NewQuoteResponse(q domain.Quote) QuoteResponse {
	return QuoteResponse{
		ID:        q.ID,
		Text:      q.Text,
		Category:  q.Category,
		Source:    string(q.Source),
		UpdatedAt: q.UpdatedAt.UTC(),
		Pending:   q.Pending,
		ServerID:  q.ServerID,
	}
}

// ListQuotesRequest filters and pages the collection.
type ListQuotesRequest struct {
	PageRequest

	Category string `form:"category" validate:"max=60"`
}

// RandomQuoteRequest selects the pool for a random pick.
type RandomQuoteRequest struct {
	Category string `form:"category" validate:"max=60"`
}

// CreateQuoteRequest is the body of POST /quotes. Length limits are checked
// after normalization.
type CreateQuoteRequest struct {
	Text     string `json:"text"     validate:"required,notblank"`
	Category string `json:"category" validate:"required,notblank"`
}

// CategoriesResponse lists the distinct categories.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// ImportResponse reports an import.
type ImportResponse struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}

// ResetResponse returns the restored collection.
type ResetResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
}

// NewResetResponse converts the restored quotes.
func NewResetResponse(quotes []domain.Quote) ResetResponse {
	resp := ResetResponse{Quotes: make([]QuoteResponse, 0, len(quotes))}
	for _, q := range quotes {
		resp.Quotes = append(resp.Quotes, NewQuoteResponse(q))
	}

	return resp
}

// SelectCategoryRequest is the body of PUT /preferences/category. An empty
// category selects all quotes.
type SelectCategoryRequest struct {
	Category string `json:"category" validate:"max=60"`
}

// PreferencesResponse is the stored view state.
type PreferencesResponse struct {
	Category  string         `json:"category"`
	LastQuote *QuoteResponse `json:"lastQuote,omitempty"`
}

// NewPreferencesResponse converts domain preferences.
func NewPreferencesResponse(p domain.Preferences) PreferencesResponse {
	resp := PreferencesResponse{Category: p.Category}
	if p.LastQuote != nil {
		last := NewQuoteResponse(*p.LastQuote)
		resp.LastQuote = &last
	}

	return resp
}

// SyncResultResponse reports one sync cycle.
type SyncResultResponse struct {
	Uploaded  int    `json:"uploaded"`
	Added     int    `json:"added"`
	Replaced  int    `json:"replaced"`
	Conflicts int    `json:"conflicts"`
	Skipped   bool   `json:"skipped"`
	Message   string `json:"message"`
}

// NewSyncResultResponse converts a sync result.
func NewSyncResultResponse(r domain.SyncResult) SyncResultResponse {
	return SyncResultResponse{
		Uploaded:  r.Uploaded,
		Added:     r.Added,
		Replaced:  r.Replaced,
		Conflicts: r.Conflicts,
		Skipped:   r.Skipped,
		Message:   r.Summary(),
	}
}

// SyncStatusResponse is a snapshot of the sync state machine.
type SyncStatusResponse struct {
	Phase      string              `json:"phase"`
	Message    string              `json:"message,omitempty"`
	LastError  string              `json:"lastError,omitempty"`
	LastResult *SyncResultResponse `json:"lastResult,omitempty"`
	StartedAt  *time.Time          `json:"startedAt,omitempty"`
	FinishedAt *time.Time          `json:"finishedAt,omitempty"`
}

// NewSyncStatusResponse converts a sync status.
func NewSyncStatusResponse(s domain.SyncStatus) SyncStatusResponse {
	resp := SyncStatusResponse{
		Phase:     string(s.Phase),
		Message:   s.Message,
		LastError: s.LastError,
	}

	if s.LastResult != nil {
		last := NewSyncResultResponse(*s.LastResult)
		resp.LastResult = &last
	}

	if !s.StartedAt.IsZero() {
		at := s.StartedAt.UTC()
		resp.StartedAt = &at
	}

	if !s.FinishedAt.IsZero() {
		at := s.FinishedAt.UTC()
		resp.FinishedAt = &at
	}

	return resp
}
