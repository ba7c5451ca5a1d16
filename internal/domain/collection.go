package domain

import (
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MergeResult counts what a merge did to the collection.
type MergeResult struct {
	Added     int
	Replaced  int
	Conflicts int
}

// ImportResult counts what an import did to the collection.
type ImportResult struct {
	Imported int
	Skipped  int
}

// Collection is an ordered set of quotes. It is not safe for concurrent use;
// callers own synchronization.
type Collection struct {
	quotes []Quote
}

// NewCollection returns a collection holding a copy of quotes.
func NewCollection(quotes []Quote) *Collection {
	c := &Collection{}
	c.Reset(quotes)

	return c
}

// Reset replaces the contents with a copy of quotes.
func (c *Collection) Reset(quotes []Quote) {
	c.quotes = append(make([]Quote, 0, len(quotes)), quotes...)
}

// All returns a copy of every quote in insertion order.
func (c *Collection) All() []Quote {
	return append([]Quote(nil), c.quotes...)
}

// Len returns the number of quotes.
func (c *Collection) Len() int {
	return len(c.quotes)
}

// Add appends q.
func (c *Collection) Add(q Quote) {
	c.quotes = append(c.quotes, q)
}

// Filter returns the quotes in category; CategoryAll or "" selects all.
func (c *Collection) Filter(category string) []Quote {
	if IsAllCategory(category) {
		return c.All()
	}

	var out []Quote
	for _, q := range c.quotes {
		if q.Category == category {
			out = append(out, q)
		}
	}

	return out
}

// HasCategory reports whether any quote belongs to category.
func (c *Collection) HasCategory(category string) bool {
	for _, q := range c.quotes {
		if q.Category == category {
			return true
		}
	}

	return false
}

// Categories returns the distinct categories in locale order.
func (c *Collection) Categories() []string {
	seen := make(map[string]struct{}, len(c.quotes))
	out := make([]string, 0, len(c.quotes))

	for _, q := range c.quotes {
		if _, ok := seen[q.Category]; ok {
			continue
		}
		seen[q.Category] = struct{}{}
		out = append(out, q.Category)
	}

	collate.New(language.English).SortStrings(out)

	return out
}

// Pending returns copies of the quotes awaiting upload.
func (c *Collection) Pending() []Quote {
	var out []Quote
	for _, q := range c.quotes {
		if q.Pending {
			out = append(out, q)
		}
	}

	return out
}

// MarkUploaded records a successful upload of the quote with id.
// It returns false when no quote has that id.
func (c *Collection) MarkUploaded(id, serverID string, at time.Time) bool {
	for i := range c.quotes {
		if c.quotes[i].ID != id {
			continue
		}

		c.quotes[i].Source = SourceServer
		c.quotes[i].Pending = false
		c.quotes[i].ServerID = serverID
		c.quotes[i].UpdatedAt = at

		return true
	}

	return false
}

// Merge folds incoming quotes into the collection by merge key.
//
// An absent key is appended. A present key is overwritten when the local entry
// is not server-sourced or the incoming entry is at least as new; equal
// timestamps favor the incoming entry. Overwriting a non-server entry counts as
// a conflict. The overwritten entry keeps its local ID.
func (c *Collection) Merge(incoming []Quote) MergeResult {
	var res MergeResult

	index := c.index()

	for _, in := range incoming {
		i, ok := index[in.Key()]
		if !ok {
			c.quotes = append(c.quotes, in)
			index[in.Key()] = len(c.quotes) - 1
			res.Added++

			continue
		}

		local := c.quotes[i]
		if local.Source == SourceServer && in.UpdatedAt.Before(local.UpdatedAt) {
			continue
		}

		if local.Source != SourceServer {
			res.Conflicts++
		}

		in.ID = local.ID
		c.quotes[i] = in
		res.Replaced++
	}

	return res
}

// Import appends drafts whose merge key is not yet present. Imported quotes are
// local and not pending. newID supplies identifiers for the new entries.
func (c *Collection) Import(drafts []Draft, newID func() string, now time.Time) ImportResult {
	var res ImportResult

	index := c.index()

	for _, d := range drafts {
		if _, ok := index[d.Key()]; ok {
			res.Skipped++
			continue
		}

		c.quotes = append(c.quotes, Quote{
			ID:        newID(),
			Text:      d.Text,
			Category:  d.Category,
			Source:    SourceLocal,
			UpdatedAt: now,
		})
		index[d.Key()] = len(c.quotes) - 1
		res.Imported++
	}

	return res
}

func (c *Collection) index() map[MergeKey]int {
	index := make(map[MergeKey]int, len(c.quotes))
	for i, q := range c.quotes {
		if _, ok := index[q.Key()]; !ok {
			index[q.Key()] = i
		}
	}

	return index
}
