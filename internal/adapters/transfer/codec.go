// Package transfer is the JSON wire format for quote collections: the stored
// representation, the export file, and the import payload.
package transfer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jsamuelsen/quotesync/internal/domain"
)

// ExportFileName is the suggested file name for exports.
const ExportFileName = "quotes-export.json"

// Record is the JSON shape of one quote. Text and Category are pointers so
// that entries whose fields are missing can be told apart from empty strings.
type Record struct {
	ID        string     `json:"id,omitempty"`
	Text      *string    `json:"text"`
	Category  *string    `json:"category"`
	Source    string     `json:"source,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
	Pending   bool       `json:"pending,omitempty"`
	ServerID  string     `json:"serverId,omitempty"`
}

// FromDomain converts a quote to its record.
func FromDomain(q domain.Quote) Record {
	text, category := q.Text, q.Category
	r := Record{
		ID:       q.ID,
		Text:     &text,
		Category: &category,
		Source:   string(q.Source),
		Pending:  q.Pending,
		ServerID: q.ServerID,
	}

	if !q.UpdatedAt.IsZero() {
		updated := q.UpdatedAt.UTC()
		r.UpdatedAt = &updated
	}

	return r
}

// FromDomainSlice converts quotes to records.
func FromDomainSlice(quotes []domain.Quote) []Record {
	out := make([]Record, 0, len(quotes))
	for _, q := range quotes {
		out = append(out, FromDomain(q))
	}

	return out
}

// ToDomain converts a stored record back to a quote. It reports false when the
// record lacks text or category. Missing provenance defaults to local.
func (r Record) ToDomain() (domain.Quote, bool) {
	if r.Text == nil || r.Category == nil {
		return domain.Quote{}, false
	}

	q := domain.Quote{
		ID:       r.ID,
		Text:     *r.Text,
		Category: *r.Category,
		Source:   domain.Source(r.Source),
		Pending:  r.Pending,
		ServerID: r.ServerID,
	}

	if !q.Source.Valid() {
		q.Source = domain.SourceLocal
	}

	if r.UpdatedAt != nil {
		q.UpdatedAt = *r.UpdatedAt
	}

	return q, true
}

// Export writes quotes as an indented JSON array.
func Export(w io.Writer, quotes []domain.Quote) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	if err := enc.Encode(FromDomainSlice(quotes)); err != nil {
		return fmt.Errorf("encoding export: %w", err)
	}

	return nil
}

// Marshal encodes quotes compactly for storage.
func Marshal(quotes []domain.Quote) ([]byte, error) {
	data, err := json.Marshal(FromDomainSlice(quotes))
	if err != nil {
		return nil, fmt.Errorf("encoding quotes: %w", err)
	}

	return data, nil
}

// Unmarshal decodes a stored collection. Elements that are not objects with
// string text and category are dropped. A payload that is not a JSON array is
// a validation error.
func Unmarshal(data []byte) ([]domain.Quote, error) {
	records, err := decodeArray(data)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(records))
	for _, r := range records {
		if q, ok := r.ToDomain(); ok {
			quotes = append(quotes, q)
		}
	}

	return quotes, nil
}

// ParseImport decodes an import payload into normalized drafts. Elements
// without string text and category, or that normalize to empty, are dropped.
// It fails when the payload is not an array or nothing valid remains.
func ParseImport(data []byte) ([]domain.Draft, error) {
	records, err := decodeArray(data)
	if err != nil {
		return nil, err
	}

	drafts := make([]domain.Draft, 0, len(records))
	for _, r := range records {
		if r.Text == nil || r.Category == nil {
			continue
		}

		d, err := domain.NewDraft(*r.Text, *r.Category)
		if err != nil {
			continue
		}

		drafts = append(drafts, d)
	}

	if len(drafts) == 0 {
		return nil, domain.NewValidationError("", "no valid quotes found")
	}

	return drafts, nil
}

// decodeArray splits a JSON array into records. An element is kept when it
// is an object whose text and category are strings; its other fields are
// read when they have the expected type and ignored otherwise.
func decodeArray(data []byte) ([]Record, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, domain.NewValidationError("", "JSON is not an array")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, domain.NewValidationError("", "JSON is not an array")
	}

	records := make([]Record, 0, len(raw))
	for _, elem := range raw {
		if r, ok := decodeRecord(elem); ok {
			records = append(records, r)
		}
	}

	return records, nil
}

func decodeRecord(elem json.RawMessage) (Record, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(elem, &fields); err != nil || fields == nil {
		return Record{}, false
	}

	text, ok := field[string](fields, "text")
	if !ok {
		return Record{}, false
	}

	category, ok := field[string](fields, "category")
	if !ok {
		return Record{}, false
	}

	r := Record{Text: &text, Category: &category}
	r.ID = identifier(fields["id"])
	r.ServerID = identifier(fields["serverId"])
	r.Source, _ = field[string](fields, "source")
	r.Pending, _ = field[bool](fields, "pending")

	if updated, ok := field[time.Time](fields, "updatedAt"); ok {
		r.UpdatedAt = &updated
	}

	return r, true
}

// field decodes fields[key] as T. A missing key, null, or a value of another
// type reports false.
func field[T any](fields map[string]json.RawMessage, key string) (T, bool) {
	return decodeAs[T](fields[key])
}

func decodeAs[T any](raw json.RawMessage) (T, bool) {
	var v T

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return v, false
	}

	if err := json.Unmarshal(raw, &v); err != nil {
		var zero T
		return zero, false
	}

	return v, true
}

// identifier accepts string and numeric IDs, since exports from other tools
// often number their entries.
func identifier(raw json.RawMessage) string {
	if s, ok := decodeAs[string](raw); ok {
		return s
	}

	if n, ok := decodeAs[json.Number](raw); ok {
		return n.String()
	}

	return ""
}
