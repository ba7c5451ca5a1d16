package dto

import (
	"encoding/base64"
	"encoding/json"
	"errors"
)

// MaxLimit bounds a page.
const MaxLimit = 100

// ErrInvalidCursor is returned when a cursor cannot be decoded.
var ErrInvalidCursor = errors.New("invalid cursor")

// PageRequest holds paging query parameters. A request with neither limit nor
// cursor returns everything.
type PageRequest struct {
	Cursor string `form:"cursor"`
	Limit  int    `form:"limit" validate:"omitempty,min=1,max=100"`
}

// Page is one slice of a list response.
type Page[T any] struct {
	Items      []T    `json:"items"`
	Total      int    `json:"total"`
	NextCursor string `json:"nextCursor,omitempty"`
	HasMore    bool   `json:"hasMore"`
}

type cursorData struct {
	Offset int `json:"o"`
}

// EncodeCursor encodes a position in a list.
func EncodeCursor(offset int) string {
	b, _ := json.Marshal(cursorData{Offset: offset})
	return base64.RawURLEncoding.EncodeToString(b)
}

// DecodeCursor decodes a cursor produced by EncodeCursor. "" decodes to 0.
func DecodeCursor(cursor string) (int, error) {
	if cursor == "" {
		return 0, nil
	}

	b, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return 0, ErrInvalidCursor
	}

	var data cursorData
	if err := json.Unmarshal(b, &data); err != nil || data.Offset < 0 {
		return 0, ErrInvalidCursor
	}

	return data.Offset, nil
}

// Paginate cuts items according to req, converting each kept item with conv.
// Order is preserved.
func Paginate[S, T any](items []S, req PageRequest, conv func(S) T) (*Page[T], error) {
	offset, err := DecodeCursor(req.Cursor)
	if err != nil {
		return nil, err
	}

	offset = min(offset, len(items))

	end := len(items)
	if req.Limit > 0 {
		end = min(offset+min(req.Limit, MaxLimit), len(items))
	}

	page := &Page[T]{
		Items: make([]T, 0, end-offset),
		Total: len(items),
	}

	for _, item := range items[offset:end] {
		page.Items = append(page.Items, conv(item))
	}

	if end < len(items) {
		page.HasMore = true
		page.NextCursor = EncodeCursor(end)
	}

	return page, nil
}
