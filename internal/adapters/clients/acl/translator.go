package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/jsamuelsen/quotesync/internal/adapters/clients"
)

// BaseAdapter wraps a resilient client and maps every failure to a domain
// error. Embed it in service adapters.
type BaseAdapter struct {
	client      *clients.Client
	serviceName string
}

// NewBaseAdapter creates a base adapter. The service name defaults to the
// client's.
func NewBaseAdapter(client *clients.Client, serviceName string) BaseAdapter {
	if serviceName == "" {
		serviceName = client.ServiceName()
	}

	return BaseAdapter{client: client, serviceName: serviceName}
}

// ServiceName returns the name used in domain errors.
func (a *BaseAdapter) ServiceName() string {
	return a.serviceName
}

// Get performs a GET and returns the body of a successful response. The
// caller closes it.
func (a *BaseAdapter) Get(ctx context.Context, path, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Get(ctx, path)

	return a.check(resp, err, operation)
}

// Post sends body as JSON and returns the body of a successful response. The
// caller closes it.
func (a *BaseAdapter) Post(ctx context.Context, path string, body []byte, operation string) (io.ReadCloser, error) {
	resp, err := a.client.Post(ctx, path, body)

	return a.check(resp, err, operation)
}

func (a *BaseAdapter) check(resp *http.Response, err error, operation string) (io.ReadCloser, error) {
	if err != nil {
		return nil, MapHTTPError(nil, err, a.serviceName, operation)
	}

	if resp.StatusCode >= http.StatusMultipleChoices {
		defer func() { _ = resp.Body.Close() }()

		return nil, MapHTTPError(resp, nil, a.serviceName, operation)
	}

	return resp.Body, nil
}

// DecodeResponse decodes a JSON body into T and closes it.
func DecodeResponse[T any](body io.ReadCloser) (T, error) {
	var result T

	if body == nil {
		return result, errors.New("response body is nil")
	}
	defer func() { _ = body.Close() }()

	if err := json.NewDecoder(body).Decode(&result); err != nil {
		return result, fmt.Errorf("decoding response: %w", err)
	}

	return result, nil
}

// Translator converts a remote DTO to a domain value. ok is false when the
// item should be dropped.
type Translator[E, D any] func(ext E) (d D, ok bool)

// TranslateSlice applies translate to every item and keeps those it accepts.
func TranslateSlice[E, D any](items []E, translate Translator[E, D]) []D {
	result := make([]D, 0, len(items))

	for _, item := range items {
		if d, ok := translate(item); ok {
			result = append(result, d)
		}
	}

	return result
}
