package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/jsamuelsen/quotesync/internal/adapters/clients"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
)

const (
	postsPath = "/posts"

	// placeholderUserID is sent with every created post.
	placeholderUserID = 1
)

// PlaceholderClientConfig contains configuration for the placeholder client.
type PlaceholderClientConfig struct {
	// Client is the resilient HTTP client. Its BaseURL points at the API root.
	Client *clients.Client

	// ServiceName is used in domain errors and health results. Defaults to
	// the client's service name.
	ServiceName string

	// Classifier derives categories from post bodies. Defaults to
	// domain.DefaultClassifier.
	Classifier *domain.Classifier

	Logger *slog.Logger
}

// PlaceholderClient stores quotes as JSONPlaceholder-style posts. It
// implements ports.RemoteQuotes and ports.HealthChecker.
type PlaceholderClient struct {
	BaseAdapter

	classifier domain.Classifier
	logger     *slog.Logger
}

// NewPlaceholderClient creates the adapter. Panics if Client is nil.
func NewPlaceholderClient(cfg PlaceholderClientConfig) *PlaceholderClient {
	if cfg.Client == nil {
		panic("acl.NewPlaceholderClient: Client is required")
	}

	classifier := domain.DefaultClassifier()
	if cfg.Classifier != nil {
		classifier = *cfg.Classifier
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	base := NewBaseAdapter(cfg.Client, cfg.ServiceName)

	return &PlaceholderClient{
		BaseAdapter: base,
		classifier:  classifier,
		logger:      logger.With(slog.String("component", "acl.PlaceholderClient")),
	}
}

// post is the remote representation of a quote.
type post struct {
	ID     json.Number `json:"id,omitempty"`
	UserID int         `json:"userId,omitempty"`
	Title  string      `json:"title"`
	Body   string      `json:"body"`
}

// CreateQuote publishes draft as a post and returns the assigned id.
func (c *PlaceholderClient) CreateQuote(ctx context.Context, draft domain.Draft) (string, error) {
	payload, err := json.Marshal(post{Title: draft.Text, Body: draft.Category, UserID: placeholderUserID})
	if err != nil {
		return "", fmt.Errorf("encoding post: %w", err)
	}

	body, err := c.Post(ctx, postsPath, payload, "create quote")
	if err != nil {
		return "", err
	}

	created, err := DecodeResponse[post](body)
	if err != nil {
		return "", domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	if created.ID == "" {
		return "", domain.NewUnavailableError(c.ServiceName(), "created post has no id")
	}

	logging.FromContextOr(ctx, c.logger).DebugContext(ctx, "quote uploaded",
		slog.String("server_id", created.ID.String()),
	)

	return created.ID.String(), nil
}

// ListQuotes fetches up to limit posts and translates them to quotes. Posts
// without a usable title are dropped.
func (c *PlaceholderClient) ListQuotes(ctx context.Context, limit int) ([]domain.Quote, error) {
	path := postsPath
	if limit > 0 {
		path += "?_limit=" + strconv.Itoa(limit)
	}

	body, err := c.Get(ctx, path, "list quotes")
	if err != nil {
		return nil, err
	}

	posts, err := DecodeResponse[[]post](body)
	if err != nil {
		return nil, domain.NewUnavailableError(c.ServiceName(), err.Error())
	}

	quotes := TranslateSlice(posts, c.translate)

	logging.FromContextOr(ctx, c.logger).DebugContext(ctx, "remote quotes fetched",
		slog.Int("posts", len(posts)),
		slog.Int("quotes", len(quotes)),
	)

	return quotes, nil
}

func (c *PlaceholderClient) translate(p post) (domain.Quote, bool) {
	draft, err := domain.NewDraft(p.Title, c.classifier.Classify(p.Body))
	if err != nil {
		return domain.Quote{}, false
	}

	return domain.Quote{
		Text:     draft.Text,
		Category: draft.Category,
		Source:   domain.SourceServer,
		ServerID: p.ID.String(),
	}, true
}

// Name implements ports.HealthChecker.
func (c *PlaceholderClient) Name() string {
	return c.ServiceName()
}

// Check implements ports.HealthChecker with a one-item listing.
func (c *PlaceholderClient) Check(ctx context.Context) error {
	body, err := c.Get(ctx, postsPath+"?_limit=1", "health check")
	if err != nil {
		return err
	}

	return body.Close()
}
