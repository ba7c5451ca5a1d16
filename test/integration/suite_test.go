//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	httpadapter "github.com/jsamuelsen/quotesync/internal/adapters/http"
	"github.com/jsamuelsen/quotesync/internal/adapters/http/handlers"
	"github.com/jsamuelsen/quotesync/internal/bootstrap"
	"github.com/jsamuelsen/quotesync/internal/platform/config"
)

// testContext holds state shared across step definitions within a scenario.
type testContext struct {
	remote     *fakeRemote
	server     *httptest.Server
	components *bootstrap.Components
	client     *http.Client

	response     *http.Response
	responseBody []byte

	concurrent []int
}

func newTestContext() *testContext {
	return &testContext{client: &http.Client{Timeout: 10 * time.Second}}
}

// reset tears down the in-process service between scenarios.
func (tc *testContext) reset() {
	if tc.server != nil {
		tc.server.Close()
	}

	if tc.components != nil {
		_ = tc.components.Close()
	}

	if tc.remote != nil {
		tc.remote.Close()
	}

	*tc = testContext{client: tc.client}
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := newTestContext()

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
	ctx.Step(`^the remote API has a post titled "([^"]*)" with body "([^"]*)"$`, tc.theRemoteHasPost)
	ctx.Step(`^the remote API is down$`, tc.theRemoteIsDown)
	ctx.Step(`^the remote API is slow to list posts$`, tc.theRemoteIsSlow)
	ctx.Step(`^I request (GET|POST|PUT|DELETE) "([^"]*)"$`, tc.iRequest)
	ctx.Step(`^I request (POST|PUT) "([^"]*)" with body:$`, tc.iRequestWithBody)
	ctx.Step(`^I add the quote "([^"]*)" in category "([^"]*)"$`, tc.iAddQuote)
	ctx.Step(`^two sync requests are sent at the same time$`, tc.twoSyncRequests)
	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the JSON field "([^"]*)" should be "([^"]*)"$`, tc.theJSONFieldShouldBe)
	ctx.Step(`^the response should list (\d+) quotes$`, tc.theResponseShouldListQuotes)
	ctx.Step(`^the remote API should have received "([^"]*)"$`, tc.theRemoteShouldHaveReceived)
	ctx.Step(`^one sync should be skipped$`, tc.oneSyncShouldBeSkipped)
}

// theServiceIsRunning starts the full service graph on memory storage
// against a fake remote.
func (tc *testContext) theServiceIsRunning() error {
	tc.remote = newFakeRemote()

	cfg, err := config.Load("")
	if err != nil {
		return err
	}

	cfg.Storage.Driver = "memory"
	cfg.Services.Remote.BaseURL = tc.remote.URL()
	cfg.Client.Retry.MaxAttempts = 1
	cfg.Sync.StatusResetDelay = time.Minute

	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	registry := prometheus.NewRegistry()

	tc.components, err = bootstrap.Build(context.Background(), bootstrap.Options{
		Config:     cfg,
		Logger:     logger,
		Registerer: registry,
	})
	if err != nil {
		return err
	}

	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger: logger,
		Health: handlers.NewHealthHandler(tc.components.Health, handlers.NewBuildInfo("test", "abc", "now"), registry),
		Quotes: handlers.NewQuoteHandler(tc.components.Quotes),
		Sync:   handlers.NewSyncHandler(tc.components.Sync),
	})

	tc.server = httptest.NewServer(engine)

	return tc.iRequest(http.MethodGet, "/-/live")
}

func (tc *testContext) theRemoteHasPost(title, body string) error {
	tc.remote.seed(title, body)
	return nil
}

func (tc *testContext) theRemoteIsDown() error {
	tc.remote.setDown(true)
	return nil
}

func (tc *testContext) theRemoteIsSlow() error {
	tc.remote.holdListings()
	return nil
}

func (tc *testContext) send(method, path string, body []byte) (*http.Response, []byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, tc.server.URL+path, reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return resp, data, nil
}

func (tc *testContext) iRequest(method, path string) error {
	var err error

	tc.response, tc.responseBody, err = tc.send(method, path, nil)

	return err
}

func (tc *testContext) iRequestWithBody(method, path string, body *godog.DocString) error {
	var err error

	tc.response, tc.responseBody, err = tc.send(method, path, []byte(body.Content))

	return err
}

func (tc *testContext) iAddQuote(text, category string) error {
	body, err := json.Marshal(map[string]string{"text": text, "category": category})
	if err != nil {
		return err
	}

	tc.response, tc.responseBody, err = tc.send(http.MethodPost, "/api/v1/quotes", body)
	if err != nil {
		return err
	}

	return tc.theResponseStatusShouldBe(http.StatusCreated)
}

// twoSyncRequests starts one sync that blocks on the remote listing, sends a
// second one while it is in flight, then lets the first finish.
func (tc *testContext) twoSyncRequests() error {
	var (
		wg     sync.WaitGroup
		first  int
		errRun error
	)

	wg.Go(func() {
		resp, _, err := tc.send(http.MethodPost, "/api/v1/sync", nil)
		if err != nil {
			errRun = err
			return
		}

		first = resp.StatusCode
	})

	deadline := time.Now().Add(5 * time.Second)
	for tc.components.Sync.Status().Phase != "syncing" {
		if time.Now().After(deadline) {
			tc.remote.release()
			wg.Wait()

			return errors.New("first sync never started")
		}

		time.Sleep(5 * time.Millisecond)
	}

	resp, _, err := tc.send(http.MethodPost, "/api/v1/sync", nil)

	tc.remote.release()
	wg.Wait()

	if err != nil {
		return err
	}

	if errRun != nil {
		return errRun
	}

	tc.concurrent = []int{first, resp.StatusCode}

	return nil
}

func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

func (tc *testContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

// theJSONFieldShouldBe compares a dotted path such as "error.code" or
// "items.0.text" against want.
func (tc *testContext) theJSONFieldShouldBe(path, want string) error {
	var doc any
	if err := json.Unmarshal(tc.responseBody, &doc); err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}

	got, err := lookup(doc, path)
	if err != nil {
		return err
	}

	if fmt.Sprint(got) != want {
		return fmt.Errorf("field %s: expected %q, got %q", path, want, fmt.Sprint(got))
	}

	return nil
}

func lookup(doc any, path string) (any, error) {
	cur := doc

	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case map[string]any:
			v, ok := node[part]
			if !ok {
				return nil, fmt.Errorf("field %q not found in %s", part, path)
			}

			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(node) {
				return nil, fmt.Errorf("index %q out of range in %s", part, path)
			}

			cur = node[i]
		default:
			return nil, fmt.Errorf("cannot descend into %s at %q", path, part)
		}
	}

	return cur, nil
}

func (tc *testContext) theResponseShouldListQuotes(n int) error {
	var page struct {
		Items []json.RawMessage `json:"items"`
	}

	if err := json.Unmarshal(tc.responseBody, &page); err != nil {
		return fmt.Errorf("response is not a quote page: %w", err)
	}

	if len(page.Items) != n {
		return fmt.Errorf("expected %d quotes, got %d. Body: %s", n, len(page.Items), tc.responseBody)
	}

	return nil
}

func (tc *testContext) theRemoteShouldHaveReceived(title string) error {
	for _, got := range tc.remote.createdTitles() {
		if got == title {
			return nil
		}
	}

	return fmt.Errorf("remote never received %q", title)
}

func (tc *testContext) oneSyncShouldBeSkipped() error {
	if len(tc.concurrent) != 2 {
		return errors.New("no concurrent syncs were sent")
	}

	if tc.concurrent[0] != http.StatusOK || tc.concurrent[1] != http.StatusAccepted {
		return fmt.Errorf("expected statuses [200 202], got %v", tc.concurrent)
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite.
func TestFeatures(t *testing.T) {
	gin.SetMode(gin.TestMode)

	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
