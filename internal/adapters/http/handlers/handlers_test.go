package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotesync/internal/adapters/storage"
	"github.com/jsamuelsen/quotesync/internal/adapters/storage/memory"
	"github.com/jsamuelsen/quotesync/internal/app"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var fixedNow = time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestLibrary returns a library loaded with the default collection.
func newTestLibrary(t *testing.T) *app.Library {
	t.Helper()

	seq := 0
	lib := app.NewLibrary(app.LibraryConfig{
		Store:  storage.NewQuoteStore(memory.New()),
		Logger: discardLogger(),
		Now:    func() time.Time { return fixedNow },
		NewID: func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		},
	})
	lib.Load(context.Background())

	return lib
}

func newTestRouter(t *testing.T, remote ports.RemoteQuotes) (*gin.Engine, *app.Library) {
	t.Helper()

	lib := newTestLibrary(t)

	quotes := app.NewQuoteService(app.QuoteServiceConfig{
		Library: lib,
		Logger:  discardLogger(),
		Pick:    func(int) int { return 0 },
	})

	router := gin.New()
	api := router.Group("/api/v1")
	NewQuoteHandler(quotes).RegisterRoutes(api)

	if remote != nil {
		syncer := app.NewSyncService(app.SyncServiceConfig{
			Library:          lib,
			Remote:           remote,
			Logger:           discardLogger(),
			StatusResetDelay: time.Hour,
		})
		t.Cleanup(syncer.Close)

		NewSyncHandler(syncer).RegisterRoutes(api)
	}

	return router, lib
}

func do(t *testing.T, router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}
