package handlers

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/quotesync/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/mocks"
)

func TestSyncHandler_Sync(t *testing.T) {
	t.Parallel()

	remote := mocks.NewMockRemoteQuotes(t)
	remote.EXPECT().CreateQuote(mock.Anything, domain.Draft{Text: "Ship it.", Category: "Programming"}).Return("101", nil)
	remote.EXPECT().ListQuotes(mock.Anything, 10).Return([]domain.Quote{
		{Text: "From the server.", Category: "Motivation", ServerID: "1", Source: domain.SourceServer},
	}, nil)

	router, _ := newTestRouter(t, remote)

	do(t, router, http.MethodPost, "/api/v1/quotes", `{"text":"Ship it.","category":"programming"}`)

	w := do(t, router, http.MethodPost, "/api/v1/sync", "")
	require.Equal(t, http.StatusOK, w.Code)

	res := decode[dto.SyncResultResponse](t, w.Body.Bytes())
	assert.Equal(t, 1, res.Uploaded)
	assert.Equal(t, 1, res.Added)
	assert.Equal(t, "Sync complete: 1 uploaded, 1 new from server.", res.Message)

	status := decode[dto.SyncStatusResponse](t, do(t, router, http.MethodGet, "/api/v1/sync/status", "").Body.Bytes())
	assert.Equal(t, "success", status.Phase)
	require.NotNil(t, status.LastResult)
	assert.Equal(t, 1, status.LastResult.Uploaded)
}

func TestSyncHandler_SyncFailure(t *testing.T) {
	t.Parallel()

	remote := mocks.NewMockRemoteQuotes(t)
	remote.EXPECT().ListQuotes(mock.Anything, mock.Anything).
		Return(nil, domain.NewUnavailableError("placeholder-api", "connection refused"))

	router, _ := newTestRouter(t, remote)

	w := do(t, router, http.MethodPost, "/api/v1/sync", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	status := decode[dto.SyncStatusResponse](t, do(t, router, http.MethodGet, "/api/v1/sync/status", "").Body.Bytes())
	assert.Equal(t, "error", status.Phase)
	assert.Contains(t, status.Message, "Sync failed: fetching remote quotes")
}

func TestSyncHandler_SyncWhileBusy(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})

	remote := mocks.NewMockRemoteQuotes(t)
	remote.EXPECT().ListQuotes(mock.Anything, mock.Anything).
		RunAndReturn(func(context.Context, int) ([]domain.Quote, error) {
			close(started)
			<-release

			return nil, nil
		}).Once()

	router, _ := newTestRouter(t, remote)

	var wg sync.WaitGroup

	wg.Go(func() {
		do(t, router, http.MethodPost, "/api/v1/sync", "")
	})

	<-started

	w := do(t, router, http.MethodPost, "/api/v1/sync", "")
	close(release)
	wg.Wait()

	require.Equal(t, http.StatusAccepted, w.Code)

	res := decode[dto.SyncResultResponse](t, w.Body.Bytes())
	assert.True(t, res.Skipped)
	assert.Equal(t, "Sync already in progress.", res.Message)
}
