package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jsamuelsen/quotesync/internal/domain"
	"github.com/jsamuelsen/quotesync/internal/platform/logging"
	"github.com/jsamuelsen/quotesync/internal/ports"
)

// Sync defaults.
const (
	DefaultPageSize         = 10
	DefaultStatusResetDelay = 5 * time.Second
)

// SyncService reconciles the library with the remote endpoint. At most one
// cycle runs at a time; a request that arrives while a cycle is running is
// dropped and reported as skipped.
type SyncService struct {
	library  *Library
	remote   ports.RemoteQuotes
	observer ports.SyncObserver
	logger   *slog.Logger

	pageSize   int
	resetDelay time.Duration

	running atomic.Bool

	mu         sync.Mutex
	status     domain.SyncStatus
	generation uint64
	resetTimer *time.Timer
}

// SyncServiceConfig contains configuration for the sync service.
type SyncServiceConfig struct {
	Library  *Library
	Remote   ports.RemoteQuotes
	Observer ports.SyncObserver
	Logger   *slog.Logger

	// PageSize bounds the remote listing. Defaults to DefaultPageSize.
	PageSize int

	// StatusResetDelay is how long a finished status is shown before it
	// returns to idle. Defaults to DefaultStatusResetDelay.
	StatusResetDelay time.Duration
}

// NewSyncService creates a sync service.
func NewSyncService(cfg SyncServiceConfig) *SyncService {
	if cfg.Library == nil || cfg.Remote == nil {
		panic("app.NewSyncService: Library and Remote are required")
	}

	s := &SyncService{
		library:    cfg.Library,
		remote:     cfg.Remote,
		observer:   cfg.Observer,
		logger:     cfg.Logger,
		pageSize:   cfg.PageSize,
		resetDelay: cfg.StatusResetDelay,
		status:     domain.SyncStatus{Phase: domain.SyncIdle},
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	if s.pageSize <= 0 {
		s.pageSize = DefaultPageSize
	}

	if s.resetDelay <= 0 {
		s.resetDelay = DefaultStatusResetDelay
	}

	s.logger = s.logger.With(slog.String("component", "app.SyncService"))

	return s
}

// Sync runs one cycle: upload pending quotes, then fetch and merge a page of
// remote quotes. When a cycle is already running it returns a skipped result
// and no error. On failure the cycle stops, changes made so far are kept and
// persisted, and the error is returned.
func (s *SyncService) Sync(ctx context.Context) (domain.SyncResult, error) {
	if !s.running.CompareAndSwap(false, true) {
		if s.observer != nil {
			s.observer.SyncSkipped()
		}

		return domain.SyncResult{Skipped: true}, nil
	}
	defer s.running.Store(false)

	logger := logging.FromContextOr(ctx, s.logger)
	start := time.Now()

	s.begin(start)

	result, err := s.run(ctx)

	elapsed := time.Since(start)
	s.finish(result, err)

	if s.observer != nil {
		s.observer.SyncFinished(result, err, elapsed)
	}

	if err != nil {
		logger.WarnContext(ctx, "sync failed",
			slog.Any("error", err),
			slog.Int("uploaded", result.Uploaded),
			slog.Duration("duration", elapsed),
		)

		return result, err
	}

	logger.InfoContext(ctx, "sync complete",
		slog.Int("uploaded", result.Uploaded),
		slog.Int("added", result.Added),
		slog.Int("replaced", result.Replaced),
		slog.Int("conflicts", result.Conflicts),
		slog.Duration("duration", elapsed),
	)

	return result, nil
}

// Trigger runs a cycle and discards the result. It satisfies SyncFunc.
func (s *SyncService) Trigger(ctx context.Context) error {
	_, err := s.Sync(ctx)
	return err
}

func (s *SyncService) run(ctx context.Context) (domain.SyncResult, error) {
	var result domain.SyncResult

	uploaded, err := s.upload(ctx)
	result.Uploaded = uploaded

	if err != nil {
		return result, err
	}

	incoming, err := s.fetch(ctx)
	if err != nil {
		return result, err
	}

	_ = s.library.Update(ctx, func(c *domain.Collection) error {
		merged := c.Merge(incoming)
		result.Added = merged.Added
		result.Replaced = merged.Replaced
		result.Conflicts = merged.Conflicts

		return nil
	})

	return result, nil
}

// upload pushes pending quotes one at a time and stops at the first failure.
// Each success is persisted immediately, so quotes uploaded before a failure
// stay uploaded.
func (s *SyncService) upload(ctx context.Context) (int, error) {
	var pending []domain.Quote

	s.library.View(func(c *domain.Collection) {
		pending = c.Pending()
	})

	uploaded := 0

	for _, q := range pending {
		serverID, err := s.remote.CreateQuote(ctx, domain.Draft{Text: q.Text, Category: q.Category})
		if err != nil {
			return uploaded, fmt.Errorf("uploading quote %s: %w", q.ID, err)
		}

		_ = s.library.Update(ctx, func(c *domain.Collection) error {
			if c.MarkUploaded(q.ID, serverID, s.library.Now()) {
				uploaded++
			}

			return nil
		})
	}

	return uploaded, nil
}

// fetch lists remote quotes and stamps them with local IDs and the fetch time.
func (s *SyncService) fetch(ctx context.Context) ([]domain.Quote, error) {
	remote, err := s.remote.ListQuotes(ctx, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("fetching remote quotes: %w", err)
	}

	now := s.library.Now()
	incoming := make([]domain.Quote, 0, len(remote))

	for _, q := range remote {
		q.ID = s.library.NewID()
		q.Source = domain.SourceServer
		q.Pending = false
		q.UpdatedAt = now
		incoming = append(incoming, q)
	}

	return incoming, nil
}

// Status returns a snapshot of the state machine.
func (s *SyncService) Status() domain.SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := s.status
	if status.LastResult != nil {
		res := *status.LastResult
		status.LastResult = &res
	}

	return status
}

// Close stops the pending status reset, if any.
func (s *SyncService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}
}

func (s *SyncService) begin(at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.generation++

	if s.resetTimer != nil {
		s.resetTimer.Stop()
		s.resetTimer = nil
	}

	s.status.Phase = domain.SyncRunning
	s.status.Message = "Syncing..."
	s.status.StartedAt = at
	s.status.FinishedAt = time.Time{}
}

func (s *SyncService) finish(result domain.SyncResult, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status.FinishedAt = time.Now()
	s.status.LastResult = &result

	if err != nil {
		s.status.Phase = domain.SyncError
		s.status.Message = "Sync failed: " + err.Error()
		s.status.LastError = err.Error()
	} else {
		s.status.Phase = domain.SyncSuccess
		s.status.Message = result.Summary()
		s.status.LastError = ""
	}

	gen := s.generation
	s.resetTimer = time.AfterFunc(s.resetDelay, func() {
		s.mu.Lock()
		defer s.mu.Unlock()

		if s.generation == gen {
			s.status.Phase = domain.SyncIdle
			s.status.Message = ""
			s.resetTimer = nil
		}
	})
}
