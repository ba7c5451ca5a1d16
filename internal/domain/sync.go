package domain

import (
	"fmt"
	"strings"
	"time"
)

// SyncPhase is the state of the sync state machine.
type SyncPhase string

// Sync phases. A cycle moves Idle → Syncing → Success|Error and back to Idle
// after a delay.
const (
	SyncIdle    SyncPhase = "idle"
	SyncRunning SyncPhase = "syncing"
	SyncSuccess SyncPhase = "success"
	SyncError   SyncPhase = "error"
)

// SyncResult is the outcome of one sync cycle.
type SyncResult struct {
	Uploaded  int
	Added     int
	Replaced  int
	Conflicts int

	// Skipped is set when the cycle was dropped because another was in flight.
	Skipped bool
}

// Summary renders the result for people.
func (r SyncResult) Summary() string {
	if r.Skipped {
		return "Sync already in progress."
	}

	if r.Uploaded == 0 && r.Added == 0 && r.Replaced == 0 {
		return "Sync complete. No changes."
	}

	parts := make([]string, 0, 4)
	if r.Uploaded > 0 {
		parts = append(parts, fmt.Sprintf("%d uploaded", r.Uploaded))
	}
	if r.Added > 0 {
		parts = append(parts, fmt.Sprintf("%d new from server", r.Added))
	}
	if r.Replaced > 0 {
		parts = append(parts, fmt.Sprintf("%d updated", r.Replaced))
	}
	if r.Conflicts > 0 {
		parts = append(parts, fmt.Sprintf("%d conflicts resolved in favor of server", r.Conflicts))
	}

	return "Sync complete: " + strings.Join(parts, ", ") + "."
}

// SyncStatus is a snapshot of the sync state machine.
type SyncStatus struct {
	Phase      SyncPhase
	Message    string
	LastResult *SyncResult
	LastError  string
	StartedAt  time.Time
	FinishedAt time.Time
}
