// Package store persists parse runs of decks in SQLite.
package store

import (
	"context"

	"github.com/rcliao/simdeck/internal/deck"
	"github.com/rcliao/simdeck/internal/diag"
	"github.com/rcliao/simdeck/internal/model"
	"github.com/rcliao/simdeck/internal/schedule"
)

// RunParams holds the outcome of one parse to store.
type RunParams struct {
	Path     string
	Checksum string
	Deck     *deck.Deck
	Schedule *schedule.Schedule // nil when the build failed
	Messages *diag.Messages
	Err      error
}

// ListParams holds parameters for listing runs.
type ListParams struct {
	Path  string
	Limit int
}

// WellParams selects the stored states of one well.
type WellParams struct {
	RunID   string // empty means the latest run
	Well    string
	History bool
	Step    int // -1 means the last step
}

// DeleteParams holds parameters for removing a run.
type DeleteParams struct {
	RunID string
	Hard  bool
}

// Store defines the run storage interface.
type Store interface {
	// SaveRun stores a parse and everything derived from it.
	SaveRun(ctx context.Context, p RunParams) (*model.Run, error)

	// ListRuns lists runs, newest first.
	ListRuns(ctx context.Context, p ListParams) ([]model.Run, error)

	// WellHistory returns the stored versions of a well, newest first, or
	// the single version in force at p.Step.
	WellHistory(ctx context.Context, p WellParams) ([]model.WellState, error)

	// DeleteRun soft-deletes (or hard-deletes) a run.
	DeleteRun(ctx context.Context, p DeleteParams) error

	// Close closes the store.
	Close() error
}
