// Package store records conversion runs in a SQLite history database.
package store

import (
	"context"

	"github.com/rcliao/x-to-dayone/internal/model"
)

// ListParams holds parameters for listing runs.
type ListParams struct {
	Status string
	Limit  int
}

// Store defines the run history interface.
type Store interface {
	// RecordRun stores a finished run with its warnings and staged media.
	RecordRun(ctx context.Context, r model.Run) error

	// GetRun retrieves a run, including warnings and media.
	GetRun(ctx context.Context, id string) (*model.Run, error)

	// ListRuns lists runs newest first, without warnings or media.
	ListRuns(ctx context.Context, p ListParams) ([]model.Run, error)

	// Warnings returns the warnings recorded for a run.
	Warnings(ctx context.Context, runID string) ([]model.MediaWarning, error)

	// Close closes the store.
	Close() error
}
