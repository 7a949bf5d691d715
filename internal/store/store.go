// Package store persists enrichment run history and per-row contact
// outcomes, backed by SQLite or Postgres.
package store

import (
	"context"

	"github.com/sells-group/apollo-cli/internal/model"
)

// RunFilter specifies criteria for listing runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for enrichment runs.
type Store interface {
	// Runs
	CreateRun(ctx context.Context, inputPath string) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string, errMsg string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Contacts
	SaveContact(ctx context.Context, runID string, rec model.PersonRecord) (*model.Contact, error)
	ListContacts(ctx context.Context, runID string) ([]model.Contact, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
