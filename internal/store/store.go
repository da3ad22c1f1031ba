// Package store persists incidents and clustering runs behind a driver-
// agnostic interface with SQLite and Postgres implementations.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/hotspot-cli/internal/model"
)

// ErrRunNotFound is returned when a run id does not exist in the store.
var ErrRunNotFound = eris.New("run not found")

// IncidentFilter specifies criteria for listing incidents.
type IncidentFilter struct {
	District string `json:"district,omitempty"`
	Category string `json:"category,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// RunFilter specifies criteria for listing clustering runs.
type RunFilter struct {
	Status model.RunStatus `json:"status,omitempty"`
	Limit  int             `json:"limit,omitempty"`
	Offset int             `json:"offset,omitempty"`
}

// Store defines the persistence interface for incidents and cluster runs.
type Store interface {
	// Incidents
	ImportIncidents(ctx context.Context, incidents []model.Incident) (int64, error)
	CountIncidents(ctx context.Context) (int64, error)
	ListIncidents(ctx context.Context, filter IncidentFilter) ([]model.Incident, error)

	// Runs
	CreateRun(ctx context.Context, params model.Params) (*model.Run, error)
	CompleteRun(ctx context.Context, runID string, result *model.RunResult) error
	FailRun(ctx context.Context, runID string) error
	GetRun(ctx context.Context, runID string) (*model.Run, error)
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
