package session

import (
	"context"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/rpggio/knitcount/internal/tracker"
)

// LoadingState tracks the last load or write of a session.
type LoadingState string

const (
	StateIdle    LoadingState = "idle"
	StateLoading LoadingState = "loading"
	StateSuccess LoadingState = "success"
	StateFailure LoadingState = "failure"
)

// Snapshot is an immutable copy of a session's state.
type Snapshot struct {
	ID         string            `json:"session_id"`
	Project    project.Project   `json:"project"`
	Parts      []part.Part       `json:"parts"`
	ActivePart part.Part         `json:"active_part"`
	Counters   []counter.Counter `json:"counters"`
	State      LoadingState      `json:"state"`
	Message    string            `json:"message,omitempty"`
}

// Tracker is the subset of tracker.Service a session works against.
type Tracker interface {
	GetProject(ctx context.Context, id int64) tracker.Result[project.Project]
	GetProjectParts(ctx context.Context, projectID int64) tracker.Result[[]part.Part]
	GetPartCounters(ctx context.Context, partID int64) tracker.Result[[]counter.Counter]
	SetCurrentPart(ctx context.Context, id int64) tracker.Result[int64]
	UpdateCounters(ctx context.Context, counters ...counter.Counter) tracker.Result[int64]
}
