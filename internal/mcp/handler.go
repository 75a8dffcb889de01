package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
	"github.com/rpggio/knitcount/internal/session"
	"github.com/rpggio/knitcount/internal/tracker"
)

// Tracker defines the project, part and counter operations needed by MCP.
type Tracker interface {
	ListProjects(ctx context.Context) tracker.Result[[]project.Project]
	GetProject(ctx context.Context, id int64) tracker.Result[project.Project]
	SearchProjects(ctx context.Context, query string, limit int) tracker.Result[[]project.Project]
	AddProject(ctx context.Context, p project.Project) tracker.Result[int64]
	AddFreshProject(ctx context.Context, p project.Project) tracker.Result[int64]
	DeleteFullProject(ctx context.Context, id int64) tracker.Result[int64]

	GetProjectParts(ctx context.Context, projectID int64) tracker.Result[[]part.Part]
	AddPart(ctx context.Context, p part.Part) tracker.Result[int64]
	DeletePart(ctx context.Context, id int64) tracker.Result[int64]
	SetCurrentPart(ctx context.Context, id int64) tracker.Result[int64]

	GetPartCounters(ctx context.Context, partID int64) tracker.Result[[]counter.Counter]
	GetCounter(ctx context.Context, id int64) tracker.Result[counter.Counter]
	AddCounter(ctx context.Context, c counter.Counter) tracker.Result[int64]
	UpdateCounter(ctx context.Context, c counter.Counter) tracker.Result[int64]
	DeleteCounter(ctx context.Context, id int64) tracker.Result[int64]
}

// Sessions defines the session registry operations needed by MCP.
type Sessions interface {
	Open(ctx context.Context, projectID int64) (*session.Session, error)
	Get(id string) (*session.Session, error)
	Close(id string) error
	CloseProject(projectID int64) int
}

// Handler dispatches MCP commands.
type Handler struct {
	tracker  Tracker
	sessions Sessions
	logger   *slog.Logger
}

// NewHandler creates a new MCP handler.
func NewHandler(svc Tracker, sessions Sessions, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handler{
		tracker:  svc,
		sessions: sessions,
		logger:   logger,
	}
}

// Handle dispatches a tool call to the tracker or the session registry.
// sessionID is the transport session id; tools that take a session_id
// argument fall back to it.
func (h *Handler) Handle(ctx context.Context, sessionID, method string, params json.RawMessage) (any, error) {
	switch method {
	case "ping":
		return StatusResponse{Status: "pong"}, nil

	// Projects
	case "list_projects":
		projects, err := unwrap(h.tracker.ListProjects(ctx))
		if err != nil {
			return nil, err
		}
		return ProjectsResponse{Projects: projects}, nil
	case "get_project":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return unwrap(h.tracker.GetProject(ctx, req.ID))
	case "search_projects":
		var req SearchProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		projects, err := unwrap(h.tracker.SearchProjects(ctx, req.Query, req.Limit))
		if err != nil {
			return nil, err
		}
		return ProjectsResponse{Projects: projects}, nil
	case "create_project":
		var req ProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return created(h.tracker.AddFreshProject(ctx, req.project()))
	case "add_project":
		var req ProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return created(h.tracker.AddProject(ctx, req.project()))
	case "delete_project":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		rows, err := unwrap(h.tracker.DeleteFullProject(ctx, req.ID))
		if err != nil {
			return nil, err
		}
		closed := h.sessions.CloseProject(req.ID)
		if closed > 0 {
			h.logger.Info("closed sessions of deleted project", "project_id", req.ID, "sessions", closed)
		}
		return ProjectDeletedResponse{Rows: rows, SessionsClosed: closed}, nil

	// Parts
	case "list_parts":
		var req ListPartsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		parts, err := unwrap(h.tracker.GetProjectParts(ctx, req.ProjectID))
		if err != nil {
			return nil, err
		}
		return PartsResponse{Parts: parts}, nil
	case "add_part":
		var req AddPartParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return created(h.tracker.AddPart(ctx, part.Part{
			ID:              req.ID,
			Name:            req.Name,
			Description:     req.Description,
			OwningProjectID: req.ProjectID,
			IsCurrent:       req.IsCurrent,
		}))
	case "delete_part":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return rows(h.tracker.DeletePart(ctx, req.ID))
	case "set_current_part":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return rows(h.tracker.SetCurrentPart(ctx, req.ID))

	// Counters
	case "list_counters":
		var req ListCountersParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		counters, err := unwrap(h.tracker.GetPartCounters(ctx, req.PartID))
		if err != nil {
			return nil, err
		}
		return CountersResponse{Counters: counters}, nil
	case "get_counter":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return unwrap(h.tracker.GetCounter(ctx, req.ID))
	case "add_counter":
		var req AddCounterParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return created(h.tracker.AddCounter(ctx, counter.Counter{
			ID:               req.ID,
			Name:             req.Name,
			Value:            req.Value,
			IncrementBy:      req.IncrementBy,
			Type:             req.Type,
			IsGloballyLinked: req.IsGloballyLinked,
			ResetRow:         req.ResetRow,
			MaxResets:        req.MaxResets,
			OwningPartID:     req.PartID,
		}))
	case "update_counter":
		var req UpdateCounterParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		stored, err := unwrap(h.tracker.GetCounter(ctx, req.ID))
		if err != nil {
			return nil, err
		}
		return rows(h.tracker.UpdateCounter(ctx, req.apply(stored)))
	case "delete_counter":
		var req IDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return rows(h.tracker.DeleteCounter(ctx, req.ID))

	// Sessions
	case "open_session":
		var req OpenSessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, err := h.sessions.Open(ctx, req.ProjectID)
		if err != nil {
			return nil, mapError(err)
		}
		return sess.Snapshot(), nil
	case "get_session":
		var req SessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, err := h.session(sessionID, req.SessionID)
		if err != nil {
			return nil, err
		}
		return sess.Snapshot(), nil
	case "increment_counter":
		return h.step(ctx, sessionID, params, (*session.Session).Increment)
	case "decrement_counter":
		return h.step(ctx, sessionID, params, (*session.Session).Decrement)
	case "toggle_link":
		return h.step(ctx, sessionID, params, (*session.Session).ToggleLink)
	case "select_part":
		var req SelectPartParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, err := h.session(sessionID, req.SessionID)
		if err != nil {
			return nil, err
		}
		if err := sess.SelectPart(ctx, req.PartID); err != nil {
			return nil, mapError(err)
		}
		return sess.Snapshot(), nil
	case "refresh_session":
		var req SessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sess, err := h.session(sessionID, req.SessionID)
		if err != nil {
			return nil, err
		}
		if err := sess.Refresh(ctx); err != nil {
			return nil, mapError(err)
		}
		return sess.Snapshot(), nil
	case "close_session":
		var req SessionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		id := firstNonEmpty(req.SessionID, sessionID)
		if err := h.sessions.Close(id); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "closed"}, nil
	default:
		return nil, &APIError{Code: CodeMethodNotFound, Message: fmt.Sprintf("unknown method: %s", method)}
	}
}

type stepFunc func(*session.Session, context.Context, int64) ([]counter.Counter, error)

func (h *Handler) step(ctx context.Context, sessionID string, params json.RawMessage, fn stepFunc) (any, error) {
	var req SessionCounterParams
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	sess, err := h.session(sessionID, req.SessionID)
	if err != nil {
		return nil, err
	}
	changed, err := fn(sess, ctx, req.CounterID)
	if err != nil {
		return nil, mapError(err)
	}
	return StepResponse{
		SessionID: sess.ID(),
		Changed:   changed,
		Counters:  sess.Counters(),
	}, nil
}

func (h *Handler) session(transportID, argID string) (*session.Session, error) {
	sess, err := h.sessions.Get(firstNonEmpty(argID, transportID))
	if err != nil {
		return nil, mapError(err)
	}
	return sess, nil
}

func (p ProjectParams) project() project.Project {
	return project.Project{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Type:        p.Type,
		Completed:   p.Completed,
	}
}

func (p UpdateCounterParams) apply(c counter.Counter) counter.Counter {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Value != nil {
		c.Value = *p.Value
	}
	if p.IncrementBy != nil {
		c.IncrementBy = *p.IncrementBy
	}
	if p.IsGloballyLinked != nil {
		c.IsGloballyLinked = *p.IsGloballyLinked
	}
	if p.ResetRow != nil {
		c.ResetRow = *p.ResetRow
	}
	if p.MaxResets != nil {
		c.MaxResets = *p.MaxResets
	}
	if p.NumResets != nil {
		c.NumResets = *p.NumResets
	}
	if p.Version != nil {
		c.Version = *p.Version
	}
	return c
}

func unwrap[T any](res tracker.Result[T]) (T, error) {
	if res.Err != nil {
		var zero T
		return zero, mapError(res.Err)
	}
	return res.Entity, nil
}

func created(res tracker.Result[int64]) (any, error) {
	id, err := unwrap(res)
	if err != nil {
		return nil, err
	}
	return CreatedResponse{ID: id}, nil
}

func rows(res tracker.Result[int64]) (any, error) {
	n, err := unwrap(res)
	if err != nil {
		return nil, err
	}
	return RowsResponse{Rows: n}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return invalidParams(err)
	}
	return nil
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
