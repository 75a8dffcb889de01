package mcp

import (
	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/domain/part"
	"github.com/rpggio/knitcount/internal/domain/project"
)

// ToolDefinition describes a tool exposed over MCP.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// IDParams identifies a single project, part or counter.
type IDParams struct {
	ID int64 `json:"id"`
}

// ProjectParams carries project fields for create_project and add_project.
type ProjectParams struct {
	ID          int64             `json:"id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Type        project.CraftType `json:"type,omitempty"`
	Completed   bool              `json:"completed,omitempty"`
}

type SearchProjectsParams struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

type ListPartsParams struct {
	ProjectID int64 `json:"project_id"`
}

type AddPartParams struct {
	ID          int64  `json:"id,omitempty"`
	ProjectID   int64  `json:"project_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsCurrent   bool   `json:"is_current,omitempty"`
}

type ListCountersParams struct {
	PartID int64 `json:"part_id"`
}

type AddCounterParams struct {
	ID               int64               `json:"id,omitempty"`
	PartID           int64               `json:"part_id"`
	Name             string              `json:"name"`
	Value            int64               `json:"value,omitempty"`
	IncrementBy      int64               `json:"increment_by,omitempty"`
	Type             counter.CounterType `json:"type,omitempty"`
	IsGloballyLinked bool                `json:"is_globally_linked,omitempty"`
	ResetRow         int64               `json:"reset_row,omitempty"`
	MaxResets        int64               `json:"max_resets,omitempty"`
}

// UpdateCounterParams patches a stored counter. Omitted fields keep their
// stored values; Version defaults to the stored version.
type UpdateCounterParams struct {
	ID               int64   `json:"id"`
	Name             *string `json:"name,omitempty"`
	Value            *int64  `json:"value,omitempty"`
	IncrementBy      *int64  `json:"increment_by,omitempty"`
	IsGloballyLinked *bool   `json:"is_globally_linked,omitempty"`
	ResetRow         *int64  `json:"reset_row,omitempty"`
	MaxResets        *int64  `json:"max_resets,omitempty"`
	NumResets        *int64  `json:"num_resets,omitempty"`
	Version          *int64  `json:"version,omitempty"`
}

type OpenSessionParams struct {
	ProjectID int64 `json:"project_id"`
}

// SessionParams names a session. SessionID falls back to the transport
// session id when omitted.
type SessionParams struct {
	SessionID string `json:"session_id,omitempty"`
}

type SessionCounterParams struct {
	SessionID string `json:"session_id,omitempty"`
	CounterID int64  `json:"counter_id"`
}

type SelectPartParams struct {
	SessionID string `json:"session_id,omitempty"`
	PartID    int64  `json:"part_id"`
}

// CreatedResponse is returned by every add tool.
type CreatedResponse struct {
	ID int64 `json:"id"`
}

// RowsResponse is returned by delete and update tools.
type RowsResponse struct {
	Rows int64 `json:"rows"`
}

type ProjectDeletedResponse struct {
	Rows           int64 `json:"rows"`
	SessionsClosed int   `json:"sessions_closed"`
}

type ProjectsResponse struct {
	Projects []project.Project `json:"projects"`
}

type PartsResponse struct {
	Parts []part.Part `json:"parts"`
}

type CountersResponse struct {
	Counters []counter.Counter `json:"counters"`
}

// StepResponse reports a counter step: the counters the step changed and
// the active part's full counter list afterwards.
type StepResponse struct {
	SessionID string            `json:"session_id"`
	Changed   []counter.Counter `json:"changed"`
	Counters  []counter.Counter `json:"counters"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
