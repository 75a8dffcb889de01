package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/knitcount/internal/domain/counter"
	"github.com/rpggio/knitcount/internal/session"
	"github.com/rpggio/knitcount/internal/tracker"
)

// Error codes returned in APIError.Code.
const (
	CodeBlankName          = "BLANK_NAME"
	CodeAlreadyExists      = "ALREADY_EXISTS"
	CodeDoesNotExist       = "DOES_NOT_EXIST"
	CodeNoChangeDetected   = "NO_CHANGE_DETECTED"
	CodePersistenceFailure = "PERSISTENCE_FAILURE"
	CodeInvalidInput       = "INVALID_INPUT"
	CodeNotUserDeletable   = "NOT_USER_DELETABLE"
	CodeConflict           = "CONFLICT"
	CodeOverflow           = "OVERFLOW"
	CodeNotLinkable        = "NOT_LINKABLE"
	CodeSessionNotFound    = "SESSION_NOT_FOUND"
	CodeCounterNotInPart   = "COUNTER_NOT_IN_SESSION"
	CodePartNotInProject   = "PART_NOT_IN_PROJECT"
	CodeNoActivePart       = "NO_ACTIVE_PART"
	CodeInvalidParams      = "INVALID_PARAMS"
	CodeMethodNotFound     = "METHOD_NOT_FOUND"
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes. The message is taken from
// err so the caller sees what actually failed.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	msg := err.Error()
	switch {
	case errors.Is(err, tracker.ErrBlankName):
		return &APIError{Code: CodeBlankName, Message: msg, RecoveryHint: "Provide a non-blank name"}
	case errors.Is(err, tracker.ErrAlreadyExists):
		return &APIError{Code: CodeAlreadyExists, Message: msg, RecoveryHint: "Omit the id to let the store assign one"}
	case errors.Is(err, tracker.ErrDoesNotExist):
		return &APIError{Code: CodeDoesNotExist, Message: msg, RecoveryHint: "Check the id with a list tool"}
	case errors.Is(err, tracker.ErrNoChangeDetected):
		return &APIError{Code: CodeNoChangeDetected, Message: msg, RecoveryHint: "Change at least one field"}
	case errors.Is(err, tracker.ErrConflict):
		return &APIError{Code: CodeConflict, Message: msg, RecoveryHint: "Call refresh_session or get_counter, then retry"}
	case errors.Is(err, tracker.ErrNotUserDeletable):
		return &APIError{Code: CodeNotUserDeletable, Message: msg, RecoveryHint: "Delete the part instead"}
	case errors.Is(err, tracker.ErrInvalidInput), errors.Is(err, counter.ErrInvalidInput):
		return &APIError{Code: CodeInvalidInput, Message: msg, RecoveryHint: "Check field values against the tool schema"}
	case errors.Is(err, counter.ErrOverflow):
		return &APIError{Code: CodeOverflow, Message: msg, RecoveryHint: "Reset the counter value"}
	case errors.Is(err, counter.ErrNotLinkable):
		return &APIError{Code: CodeNotLinkable, Message: msg, RecoveryHint: "Only normal counters can follow the global counter"}
	case errors.Is(err, session.ErrSessionNotFound):
		return &APIError{Code: CodeSessionNotFound, Message: msg, RecoveryHint: "Call open_session"}
	case errors.Is(err, session.ErrCounterNotFound):
		return &APIError{Code: CodeCounterNotInPart, Message: msg, RecoveryHint: "Use a counter id from get_session"}
	case errors.Is(err, session.ErrPartNotFound):
		return &APIError{Code: CodePartNotInProject, Message: msg, RecoveryHint: "Use a part id from get_session"}
	case errors.Is(err, session.ErrNoActivePart):
		return &APIError{Code: CodeNoActivePart, Message: msg, RecoveryHint: "Call add_part first"}
	case errors.Is(err, tracker.ErrPersistence):
		return &APIError{Code: CodePersistenceFailure, Message: msg, RecoveryHint: "Retry later"}
	default:
		return nil
	}
}

func invalidParams(err error) *APIError {
	return &APIError{Code: CodeInvalidParams, Message: err.Error(), RecoveryHint: "Check the tool input schema"}
}
