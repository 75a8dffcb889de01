package session

import "errors"

var (
	// ErrSessionNotFound indicates the session doesn't exist or was closed.
	ErrSessionNotFound = errors.New("session not found")
	// ErrCounterNotFound indicates the counter is not in the active part.
	ErrCounterNotFound = errors.New("counter not in active part")
	// ErrPartNotFound indicates the part does not belong to the session's project.
	ErrPartNotFound = errors.New("part not in project")
	// ErrNoActivePart indicates the project has no parts to work on.
	ErrNoActivePart = errors.New("project has no parts")
)
