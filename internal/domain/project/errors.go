package project

import "errors"

// ErrInvalidInput indicates a project field failed validation.
var ErrInvalidInput = errors.New("invalid project input")
