package part

import "errors"

// ErrInvalidInput indicates a part field failed validation.
var ErrInvalidInput = errors.New("invalid part input")
