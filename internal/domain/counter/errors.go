package counter

import "errors"

var (
	// ErrInvalidInput indicates a counter field failed validation.
	ErrInvalidInput = errors.New("invalid counter input")
	// ErrOverflow indicates a step would leave the int64 range.
	ErrOverflow = errors.New("counter value out of range")
	// ErrNotLinkable indicates a link toggle on a Global or Stitch counter.
	ErrNotLinkable = errors.New("only normal counters can be linked to the global counter")
)
