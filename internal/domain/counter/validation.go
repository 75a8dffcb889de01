package counter

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks field constraints on a counter with defaults applied.
func (c Counter) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Type, validation.Required, validation.In(TypeNormal, TypeGlobal, TypeStitch)),
		validation.Field(&c.IncrementBy, validation.Min(int64(1))),
		validation.Field(&c.ResetRow, validation.Min(int64(0))),
		validation.Field(&c.MaxResets, validation.Min(int64(0))),
		validation.Field(&c.NumResets, validation.Min(int64(0))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
