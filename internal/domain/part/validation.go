package part

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks field constraints. Name and owner checks belong to the
// repository layer because they carry their own failure kinds.
func (p Part) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Description, validation.Length(0, 2000)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
