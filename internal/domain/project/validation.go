package project

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validate checks the fields that are not covered by the name and identity
// checks of the repository layer.
func (p Project) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Type, validation.Required, validation.In(CraftKnitting, CraftCrochet)),
		validation.Field(&p.RowsCompleted, validation.Min(int64(0))),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}
