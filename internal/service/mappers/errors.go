package mappers

import (
	"fmt"
)

// ErrInvalidSpecValue reports a gemstone or metal field that should be
// numeric but is not. It aborts the conversion as a precondition failure.
type ErrInvalidSpecValue struct {
	error
}

func NewErrInvalidSpecValue(field, value string) *ErrInvalidSpecValue {
	return &ErrInvalidSpecValue{fmt.Errorf("spec field %s has non-numeric value %q", field, value)}
}
