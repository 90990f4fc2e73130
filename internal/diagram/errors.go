package diagram

import (
	"fmt"

	"github.com/pkg/errors"
)

// Common errors. Call sites wrap them with context; match with errors.Is.
var (
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrAxiom              = errors.New("axiom violated")
	ErrInvalidPermutation = errors.New("invalid permutation")
	ErrShapeMismatch      = errors.New("shape mismatch")
	ErrMissingMapping     = errors.New("missing mapping")
	ErrInvalidDimension   = errors.New("invalid dimension")
)

// CompositionError reports a sequential composition whose boundary types disagree.
type CompositionError struct {
	Left  Ty // codomain of the first diagram
	Right Ty // domain of the second diagram
}

// Error implements the error interface.
func (e *CompositionError) Error() string {
	return fmt.Sprintf("%s: cannot compose: %s != %s", ErrAxiom, e.Left, e.Right)
}

// Unwrap makes errors.Is(err, ErrAxiom) hold.
func (e *CompositionError) Unwrap() error {
	return ErrAxiom
}

func errCompose(left, right Ty) error {
	return errors.WithStack(&CompositionError{Left: left, Right: right})
}
