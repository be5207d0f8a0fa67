package alias

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/effectus/effectus-query/schema/types"
)

var (
	// ErrShapeMismatch is returned when a value's runtime type does not fit
	// the requested shape
	ErrShapeMismatch = errors.New("shape mismatch")

	// ErrNullInput is returned for an untyped nil where a value is needed to
	// infer the type
	ErrNullInput = errors.New("null input")

	// ErrUnsupportedShape is returned when asked for a shape the factory does
	// not know
	ErrUnsupportedShape = errors.New("unsupported shape")

	// ErrUnknownProperty is returned when navigating to a missing property
	ErrUnknownProperty = errors.New("unknown property")
)

// ShapeError describes a failed construction
type ShapeError struct {
	Op     string
	Shape  types.Shape
	GoType reflect.Type
	Err    error
}

func (e *ShapeError) Error() string {
	if e.GoType == nil {
		return fmt.Sprintf("%s: cannot build %s path: %v", e.Op, e.Shape, e.Err)
	}
	return fmt.Sprintf("%s: cannot build %s path from %s: %v", e.Op, e.Shape, e.GoType, e.Err)
}

func (e *ShapeError) Unwrap() error {
	return e.Err
}
