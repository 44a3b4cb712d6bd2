package layout

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded reports more controls of one type than the surface
	// provides.
	ErrCapacityExceeded = errors.New("layout: capacity exceeded")

	// ErrLayoutOverflow reports that the document ran out of vertical space.
	ErrLayoutOverflow = errors.New("layout: too many parameters for document size")
)

// CapacityError describes a row rejected because its index is past the
// limit for its control type.
type CapacityError struct {
	Name  string
	Type  ControlType
	Index int
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("ran out of controls for type [%s]: %s would be %s%d, limit %d",
		e.Type, e.Name, e.Type, e.Index, e.Limit)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}

// OverflowError describes rows truncated by the layout pass.
type OverflowError struct {
	// Placed is the number of rows kept.
	Placed int
	// Removed is the number of rows dropped after the last placed control.
	Removed int
	Y       float64
	Limit   float64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("too many parameters for this document size: y %.0f past %.0f, %d rows skipped",
		e.Y, e.Limit, e.Removed)
}

func (e *OverflowError) Unwrap() error {
	return ErrLayoutOverflow
}
