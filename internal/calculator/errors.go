package calculator

import "errors"

var (
	// ErrUnpackable is returned when a SKU cannot be placed on any pallet:
	// its footprint exceeds the pallet base in both orientations, or no
	// position type can host even a single layer.
	ErrUnpackable = errors.New("boxes cannot be placed on a pallet under the current constraints")
	// ErrInvalidPalletDims is returned when the pallet base dimensions are not positive.
	ErrInvalidPalletDims = errors.New("pallet length and width must be positive")
	// ErrInvalidFixedLength is returned when the fixed footprint length is not positive.
	ErrInvalidFixedLength = errors.New("fixed length must be positive")
	// ErrInvalidClearance is returned when the height clearance is negative.
	ErrInvalidClearance = errors.New("clearance must not be negative")
)
