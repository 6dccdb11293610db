package texsynth

import "errors"

var (
	// ErrInvalidParameter is returned for option values outside their domain.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInsufficientSourceSize is returned when the exemplar cannot hold a
	// single matching window or block.
	ErrInsufficientSourceSize = errors.New("insufficient source size")
)
