package maintenance

import "errors"

var (
	// ErrEmptyDescription indicates a malfunction without a description.
	ErrEmptyDescription = errors.New("maintenance: empty description")
	// ErrInvalidID indicates a malformed malfunction id.
	ErrInvalidID = errors.New("maintenance: invalid malfunction id")
)
