package script

import "errors"

var (
	// ErrValidation reports missing or malformed user input.
	ErrValidation = errors.New("validation error")
	// ErrIndexOutOfRange reports a position that does not exist in a sequence.
	ErrIndexOutOfRange = errors.New("index out of range")
)
