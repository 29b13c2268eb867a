package cat

import "errors"

var (
	ErrNotFound       = errors.New("cat not found")
	ErrUnknownSegment = errors.New("unknown segment")
	ErrUnknownOption  = errors.New("value is not one of the allowed options")
)
