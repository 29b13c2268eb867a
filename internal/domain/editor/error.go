package editor

import "errors"

var (
	ErrSaveBasicFirst = errors.New("basic segment must be saved before the others")
	ErrNoCompany      = errors.New("company id not found in session")
	ErrBusy           = errors.New("a save is already in progress")
	ErrClosed         = errors.New("editor closed")
)

// LoadError is returned when an existing record cannot be opened. The
// caller is expected to go back to Return.
type LoadError struct {
	ID     string
	Return string
	Err    error
}

func (e *LoadError) Error() string {
	return "load cat " + e.ID + ": " + e.Err.Error()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
