package student

import "errors"

var (
	// ErrInvalidName indicates a name that is empty after trimming.
	ErrInvalidName = errors.New("valid name required")
	// ErrNameTooLong indicates a name longer than MaxNameLength.
	ErrNameTooLong = errors.New("name too long")
	// ErrInvalidRecord indicates a nil record was passed for update.
	ErrInvalidRecord = errors.New("valid record required")
	// ErrInvalidPage indicates a non-positive page limit.
	ErrInvalidPage = errors.New("invalid page limit")
)
