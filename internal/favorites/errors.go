package favorites

import "errors"

var (
	// ErrStorageUnavailable wraps every failure of the underlying Backend.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrInvalidImportFormat is reported in ImportResult, never returned.
	ErrInvalidImportFormat = errors.New("invalid import format")

	ErrEmptyID = errors.New("favorite id is empty")
)
