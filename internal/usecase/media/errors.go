package media

import (
	"errors"
	"fmt"

	"media-cms/internal/usecase/encoder"
)

var (
	ErrMissingData      = errors.New("missing upload data")
	ErrUploadIncomplete = errors.New("some uploads failed")

	// ErrUnsupportedFormat is surfaced by the resolver before any
	// encode or storage work starts.
	ErrUnsupportedFormat = encoder.ErrUnsupportedFormat
)

// RegistrationError wraps a metadata-store failure that happened after
// every derivative was already stored. The stored artifacts stay live.
type RegistrationError struct {
	Err error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("failed to insert media: %v", e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }
