package encoder

import (
	"errors"
	"fmt"

	"media-cms/internal/domain"
)

var ErrUnsupportedFormat = errors.New("unsupported image format")

// EncodeError reports the target that failed during decode, resize or
// encode. Width 0 means the failure happened before any width-specific
// work, i.e. while decoding the source.
type EncodeError struct {
	Width  int
	Format domain.SourceFormat
	Err    error
}

func (e *EncodeError) Error() string {
	if e.Width == 0 {
		return fmt.Sprintf("failed to encode %s source: %v", e.Format, e.Err)
	}
	return fmt.Sprintf("failed to encode %s variant at width %d: %v", e.Format, e.Width, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
