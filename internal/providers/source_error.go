package providers

import (
	"errors"
	"fmt"
)

// SourceError represents a failure talking to the external registry:
// transport errors, timeouts, and non-2xx responses all map here.
type SourceError struct {
	Code    string
	Message string
	Details string
	Err     error
}

func (e *SourceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// IsSourceError reports whether err originated at the registry boundary.
func IsSourceError(err error) bool {
	var se *SourceError
	return errors.As(err, &se)
}
