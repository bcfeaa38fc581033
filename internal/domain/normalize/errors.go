package normalize

import (
	"errors"
	"fmt"
)

// ErrMalformedInput is the kind matched by every MalformedInputError.
var ErrMalformedInput = errors.New("malformed input")

// MalformedInputError reports a game row that cannot be normalized.
// Row is the 1-based position of the row, which is also its GameID.
type MalformedInputError struct {
	Row    int
	Seat   string
	Field  string
	Value  string
	Reason string
}

func (e *MalformedInputError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: row %d: %s %s %q: %s", ErrMalformedInput, e.Row, e.Seat, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s: row %d: %s %s: %s", ErrMalformedInput, e.Row, e.Seat, e.Field, e.Reason)
}

// Is reports whether target is ErrMalformedInput.
func (e *MalformedInputError) Is(target error) bool {
	return target == ErrMalformedInput
}
