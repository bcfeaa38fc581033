package service

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the service.
var (
	ErrInvalidOverride = errors.New("invalid override")
	ErrNoSource        = errors.New("no game log source configured")
	ErrNoStore         = errors.New("no replay store configured")
)

// OverrideError reports a what-if parameter outside its allowed range.
type OverrideError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *OverrideError) Error() string {
	return fmt.Sprintf("invalid override: %s=%g outside [%g, %g]", e.Field, e.Value, e.Min, e.Max)
}

// Is matches ErrInvalidOverride.
func (e *OverrideError) Is(target error) bool {
	return target == ErrInvalidOverride
}
