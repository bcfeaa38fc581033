package source

import "errors"

// Sentinel error kinds for game log sources.
var (
	ErrUnknownKind   = errors.New("source: unknown kind")
	ErrMissingColumn = errors.New("source: missing column")
	ErrEmpty         = errors.New("source: no header row")
	ErrSheetNotFound = errors.New("source: sheet not found")
	ErrFetch         = errors.New("source: fetch failed")
)
