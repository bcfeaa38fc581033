package testleague

import "errors"

// Sentinel kinds for the test league tool.
var (
	ErrInvalidGenerate  = errors.New("invalid generate config")
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
	ErrMismatch         = errors.New("served leaderboard does not match local replay")
	ErrUnknownFormat    = errors.New("unknown game log format")
)
