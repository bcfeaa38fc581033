package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound     = errors.New("player not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrNotReady     = errors.New("no replay published yet")
	ErrNilReplay    = errors.New("nil replay")
)
