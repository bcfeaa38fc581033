package rating

import (
	"errors"
	"fmt"
)

// Sentinel kinds for rating errors.
var (
	ErrIncompleteGame = errors.New("incomplete game")
	ErrInvalidPrior   = errors.New("invalid rating prior")
	ErrRaterMismatch  = errors.New("rater returned wrong number of ratings")
	ErrNilRater       = errors.New("nil rater")
)

// IncompleteGameError reports a game that does not have exactly four
// distinct participants.
type IncompleteGameError struct {
	GameID  int
	Players []string
	Reason  string
}

func (e *IncompleteGameError) Error() string {
	return fmt.Sprintf("%s: game %d: %s %v", ErrIncompleteGame, e.GameID, e.Reason, e.Players)
}

// Is reports whether target is ErrIncompleteGame.
func (e *IncompleteGameError) Is(target error) bool {
	return target == ErrIncompleteGame
}
