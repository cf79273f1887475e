package game

import (
	"errors"
	"fmt"
)

// ErrInvalidMove rejects a move request whose destination is not legal for
// the side to move, or any move once the game is over. The state is left
// unchanged.
var ErrInvalidMove = errors.New("invalid move")

// ValidationError reports a structurally broken game state handed to the
// core. No partial repair is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid game state: %s: %s", e.Field, e.Reason)
}
