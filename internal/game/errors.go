package game

import "github.com/pkg/errors"

var (
	ErrInvalidSize    = errors.New("board size out of range")
	ErrInvalidColumn  = errors.New("invalid column")
	ErrColumnFull     = errors.New("column is full")
	ErrCellOccupied   = errors.New("cell already occupied")
	ErrNoCandidates   = errors.New("no candidate columns")
	ErrGameOver       = errors.New("game already finished")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrGameNotFound   = errors.New("game not found")
	ErrMalformedBoard = errors.New("malformed board")
)

// IsInvariantViolation reports whether err signals a logic bug rather than a
// user mistake. Callers treat these as fatal.
func IsInvariantViolation(err error) bool {
	return errors.Is(err, ErrCellOccupied) || errors.Is(err, ErrNoCandidates)
}
