package game

import "github.com/pkg/errors"

// CellState is the occupancy of a single cell.
type CellState uint8

const (
	Empty CellState = iota
	Player1
	Player2
)

func (s CellState) String() string {
	switch s {
	case Player1:
		return "PLAYER1"
	case Player2:
		return "PLAYER2"
	default:
		return "EMPTY"
	}
}

// Symbol is the rune used by the text board notation.
func (s CellState) Symbol() rune {
	switch s {
	case Player1:
		return 'X'
	case Player2:
		return 'O'
	default:
		return '.'
	}
}

// TurnToken identifies the side to move. Its values line up with CellState.
type TurnToken uint8

const (
	Side1 TurnToken = 1
	Side2 TurnToken = 2
)

func (t TurnToken) Valid() bool {
	return t == Side1 || t == Side2
}

func (t TurnToken) Opponent() TurnToken {
	if t == Side1 {
		return Side2
	}
	return Side1
}

func (t TurnToken) State() CellState {
	return CellState(t)
}

func (t TurnToken) String() string {
	if t == Side2 {
		return "Player 2"
	}
	return "Player 1"
}

// index maps a token onto per-side arrays.
func (t TurnToken) index() int {
	return int(t) - 1
}

// PlayerType says who controls a side.
type PlayerType uint8

const (
	Human PlayerType = iota
	Computer
)

func (p PlayerType) String() string {
	if p == Computer {
		return "COMPUTER"
	}
	return "HUMAN"
}

// Direction is the orientation of a winning line. The declaration order is
// the order the win detector tries them in.
type Direction uint8

const (
	Horizontal Direction = iota
	Vertical
	DownRight
	DownLeft
)

var directions = [...]struct {
	name   string
	dr, dc int
}{
	Horizontal: {"horizontal", 0, 1},
	Vertical:   {"vertical", 1, 0},
	DownRight:  {"down-right", 1, 1},
	DownLeft:   {"down-left", 1, -1},
}

// Directions lists every direction in scan order.
func Directions() []Direction {
	return []Direction{Horizontal, Vertical, DownRight, DownLeft}
}

func (d Direction) String() string {
	if int(d) < len(directions) {
		return directions[d].name
	}
	return "unknown"
}

func (d Direction) delta() (int, int) {
	return directions[d].dr, directions[d].dc
}

func (d Direction) MarshalText() ([]byte, error) {
	if int(d) >= len(directions) {
		return nil, errors.Errorf("unknown direction %d", d)
	}
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	for i, dir := range directions {
		if dir.name == string(b) {
			*d = Direction(i)
			return nil
		}
	}
	return errors.Errorf("unknown direction %q", string(b))
}

// Status is the turn controller's state.
type Status uint8

const (
	InProgress Status = iota
	Won
	Draw
)

func (s Status) String() string {
	switch s {
	case Won:
		return "won"
	case Draw:
		return "draw"
	default:
		return "in_progress"
	}
}

func (s Status) Terminal() bool {
	return s == Won || s == Draw
}
