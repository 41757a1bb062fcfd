package game

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ColumnLabel maps a column index onto its letter: 0 -> "A", 1 -> "B".
func ColumnLabel(col int) string {
	if col < 0 || col >= MaxColumns {
		return strconv.Itoa(col)
	}
	return string(rune('A' + col))
}

// ParseColumn maps a column letter back onto its index on a board with the
// given width. Matching is case-insensitive.
func ParseColumn(token string, columns int) (int, error) {
	token = strings.ToUpper(strings.TrimSpace(token))
	if len(token) != 1 || token[0] < 'A' || token[0] > 'Z' {
		return -1, errors.Wrapf(ErrInvalidColumn, "%q", token)
	}
	col := int(token[0] - 'A')
	if col >= columns {
		return -1, errors.Wrapf(ErrInvalidColumn, "%q on a %d column board", token, columns)
	}
	return col, nil
}

// ParseBoard builds a board from text rows, top row first. '.' is empty,
// 'X' is Player1 and 'O' is Player2. Pieces must rest on the floor or on
// another piece.
func ParseBoard(lines []string) (*Board, error) {
	if len(lines) == 0 {
		return nil, errors.Wrap(ErrMalformedBoard, "no rows")
	}
	rows, columns := len(lines), len(lines[0])
	b, err := NewBoard(rows, columns)
	if err != nil {
		return nil, errors.Wrap(ErrMalformedBoard, err.Error())
	}
	for r, line := range lines {
		if len(line) != columns {
			return nil, errors.Wrapf(ErrMalformedBoard, "row %d has %d cells, want %d", r, len(line), columns)
		}
		for c, ch := range line {
			var state CellState
			switch ch {
			case '.':
				continue
			case 'X', 'x':
				state = Player1
			case 'O', 'o':
				state = Player2
			default:
				return nil, errors.Wrapf(ErrMalformedBoard, "unknown cell %q at (%d,%d)", ch, r, c)
			}
			if err := b.Place(r, c, state); err != nil {
				return nil, err
			}
		}
	}
	for c := 0; c < columns; c++ {
		gap := false
		for r := rows - 1; r >= 0; r-- {
			if b.state(r, c) == Empty {
				gap = true
			} else if gap {
				return nil, errors.Wrapf(ErrMalformedBoard, "floating piece at (%d,%d)", r, c)
			}
		}
	}
	return b, nil
}

// Lines renders the board in the ParseBoard notation.
func (b *Board) Lines() []string {
	out := make([]string, b.rows)
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		sb.Reset()
		for c := 0; c < b.columns; c++ {
			sb.WriteRune(b.state(r, c).Symbol())
		}
		out[r] = sb.String()
	}
	return out
}

func (b *Board) String() string {
	return strings.Join(b.Lines(), "\n")
}
