package game

import "github.com/pkg/errors"

const (
	MinRows        = 4
	MaxRows        = 20
	MinColumns     = 4
	MaxColumns     = 26
	DefaultRows    = 6
	DefaultColumns = 7
	WinLength      = 4
)

// Cell is one grid position. Row 0 is the top row. Score is the static
// heuristic desirability; lower is better.
type Cell struct {
	Row   int
	Col   int
	State CellState
	Score int
}

func (c Cell) Empty() bool {
	return c.State == Empty
}

// Board is a rows x columns grid stored row-major. Cells only ever go from
// Empty to occupied; Reset is the only way back.
type Board struct {
	rows      int
	columns   int
	cells     []Cell
	remaining int
}

// ValidSize reports whether the dimensions are playable.
func ValidSize(rows, columns int) bool {
	return rows >= MinRows && rows <= MaxRows && columns >= MinColumns && columns <= MaxColumns
}

func NewBoard(rows, columns int) (*Board, error) {
	if !ValidSize(rows, columns) {
		return nil, errors.Wrapf(ErrInvalidSize, "%dx%d", rows, columns)
	}
	b := &Board{
		rows:    rows,
		columns: columns,
		cells:   make([]Cell, rows*columns),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < columns; c++ {
			b.cells[r*columns+c] = Cell{Row: r, Col: c, Score: heuristicScore(rows, columns, r, c)}
		}
	}
	b.remaining = rows * columns
	return b, nil
}

// heuristicScore favours the centre column and the lower rows.
func heuristicScore(rows, columns, row, col int) int {
	rowScore := rows - row
	colScore := col - columns/2
	if colScore < 0 {
		colScore = -colScore
	}
	return rowScore + colScore
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Columns() int { return b.columns }
func (b *Board) Remaining() int { return b.remaining }
func (b *Board) TotalCells() int { return b.rows * b.columns }

func (b *Board) Full() bool {
	return b.remaining == 0
}

func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.columns
}

// Cell returns a copy of the cell at row, col. It panics when out of bounds.
func (b *Board) Cell(row, col int) Cell {
	return b.cells[row*b.columns+col]
}

func (b *Board) state(row, col int) CellState {
	return b.cells[row*b.columns+col].State
}

// Cells returns a copy of every cell in row-major order.
func (b *Board) Cells() []Cell {
	out := make([]Cell, len(b.cells))
	copy(out, b.cells)
	return out
}

// LandingCell scans a column from the bottom up and returns the first empty
// cell.
func (b *Board) LandingCell(col int) (Cell, error) {
	if col < 0 || col >= b.columns {
		return Cell{}, errors.Wrapf(ErrInvalidColumn, "column %d", col)
	}
	for row := b.rows - 1; row >= 0; row-- {
		if cell := b.Cell(row, col); cell.Empty() {
			return cell, nil
		}
	}
	return Cell{}, errors.Wrapf(ErrColumnFull, "column %s", ColumnLabel(col))
}

// Place occupies an empty cell. Placing on an occupied cell is an invariant
// violation.
func (b *Board) Place(row, col int, state CellState) error {
	if !b.InBounds(row, col) {
		return errors.Wrapf(ErrInvalidColumn, "cell (%d,%d) outside %dx%d board", row, col, b.rows, b.columns)
	}
	if state == Empty {
		return errors.Errorf("place (%d,%d): cannot place an empty piece", row, col)
	}
	cell := &b.cells[row*b.columns+col]
	if !cell.Empty() {
		return errors.Wrapf(ErrCellOccupied, "place %s at (%d,%d) held by %s", state, row, col, cell.State)
	}
	cell.State = state
	b.remaining--
	return nil
}

// Reset empties every cell. Heuristic scores are static and kept.
func (b *Board) Reset() {
	for i := range b.cells {
		b.cells[i].State = Empty
	}
	b.remaining = b.rows * b.columns
}

// Clone returns a fully independent copy.
func (b *Board) Clone() *Board {
	out := *b
	out.cells = make([]Cell, len(b.cells))
	copy(out.cells, b.cells)
	return &out
}
