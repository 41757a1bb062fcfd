package game

// WinLine describes the first four-in-a-row found on a board.
type WinLine struct {
	Winner    CellState
	Direction Direction
	Row       int
	Col       int
}

// FindWin scans cells in row-major order and, for each occupied cell, tries
// the directions in declaration order. The end of the line is bounds-checked
// before any cell along it is compared. The first complete line wins.
func FindWin(b *Board) (WinLine, bool) {
	for row := 0; row < b.rows; row++ {
		for col := 0; col < b.columns; col++ {
			state := b.state(row, col)
			if state == Empty {
				continue
			}
			for _, dir := range Directions() {
				dr, dc := dir.delta()
				if !b.InBounds(row+(WinLength-1)*dr, col+(WinLength-1)*dc) {
					continue
				}
				if lineMatches(b, row, col, dr, dc, state) {
					return WinLine{Winner: state, Direction: dir, Row: row, Col: col}, true
				}
			}
		}
	}
	return WinLine{}, false
}

func lineMatches(b *Board, row, col, dr, dc int, state CellState) bool {
	for i := 1; i < WinLength; i++ {
		if b.state(row+i*dr, col+i*dc) != state {
			return false
		}
	}
	return true
}

// CheckWin runs the win detector against b and returns the winner, or Empty.
// Outside test mode the winning direction and origin column are recorded on
// the game; in test mode b is a throwaway clone and nothing is recorded.
func (g *Game) CheckWin(b *Board, testMode bool) CellState {
	line, ok := FindWin(b)
	if !ok {
		return Empty
	}
	if !testMode {
		g.winLine = line
		g.hasWinLine = true
		g.logger().Debug("winner found",
			"winner", line.Winner,
			"direction", line.Direction,
			"column", ColumnLabel(line.Col),
			"row", line.Row)
	}
	return line.Winner
}
