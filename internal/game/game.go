package game

import (
	"context"
	"log/slog"
	"time"

	"github.com/pkg/errors"
)

// Observer is notified as the turn controller makes progress. Display and
// streaming collaborators implement it; none of them may mutate the board.
type Observer interface {
	TurnStarted(g *Game)
	MovePlayed(g *Game, side TurnToken, cell Cell)
	GameOver(g *Game, r Result)
}

// Result summarises a finished (or abandoned) game.
type Result struct {
	Status       Status
	Winner       CellState
	Direction    Direction
	WinColumn    int
	Player1Moves int
	Player2Moves int
	Elapsed      time.Duration
}

// Game is the turn controller. Side1 always moves first.
type Game struct {
	Board    *Board
	Observer Observer
	Logger   *slog.Logger

	players    [2]Player
	turn       TurnToken
	moves      [2]int
	remaining  int
	status     Status
	winner     CellState
	winLine    WinLine
	hasWinLine bool
	lastSide   TurnToken
	lastMove   Cell
	hasMoved   bool
	startedAt  time.Time
	endedAt    time.Time
}

func NewGame(b *Board, p1, p2 Player) *Game {
	return &Game{
		Board:     b,
		players:   [2]Player{p1, p2},
		turn:      Side1,
		remaining: b.Remaining(),
	}
}

func (g *Game) logger() *slog.Logger {
	if g.Logger == nil {
		return slog.Default()
	}
	return g.Logger
}

func (g *Game) Turn() TurnToken { return g.turn }
func (g *Game) Status() Status { return g.status }
func (g *Game) Winner() CellState { return g.winner }
func (g *Game) Remaining() int { return g.remaining }
func (g *Game) Moves(side TurnToken) int { return g.moves[side.index()] }
func (g *Game) Player(side TurnToken) Player { return g.players[side.index()] }

// WinLine is the line recorded by the last non-test win check.
func (g *Game) WinLine() (WinLine, bool) {
	return g.winLine, g.hasWinLine
}

// LastMove is the most recent cell applied to the live board.
func (g *Game) LastMove() (TurnToken, Cell, bool) {
	return g.lastSide, g.lastMove, g.hasMoved
}

func (g *Game) SwitchPlayer() {
	g.turn = g.turn.Opponent()
}

// Step plays a single turn for the active side.
func (g *Game) Step(ctx context.Context) (Status, error) {
	if g.status.Terminal() {
		return g.status, ErrGameOver
	}
	if g.Observer != nil {
		g.Observer.TurnStarted(g)
	}
	player := g.Player(g.turn)
	if player == nil {
		return g.status, errors.Errorf("no player configured for %s", g.turn)
	}
	cell, err := player.NextMove(ctx, g)
	if err != nil {
		return g.status, err
	}
	return g.Apply(cell)
}

// Apply places the active side's piece on cell, which must be the landing
// cell of its column, then checks for a win or a draw.
func (g *Game) Apply(cell Cell) (Status, error) {
	if g.status.Terminal() {
		return g.status, ErrGameOver
	}
	if g.startedAt.IsZero() {
		g.startedAt = time.Now()
	}
	landing, err := g.Board.LandingCell(cell.Col)
	if err != nil {
		return g.status, err
	}
	if landing.Row != cell.Row {
		return g.status, errors.Wrapf(ErrCellOccupied, "(%d,%d) is not the landing cell of column %s", cell.Row, cell.Col, ColumnLabel(cell.Col))
	}
	side := g.turn
	if err := g.Board.Place(cell.Row, cell.Col, side.State()); err != nil {
		return g.status, err
	}
	g.moveCounter()
	g.lastSide, g.lastMove, g.hasMoved = side, g.Board.Cell(cell.Row, cell.Col), true
	g.logger().Debug("move played",
		"side", side,
		"column", ColumnLabel(cell.Col),
		"row", cell.Row,
		"remaining", g.remaining)
	if g.Observer != nil {
		g.Observer.MovePlayed(g, side, g.lastMove)
	}

	if winner := g.CheckWin(g.Board, false); winner != Empty {
		g.finish(Won, winner)
	} else if g.remaining == 0 {
		g.finish(Draw, Empty)
	} else {
		g.SwitchPlayer()
	}
	return g.status, nil
}

func (g *Game) moveCounter() {
	g.moves[g.turn.index()]++
	g.remaining--
}

func (g *Game) finish(status Status, winner CellState) {
	g.status = status
	g.winner = winner
	g.endedAt = time.Now()
	if g.Observer != nil {
		g.Observer.GameOver(g, g.Result())
	}
}

// Play runs turns until the game is won or drawn.
func (g *Game) Play(ctx context.Context) (Result, error) {
	for !g.status.Terminal() {
		if _, err := g.Step(ctx); err != nil {
			return g.Result(), err
		}
	}
	return g.Result(), nil
}

func (g *Game) Result() Result {
	r := Result{
		Status:       g.status,
		Winner:       g.winner,
		WinColumn:    -1,
		Player1Moves: g.moves[0],
		Player2Moves: g.moves[1],
	}
	if g.status == Won && g.hasWinLine {
		r.Direction = g.winLine.Direction
		r.WinColumn = g.winLine.Col
	}
	switch {
	case g.startedAt.IsZero():
	case g.endedAt.IsZero():
		r.Elapsed = time.Since(g.startedAt)
	default:
		r.Elapsed = g.endedAt.Sub(g.startedAt)
	}
	return r
}

// Reset clears the board and every counter so the same game can run again.
func (g *Game) Reset() {
	g.Board.Reset()
	g.turn = Side1
	g.moves = [2]int{}
	g.remaining = g.Board.TotalCells()
	g.status = InProgress
	g.winner = Empty
	g.winLine, g.hasWinLine = WinLine{}, false
	g.lastSide, g.lastMove, g.hasMoved = 0, Cell{}, false
	g.startedAt, g.endedAt = time.Time{}, time.Time{}
}
