package game

import (
	"context"
	"testing"

	"github.com/pkg/errors"
)

// scriptedInput feeds a fixed sequence of columns to a HumanPlayer.
type scriptedInput struct {
	cols []int
	next int
	full []int
}

func (s *scriptedInput) ReadColumn(context.Context, TurnToken, *Board) (int, error) {
	if s.next >= len(s.cols) {
		return 0, errors.New("script exhausted")
	}
	col := s.cols[s.next]
	s.next++
	return col, nil
}

func (s *scriptedInput) ColumnFull(col int) {
	s.full = append(s.full, col)
}

func humans(p1, p2 []int) (Player, Player) {
	return NewHumanPlayer(&scriptedInput{cols: p1}), NewHumanPlayer(&scriptedInput{cols: p2})
}

type recordingObserver struct {
	turns  int
	moves  []Cell
	result *Result
}

func (o *recordingObserver) TurnStarted(*Game) { o.turns++ }

func (o *recordingObserver) MovePlayed(_ *Game, _ TurnToken, cell Cell) {
	o.moves = append(o.moves, cell)
}

func (o *recordingObserver) GameOver(_ *Game, r Result) { o.result = &r }

func TestPlayVerticalWin(t *testing.T) {
	p1, p2 := humans([]int{0, 0, 0, 0}, []int{1, 1, 1})
	g := NewGame(mustNewBoard(t, 6, 7), p1, p2)
	obs := &recordingObserver{}
	g.Observer = obs

	r, err := g.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if r.Status != Won || r.Winner != Player1 {
		t.Fatalf("result = %+v, want PLAYER1 win", r)
	}
	if r.Direction != Vertical || r.WinColumn != 0 {
		t.Fatalf("win line = %s from column %d, want vertical from 0", r.Direction, r.WinColumn)
	}
	if r.Player1Moves != 4 || r.Player2Moves != 3 {
		t.Fatalf("moves = %d/%d, want 4/3", r.Player1Moves, r.Player2Moves)
	}
	if g.Remaining() != 42-7 || g.Remaining() != g.Board.Remaining() {
		t.Fatalf("remaining = %d (board %d), want 35", g.Remaining(), g.Board.Remaining())
	}
	if obs.turns != 7 || len(obs.moves) != 7 || obs.result == nil {
		t.Fatalf("observer saw %d turns, %d moves, result %v", obs.turns, len(obs.moves), obs.result)
	}
	if side, cell, ok := g.LastMove(); !ok || side != Side1 || cell.Row != 2 || cell.Col != 0 {
		t.Fatalf("last move = %s (%d,%d) %v", side, cell.Row, cell.Col, ok)
	}
}

func TestStepAlternatesTurns(t *testing.T) {
	p1, p2 := humans([]int{3, 3}, []int{4})
	g := NewGame(mustNewBoard(t, 6, 7), p1, p2)
	want := []TurnToken{Side2, Side1, Side2}
	for i, next := range want {
		status, err := g.Step(context.Background())
		if err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
		if status != InProgress || g.Turn() != next {
			t.Fatalf("step %d: status %s turn %s, want in_progress %s", i, status, g.Turn(), next)
		}
	}
	if g.Board.Cell(5, 3).State != Player1 || g.Board.Cell(5, 4).State != Player2 || g.Board.Cell(4, 3).State != Player1 {
		t.Fatalf("unexpected board:\n%s", g.Board)
	}
}

func TestHumanFullColumnReprompts(t *testing.T) {
	b := mustBoard(t,
		"O...",
		"X...",
		"O...",
		"X...",
	)
	input := &scriptedInput{cols: []int{0, 0, 1}}
	g := NewGame(b, NewHumanPlayer(input), nil)
	if _, err := g.Step(context.Background()); err != nil {
		t.Fatalf("Step: %v", err)
	}
	if len(input.full) != 2 || input.full[0] != 0 {
		t.Fatalf("full notifications = %v, want [0 0]", input.full)
	}
	if b.Cell(3, 1).State != Player1 {
		t.Fatalf("move did not land in column B:\n%s", b)
	}
	if g.Moves(Side1) != 1 || g.Remaining() != 11 {
		t.Fatalf("moves %d remaining %d", g.Moves(Side1), g.Remaining())
	}
}

func TestPlayDraw(t *testing.T) {
	b := mustBoard(t,
		".OXOXOX",
		"XOXOXOX",
		"OXOXOXO",
		"OXOXOXO",
		"XOXOXOX",
		"XOXOXOX",
	)
	g := NewGame(b, NewHumanPlayer(&scriptedInput{cols: []int{0}}), nil)
	r, err := g.Play(context.Background())
	if err != nil {
		t.Fatalf("Play: %v", err)
	}
	if r.Status != Draw || r.Winner != Empty || r.WinColumn != -1 {
		t.Fatalf("result = %+v, want draw", r)
	}
	if g.Remaining() != 0 || !b.Full() {
		t.Fatalf("remaining = %d, board full %v", g.Remaining(), b.Full())
	}
	if _, ok := g.WinLine(); ok {
		t.Fatalf("draw recorded a win line")
	}
}

func TestStepAfterGameOver(t *testing.T) {
	p1, p2 := humans([]int{0, 0, 0, 0, 5}, []int{1, 1, 1})
	g := NewGame(mustNewBoard(t, 6, 7), p1, p2)
	if _, err := g.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	before := g.Board.String()
	if _, err := g.Step(context.Background()); !errors.Is(err, ErrGameOver) {
		t.Fatalf("err = %v, want ErrGameOver", err)
	}
	if g.Board.String() != before {
		t.Fatalf("finished game changed the board")
	}
}

func TestApplyRejectsNonLandingCell(t *testing.T) {
	g := NewGame(mustNewBoard(t, 6, 7), nil, nil)
	_, err := g.Apply(g.Board.Cell(0, 0))
	if !IsInvariantViolation(err) {
		t.Fatalf("err = %v, want invariant violation", err)
	}
	if g.Remaining() != 42 || g.Moves(Side1) != 0 {
		t.Fatalf("rejected move was counted")
	}
}

func TestComputerVsComputerTerminates(t *testing.T) {
	sizes := []struct{ rows, columns int }{{4, 4}, {6, 7}, {10, 12}}
	for _, size := range sizes {
		for seed := int64(1); seed <= 5; seed++ {
			b := mustNewBoard(t, size.rows, size.columns)
			g := NewGame(b,
				NewComputerPlayer(seededStrategy(seed, DefaultRandomness)),
				NewComputerPlayer(seededStrategy(seed+100, DefaultRandomness)))
			r, err := g.Play(context.Background())
			if err != nil {
				t.Fatalf("%dx%d seed %d: %v", size.rows, size.columns, seed, err)
			}
			if !r.Status.Terminal() {
				t.Fatalf("game ended in status %s", r.Status)
			}
			if r.Player1Moves+r.Player2Moves != b.TotalCells()-g.Remaining() {
				t.Fatalf("moves %d+%d do not match remaining %d", r.Player1Moves, r.Player2Moves, g.Remaining())
			}
			if g.Remaining() != b.Remaining() {
				t.Fatalf("game remaining %d != board remaining %d", g.Remaining(), b.Remaining())
			}
			if r.Player1Moves-r.Player2Moves < 0 || r.Player1Moves-r.Player2Moves > 1 {
				t.Fatalf("turns did not alternate: %d/%d", r.Player1Moves, r.Player2Moves)
			}
			if r.Status == Won {
				line, ok := FindWin(b)
				if !ok || line.Winner != r.Winner {
					t.Fatalf("reported winner %s, board says %+v", r.Winner, line)
				}
			}
		}
	}
}

func TestResetClearsGame(t *testing.T) {
	p1, p2 := humans([]int{0, 0, 0, 0}, []int{1, 1, 1})
	g := NewGame(mustNewBoard(t, 6, 7), p1, p2)
	if _, err := g.Play(context.Background()); err != nil {
		t.Fatalf("Play: %v", err)
	}
	g.Reset()
	if g.Status() != InProgress || g.Turn() != Side1 || g.Winner() != Empty {
		t.Fatalf("reset left status %s turn %s winner %s", g.Status(), g.Turn(), g.Winner())
	}
	if g.Remaining() != 42 || g.Board.Remaining() != 42 || g.Moves(Side1) != 0 {
		t.Fatalf("reset left counters behind")
	}
	if _, _, ok := g.LastMove(); ok {
		t.Fatalf("reset kept the last move")
	}
}
