package game

import (
	"context"
	"time"
)

// Summary tallies a batch of simulated games.
type Summary struct {
	Rows          int
	Columns       int
	Games         int
	Player1Wins   int
	Player2Wins   int
	Draws         int
	DirectionWins map[Direction]int
	StartedAt     time.Time
	Elapsed       time.Duration
}

func NewSummary(rows, columns int) Summary {
	return Summary{
		Rows:          rows,
		Columns:       columns,
		DirectionWins: make(map[Direction]int, len(directions)),
		StartedAt:     time.Now(),
	}
}

func (s *Summary) Record(r Result) {
	s.Games++
	switch r.Winner {
	case Player1:
		s.Player1Wins++
	case Player2:
		s.Player2Wins++
	default:
		s.Draws++
		return
	}
	s.DirectionWins[r.Direction]++
}

// Simulator plays full games back to back on the calling goroutine.
type Simulator struct {
	Game   *Game
	OnGame func(i int, r Result)
}

func NewSimulator(g *Game) *Simulator {
	return &Simulator{Game: g}
}

// Run plays n games, resetting the board and game state before each one.
// The last game's board is left in place for display.
func (s *Simulator) Run(ctx context.Context, n int) (Summary, error) {
	sum := NewSummary(s.Game.Board.Rows(), s.Game.Board.Columns())
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			sum.Elapsed = time.Since(sum.StartedAt)
			return sum, err
		}
		s.Game.Reset()
		r, err := s.Game.Play(ctx)
		if err != nil {
			sum.Elapsed = time.Since(sum.StartedAt)
			return sum, err
		}
		sum.Record(r)
		if s.OnGame != nil {
			s.OnGame(i, r)
		}
	}
	sum.Elapsed = time.Since(sum.StartedAt)
	return sum, nil
}
