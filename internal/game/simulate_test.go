package game

import (
	"context"
	"testing"

	"github.com/pkg/errors"
)

func computerGame(t *testing.T, rows, columns int, seed int64) *Game {
	t.Helper()
	return NewGame(mustNewBoard(t, rows, columns),
		NewComputerPlayer(seededStrategy(seed, DefaultRandomness)),
		NewComputerPlayer(seededStrategy(seed+1, DefaultRandomness)))
}

func TestSimulatorTallies(t *testing.T) {
	sim := NewSimulator(computerGame(t, 6, 7, 11))
	calls := 0
	sim.OnGame = func(i int, r Result) {
		if i != calls {
			t.Fatalf("OnGame index %d, want %d", i, calls)
		}
		calls++
	}
	sum, err := sim.Run(context.Background(), 25)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if sum.Games != 25 || calls != 25 {
		t.Fatalf("games %d calls %d, want 25", sum.Games, calls)
	}
	wins := sum.Player1Wins + sum.Player2Wins
	if wins+sum.Draws != sum.Games {
		t.Fatalf("wins %d + draws %d != games %d", wins, sum.Draws, sum.Games)
	}
	byDirection := 0
	for _, n := range sum.DirectionWins {
		byDirection += n
	}
	if byDirection != wins {
		t.Fatalf("direction tally %d != wins %d", byDirection, wins)
	}
	if sum.Rows != 6 || sum.Columns != 7 {
		t.Fatalf("summary size %dx%d", sum.Rows, sum.Columns)
	}
}

func TestSimulatorStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := NewSimulator(computerGame(t, 4, 4, 1)).Run(ctx, 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if sum.Games != 0 {
		t.Fatalf("played %d games after cancel", sum.Games)
	}
}

func TestSummaryRecordDraw(t *testing.T) {
	sum := NewSummary(6, 7)
	sum.Record(Result{Status: Draw, Winner: Empty})
	sum.Record(Result{Status: Won, Winner: Player2, Direction: DownLeft})
	if sum.Draws != 1 || sum.Player2Wins != 1 || sum.Games != 2 {
		t.Fatalf("summary = %+v", sum)
	}
	if len(sum.DirectionWins) != 1 || sum.DirectionWins[DownLeft] != 1 {
		t.Fatalf("direction wins = %v", sum.DirectionWins)
	}
}
