package game

import (
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

func seededStrategy(seed int64, randomness float64) *Strategy {
	s := NewStrategy(rand.New(rand.NewSource(seed)))
	s.Randomness = randomness
	return s
}

func TestDecideTakesWinningColumn(t *testing.T) {
	lines := []string{
		".......",
		".......",
		".......",
		"......O",
		"OOO...O",
		"XXX...O",
	}
	for seed := int64(1); seed <= 20; seed++ {
		b := mustBoard(t, lines...)
		d, err := seededStrategy(seed, 1).Decide(b, Side1)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if d.Reason != ReasonWin || d.Cell.Col != 3 || d.Cell.Row != 5 {
			t.Fatalf("seed %d: decision %s at (%d,%d), want win at (5,3)", seed, d.Reason, d.Cell.Row, d.Cell.Col)
		}
	}
}

func TestDecideBlocksOpponent(t *testing.T) {
	lines := []string{
		".......",
		".......",
		".......",
		"...O...",
		"...O...",
		"...O...",
	}
	for seed := int64(1); seed <= 20; seed++ {
		d, err := seededStrategy(seed, 1).Decide(mustBoard(t, lines...), Side1)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if d.Reason != ReasonBlock || d.Cell.Col != 3 || d.Cell.Row != 2 {
			t.Fatalf("seed %d: decision %s at (%d,%d), want block at (2,3)", seed, d.Reason, d.Cell.Row, d.Cell.Col)
		}
	}
}

func TestDecideLeftmostWinFirst(t *testing.T) {
	b := mustBoard(t,
		".......",
		".......",
		".......",
		"X.....X",
		"X.....X",
		"XO.OOOX",
	)
	d, err := seededStrategy(7, 0).Decide(b, Side1)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Reason != ReasonWin || d.Cell.Col != 0 {
		t.Fatalf("decision %s in column %d, want win in column 0", d.Reason, d.Cell.Col)
	}
}

func TestDecideAvoidsBadColumn(t *testing.T) {
	lines := []string{
		".......",
		".......",
		".......",
		".......",
		"OOO....",
		"XOX....",
	}
	d, err := seededStrategy(3, 0).Decide(mustBoard(t, lines...), Side1)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if d.Outcomes[3].Kind != Bad {
		t.Fatalf("column D outcome = %s, want bad", d.Outcomes[3].Kind)
	}
	for col, o := range d.Outcomes {
		if col != 3 && o.Kind != Neutral {
			t.Fatalf("column %s outcome = %s, want neutral", ColumnLabel(col), o.Kind)
		}
	}
	if d.Reason != ReasonHeuristic || d.Cell.Col != 4 {
		t.Fatalf("decision %s in column %d, want heuristic column 4", d.Reason, d.Cell.Col)
	}

	for seed := int64(1); seed <= 200; seed++ {
		cell, err := seededStrategy(seed, 1).ChooseMove(mustBoard(t, lines...), Side1)
		if err != nil {
			t.Fatalf("ChooseMove: %v", err)
		}
		if cell.Col == 3 {
			t.Fatalf("seed %d picked the bad column", seed)
		}
	}
}

func TestDecideEmptyBoardPrefersCentre(t *testing.T) {
	cases := []struct {
		rows, columns, col int
	}{
		{6, 7, 3},
		{4, 4, 2},
		{10, 12, 6},
	}
	for _, tc := range cases {
		for seed := int64(1); seed <= 10; seed++ {
			b := mustNewBoard(t, tc.rows, tc.columns)
			cell, err := seededStrategy(seed, 0).ChooseMove(b, Side1)
			if err != nil {
				t.Fatalf("ChooseMove: %v", err)
			}
			if cell.Row != tc.rows-1 || cell.Col != tc.col {
				t.Fatalf("%dx%d: chose (%d,%d), want (%d,%d)", tc.rows, tc.columns, cell.Row, cell.Col, tc.rows-1, tc.col)
			}
		}
	}
}

func TestDecideRandomnessExplores(t *testing.T) {
	seen := make(map[int]bool)
	for seed := int64(1); seed <= 200; seed++ {
		cell, err := seededStrategy(seed, 1).ChooseMove(mustNewBoard(t, 6, 7), Side1)
		if err != nil {
			t.Fatalf("ChooseMove: %v", err)
		}
		if cell.Row != 5 {
			t.Fatalf("chose row %d on an empty board", cell.Row)
		}
		seen[cell.Col] = true
	}
	if len(seen) < 2 {
		t.Fatalf("full randomness only ever chose %v", seen)
	}
}

func TestDecideDoesNotMutateBoard(t *testing.T) {
	b := mustBoard(t,
		".......",
		".......",
		".......",
		"...O...",
		"..XO...",
		".XXOX..",
	)
	before, remaining := b.String(), b.Remaining()
	if _, err := seededStrategy(1, DefaultRandomness).Decide(b, Side2); err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if b.String() != before || b.Remaining() != remaining {
		t.Fatalf("board changed:\n%s", b)
	}
}

func TestDecideSameSeedSameMoves(t *testing.T) {
	play := func(seed int64) []int {
		s := seededStrategy(seed, DefaultRandomness)
		b := mustNewBoard(t, 6, 7)
		side := Side1
		var cols []int
		for i := 0; i < 12; i++ {
			cell, err := s.ChooseMove(b, side)
			if err != nil {
				t.Fatalf("ChooseMove: %v", err)
			}
			if err := b.Place(cell.Row, cell.Col, side.State()); err != nil {
				t.Fatalf("Place: %v", err)
			}
			cols = append(cols, cell.Col)
			if _, won := FindWin(b); won {
				break
			}
			side = side.Opponent()
		}
		return cols
	}
	a, b := play(42), play(42)
	if len(a) != len(b) {
		t.Fatalf("move counts differ: %v vs %v", a, b)
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("move %d differs: %v vs %v", i, a, b)
		}
	}
}

func TestDecideFullBoard(t *testing.T) {
	b := mustBoard(t,
		"XOXO",
		"XOXO",
		"OXOX",
		"OXOX",
	)
	if _, err := seededStrategy(1, 0).Decide(b, Side1); !errors.Is(err, ErrNoCandidates) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
}

func TestLastResortFallsBackToBad(t *testing.T) {
	s := seededStrategy(1, 0)
	b := mustNewBoard(t, 6, 7)
	bad := b.Cell(5, 1)
	cell, err := s.lastResort([]Outcome{
		{Column: 0, Kind: Full},
		{Column: 1, Kind: Bad, Cell: bad},
		{Column: 2, Kind: Full},
	})
	if err != nil {
		t.Fatalf("lastResort: %v", err)
	}
	if cell != bad {
		t.Fatalf("cell = %+v, want %+v", cell, bad)
	}

	_, err = s.lastResort([]Outcome{{Column: 0, Kind: Full}})
	if !errors.Is(err, ErrNoCandidates) || !IsInvariantViolation(err) {
		t.Fatalf("err = %v, want ErrNoCandidates", err)
	}
}

func TestBestHeuristicBreaksTiesRandomly(t *testing.T) {
	avail := []Cell{
		{Row: 5, Col: 0, Score: 2},
		{Row: 5, Col: 1, Score: 1},
		{Row: 5, Col: 2, Score: 1},
		{Row: 5, Col: 3, Score: 3},
	}
	seen := make(map[int]bool)
	for seed := int64(1); seed <= 100; seed++ {
		cell := seededStrategy(seed, 0).bestHeuristicWithRandom(avail)
		if cell.Score != 1 {
			t.Fatalf("seed %d picked score %d", seed, cell.Score)
		}
		seen[cell.Col] = true
	}
	if !seen[1] || !seen[2] {
		t.Fatalf("tie never broken both ways: %v", seen)
	}
}
