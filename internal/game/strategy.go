package game

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/pkg/errors"
)

// DefaultRandomness is the chance of ignoring heuristic scores entirely when
// falling back to a neutral move.
const DefaultRandomness = 0.2

// OutcomeKind classifies a simulated placement in one column.
type OutcomeKind uint8

const (
	Neutral OutcomeKind = iota
	Winning
	Bad
	Full
)

func (k OutcomeKind) String() string {
	switch k {
	case Winning:
		return "winning"
	case Bad:
		return "bad"
	case Full:
		return "full"
	default:
		return "neutral"
	}
}

// Outcome is the result of testing one column. Winner is set only for
// Winning outcomes. Cell is the landing cell and is zero for Full.
type Outcome struct {
	Column int
	Kind   OutcomeKind
	Winner CellState
	Cell   Cell
}

// Reason records which stage of the strategy picked the move.
type Reason uint8

const (
	ReasonWin Reason = iota
	ReasonBlock
	ReasonHeuristic
)

func (r Reason) String() string {
	switch r {
	case ReasonWin:
		return "win"
	case ReasonBlock:
		return "block"
	default:
		return "heuristic"
	}
}

// Decision is the chosen cell plus the evidence behind it. Outcomes are the
// mover's own first-pass results, one per column.
type Decision struct {
	Cell     Cell
	Reason   Reason
	Outcomes []Outcome
}

// Strategy is the one-ply computer opponent: take a win, else block the
// opponent's win, else play the best-scoring cell that does not hand the
// opponent a win in the cell above it.
type Strategy struct {
	Randomness float64
	Logger     *slog.Logger
	rng        *rand.Rand
}

func NewStrategy(rng *rand.Rand) *Strategy {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Strategy{Randomness: DefaultRandomness, rng: rng}
}

// NewSeededStrategy uses a fixed seed, or the clock when seed is 0.
func NewSeededStrategy(seed int64) *Strategy {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return NewStrategy(rand.New(rand.NewSource(seed)))
}

func (s *Strategy) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *Strategy) ChooseMove(b *Board, side TurnToken) (Cell, error) {
	d, err := s.Decide(b, side)
	if err != nil {
		return Cell{}, err
	}
	return d.Cell, nil
}

// Decide never touches b; every simulated placement happens on a clone.
func (s *Strategy) Decide(b *Board, side TurnToken) (Decision, error) {
	moves := s.possibleMoves(b)
	if len(moves) == 0 {
		return Decision{}, errors.Wrapf(ErrNoCandidates, "%dx%d board", b.Rows(), b.Columns())
	}

	results, err := s.attemptPossibleMoves(b, moves, side, false, true)
	if err != nil {
		return Decision{}, err
	}
	if cell, ok := s.examine(results, side.State()); ok {
		s.logger().Debug("winning move", "side", side, "column", ColumnLabel(cell.Col))
		return Decision{Cell: cell, Reason: ReasonWin, Outcomes: results}, nil
	}

	oppResults, err := s.attemptPossibleMoves(b, moves, side, true, false)
	if err != nil {
		return Decision{}, err
	}
	if cell, ok := s.examine(oppResults, side.Opponent().State()); ok {
		s.logger().Debug("blocking move", "side", side, "column", ColumnLabel(cell.Col))
		return Decision{Cell: cell, Reason: ReasonBlock, Outcomes: results}, nil
	}

	cell, err := s.lastResort(results)
	if err != nil {
		return Decision{}, err
	}
	s.logger().Debug("heuristic move", "side", side, "column", ColumnLabel(cell.Col), "score", cell.Score)
	return Decision{Cell: cell, Reason: ReasonHeuristic, Outcomes: results}, nil
}

// possibleMoves lists the landing cell of every column, in column order.
// Full columns are marked with Kind Full.
func (s *Strategy) possibleMoves(b *Board) []Outcome {
	moves := make([]Outcome, 0, b.Columns())
	for col := 0; col < b.Columns(); col++ {
		cell, err := ResolveMove(b, col)
		if err != nil {
			moves = append(moves, Outcome{Column: col, Kind: Full})
			continue
		}
		moves = append(moves, Outcome{Column: col, Kind: Neutral, Cell: cell})
	}
	return moves
}

// attemptPossibleMoves places a piece in every candidate cell on a fresh clone
// and runs the win detector. With flip the opponent's piece is placed instead.
// With checkAbove a non-winning placement is followed by an opponent piece in
// the cell directly above; if that wins the column is Bad.
func (s *Strategy) attemptPossibleMoves(b *Board, moves []Outcome, side TurnToken, flip, checkAbove bool) ([]Outcome, error) {
	placer := side
	if flip {
		placer = side.Opponent()
	}
	results := make([]Outcome, len(moves))
	for i, move := range moves {
		results[i] = Outcome{Column: move.Column, Kind: move.Kind, Cell: move.Cell}
		if move.Kind == Full {
			continue
		}
		clone := b.Clone()
		cell := move.Cell
		if err := clone.Place(cell.Row, cell.Col, placer.State()); err != nil {
			return nil, err
		}
		if line, ok := FindWin(clone); ok {
			results[i].Kind = Winning
			results[i].Winner = line.Winner
		} else if checkAbove && cell.Row > 0 {
			if err := clone.Place(cell.Row-1, cell.Col, placer.Opponent().State()); err != nil {
				return nil, err
			}
			if _, ok := FindWin(clone); ok {
				results[i].Kind = Bad
			}
		}
		s.logger().Debug("attempted move",
			"placer", placer,
			"column", ColumnLabel(move.Column),
			"outcome", results[i].Kind)
	}
	return results, nil
}

// examine returns the leftmost column that wins for want.
func (s *Strategy) examine(results []Outcome, want CellState) (Cell, bool) {
	for _, r := range results {
		if r.Kind == Winning && r.Winner == want {
			return r.Cell, true
		}
	}
	return Cell{}, false
}

// lastResort prefers neutral cells and only plays a bad one when nothing
// else is left.
func (s *Strategy) lastResort(results []Outcome) (Cell, error) {
	var neutral, bad []Cell
	for _, r := range results {
		switch r.Kind {
		case Full:
		case Bad:
			bad = append(bad, r.Cell)
		default:
			neutral = append(neutral, r.Cell)
		}
	}
	avail := neutral
	if len(avail) == 0 {
		avail = bad
	}
	if len(avail) == 0 {
		return Cell{}, errors.Wrap(ErrNoCandidates, "every column is full")
	}
	return s.bestHeuristicWithRandom(avail), nil
}

// bestHeuristicWithRandom returns a uniformly random cell with probability
// Randomness; otherwise a random cell among those tied for the lowest score.
func (s *Strategy) bestHeuristicWithRandom(avail []Cell) Cell {
	if s.rng.Float64() < s.Randomness {
		s.logger().Debug("randomness triggered")
		return avail[s.rng.Intn(len(avail))]
	}
	minScore := avail[0].Score
	for _, cell := range avail[1:] {
		if cell.Score < minScore {
			minScore = cell.Score
		}
	}
	var best []Cell
	for _, cell := range avail {
		if cell.Score == minScore {
			best = append(best, cell)
		}
	}
	return best[s.rng.Intn(len(best))]
}
