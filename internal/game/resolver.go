package game

import (
	"context"

	"github.com/pkg/errors"
)

// ResolveMove returns the landing cell for a human-selected column. A full
// column comes back as ErrColumnFull, which is a normal negative result.
func ResolveMove(b *Board, col int) (Cell, error) {
	return b.LandingCell(col)
}

// Player produces the cell the active side wants to play.
type Player interface {
	Type() PlayerType
	NextMove(ctx context.Context, g *Game) (Cell, error)
}

// ColumnInput is the input collaborator for human moves. ReadColumn must
// only return columns that exist on the board.
type ColumnInput interface {
	ReadColumn(ctx context.Context, side TurnToken, b *Board) (int, error)
	ColumnFull(col int)
}

type HumanPlayer struct {
	Input ColumnInput
}

func NewHumanPlayer(input ColumnInput) *HumanPlayer {
	return &HumanPlayer{Input: input}
}

func (h *HumanPlayer) Type() PlayerType { return Human }

// NextMove re-prompts until the chosen column has room.
func (h *HumanPlayer) NextMove(ctx context.Context, g *Game) (Cell, error) {
	for {
		col, err := h.Input.ReadColumn(ctx, g.Turn(), g.Board)
		if err != nil {
			return Cell{}, err
		}
		cell, err := ResolveMove(g.Board, col)
		if errors.Is(err, ErrColumnFull) {
			h.Input.ColumnFull(col)
			continue
		}
		if err != nil {
			return Cell{}, err
		}
		return cell, nil
	}
}

type ComputerPlayer struct {
	Strategy *Strategy
}

func NewComputerPlayer(s *Strategy) *ComputerPlayer {
	return &ComputerPlayer{Strategy: s}
}

func (c *ComputerPlayer) Type() PlayerType { return Computer }

func (c *ComputerPlayer) NextMove(_ context.Context, g *Game) (Cell, error) {
	return c.Strategy.ChooseMove(g.Board, g.Turn())
}
