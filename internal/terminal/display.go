package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/edward-jazzhands/connect-four/internal/game"
)

const (
	red   = "\033[31m"
	green = "\033[32m"
	blue  = "\033[34m"
	cyan  = "\033[36m"
	reset = "\033[0m"
)

func paint(enabled bool, color, s string) string {
	if !enabled {
		return s
	}
	return color + s + reset
}

// ColorEnabled reports whether f is a terminal that should get ANSI colours.
// NO_COLOR turns them off regardless.
func ColorEnabled(f *os.File) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Display renders the board and reports game progress. It implements
// game.Observer and only ever reads the board.
type Display struct {
	ShowHeuristic bool
	// Hide skips the board during play; the final board is still shown.
	Hide bool
	// Quiet suppresses all output.
	Quiet bool
	// Pause, when set, runs at the start of every turn.
	Pause func()

	out   io.Writer
	color bool
}

func NewDisplay(out io.Writer, color bool) *Display {
	return &Display{out: out, color: color}
}

func (d *Display) Reset() {
	d.ShowHeuristic = false
	d.Hide = false
	d.Quiet = false
}

func (d *Display) printf(format string, args ...any) {
	fmt.Fprintf(d.out, format, args...)
}

func (d *Display) disc(state game.CellState) string {
	if !d.color {
		return string(state.Symbol())
	}
	switch state {
	case game.Player1:
		return paint(true, red, "⬤")
	case game.Player2:
		return paint(true, blue, "⬤")
	default:
		return "○"
	}
}

// Render draws the board in a box with the column letters underneath.
func (d *Display) Render(b *game.Board) string {
	var sb strings.Builder
	bar := strings.Repeat("━", b.Columns()*3+2)
	sb.WriteString("\n   ┏" + bar + "┓\n")
	for r := 0; r < b.Rows(); r++ {
		sb.WriteString("   ┃ ")
		for c := 0; c < b.Columns(); c++ {
			cell := b.Cell(r, c)
			if d.ShowHeuristic {
				fmt.Fprintf(&sb, "%3d", cell.Score)
			} else {
				sb.WriteString(" " + d.disc(cell.State) + " ")
			}
		}
		sb.WriteString(" ┃\n")
	}
	sb.WriteString("   ┗" + bar + "┛\n")
	sb.WriteString("    ")
	for c := 0; c < b.Columns(); c++ {
		sb.WriteString("  " + game.ColumnLabel(c))
	}
	sb.WriteString("\n\n")
	return sb.String()
}

func (d *Display) TurnStarted(g *game.Game) {
	if d.Pause != nil {
		d.Pause()
	}
	if d.Hide || d.Quiet {
		return
	}
	d.printf("%s", d.Render(g.Board))
	if side, cell, ok := g.LastMove(); ok {
		d.printf("Last move: Column %s by Player %d\n", game.ColumnLabel(cell.Col), side)
	}
}

func (d *Display) MovePlayed(*game.Game, game.TurnToken, game.Cell) {}

func (d *Display) GameOver(g *game.Game, r game.Result) {
	if d.Quiet {
		return
	}
	d.printf("%s", d.Render(g.Board))
	switch r.Status {
	case game.Won:
		d.printf("%s %s\n",
			paint(d.color, green, "Winner found in direction: "+r.Direction.String()+" -"),
			paint(d.color, cyan, "starting in column "+game.ColumnLabel(r.WinColumn)))
		moves, color := r.Player1Moves, red
		side := game.Side1
		if r.Winner == game.Player2 {
			moves, color, side = r.Player2Moves, blue, game.Side2
		}
		d.printf("\n%s They won in %d moves.\n\n", paint(d.color, color, side.String()+" ⬤ is the winner!"), moves)
		d.printf("The game took %s\n\n", FormatElapsed(r.Elapsed))
	case game.Draw:
		d.printf("It's a draw!\n")
	}
}

// FormatElapsed renders a duration as "M minutes and SS seconds.".
func FormatElapsed(d time.Duration) string {
	total := int(d / time.Second)
	return fmt.Sprintf("%d minutes and %02d seconds.", total/60, total%60)
}
