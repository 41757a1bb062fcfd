package terminal

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/edward-jazzhands/connect-four/internal/game"
	"github.com/edward-jazzhands/connect-four/internal/logging"
)

// Prompter reads line-oriented answers. Typing "debug" at any prompt flips
// the log level and asks again.
type Prompter struct {
	// DefaultRows and DefaultColumns are offered by ChooseSize.
	DefaultRows    int
	DefaultColumns int

	in    *bufio.Scanner
	out   io.Writer
	level *slog.LevelVar
	color bool
}

func NewPrompter(in io.Reader, out io.Writer, level *slog.LevelVar, color bool) *Prompter {
	return &Prompter{
		DefaultRows:    game.DefaultRows,
		DefaultColumns: game.DefaultColumns,
		in:             bufio.NewScanner(in),
		out:            out,
		level:          level,
		color:          color,
	}
}

func (p *Prompter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}

// readLine returns the next trimmed line, or io.EOF when input ends.
func (p *Prompter) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.printf("%s", prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", errors.Wrap(err, "read input")
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) ask(ctx context.Context, prompt string) (string, error) {
	for {
		line, err := p.readLine(ctx, prompt)
		if err != nil {
			return "", err
		}
		if strings.EqualFold(line, "debug") {
			p.ToggleDebug()
			continue
		}
		return line, nil
	}
}

func (p *Prompter) ToggleDebug() {
	if p.level == nil {
		return
	}
	state := "off"
	if logging.Toggle(p.level) == slog.LevelDebug {
		state = "on"
	}
	p.printf("%s\n", paint(p.color, green, "Debug mode turned "+state+"."))
}

// ReadColumn implements game.ColumnInput.
func (p *Prompter) ReadColumn(ctx context.Context, side game.TurnToken, b *game.Board) (int, error) {
	for {
		line, err := p.ask(ctx, fmt.Sprintf("Player %d, enter your move: ", side))
		if err != nil {
			return 0, err
		}
		col, err := game.ParseColumn(line, b.Columns())
		if err != nil {
			p.printf("Invalid move. Please enter a valid move.\n")
			continue
		}
		return col, nil
	}
}

func (p *Prompter) ColumnFull(int) {
	p.printf("That column is full. Try again.\n")
}

func (p *Prompter) ChoosePlayerTypes(ctx context.Context) (game.PlayerType, game.PlayerType, error) {
	for {
		p1, err := p.choosePlayerType(ctx, "First, set Player 1 to Human or Computer (H or C): ")
		if err != nil {
			return 0, 0, err
		}
		p2, err := p.choosePlayerType(ctx, "Now, set Player 2 to Human or Computer (H or C): ")
		if err != nil {
			return 0, 0, err
		}
		p.printf("Player 1 is %s and Player 2 is %s.\n", p1, p2)
		confirm, err := p.ask(ctx, "Is this correct? (N to cancel, anything else continues): ")
		if err != nil {
			return 0, 0, err
		}
		if !strings.EqualFold(confirm, "n") {
			return p1, p2, nil
		}
	}
}

func (p *Prompter) choosePlayerType(ctx context.Context, prompt string) (game.PlayerType, error) {
	for {
		line, err := p.ask(ctx, prompt)
		if err != nil {
			return 0, err
		}
		switch strings.ToUpper(line) {
		case "H":
			return game.Human, nil
		case "C":
			return game.Computer, nil
		}
		p.printf("Invalid input. Please enter H or C.\n")
	}
}

// ChooseSize returns the default size unless the user asks for a custom one.
func (p *Prompter) ChooseSize(ctx context.Context) (int, int, error) {
	p.printf("Type anything for default size (%dx%d). Type 'c' to set a custom grid size.\n", p.DefaultRows, p.DefaultColumns)
	p.printf("%s\n", paint(p.color, cyan, "Type 'debug' to toggle debug mode."))
	choice, err := p.ask(ctx, "Any key for default, 'c' for custom: ")
	if err != nil {
		return 0, 0, err
	}
	if !strings.EqualFold(choice, "c") {
		return p.DefaultRows, p.DefaultColumns, nil
	}
	rows, err := p.askBounded(ctx, "rows", game.MinRows, game.MaxRows)
	if err != nil {
		return 0, 0, err
	}
	columns, err := p.askBounded(ctx, "columns", game.MinColumns, game.MaxColumns)
	if err != nil {
		return 0, 0, err
	}
	return rows, columns, nil
}

func (p *Prompter) askBounded(ctx context.Context, what string, lo, hi int) (int, error) {
	for {
		line, err := p.ask(ctx, fmt.Sprintf("Enter the number of %s (MAX %d): ", what, hi))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		switch {
		case err != nil:
			p.printf("Please enter a number.\n")
		case n > hi:
			p.printf("The maximum number of %s is %d.\n", what, hi)
		case n < lo:
			p.printf("The minimum number of %s is %d.\n", what, lo)
		default:
			return n, nil
		}
	}
}

func (p *Prompter) PlayAgain(ctx context.Context) (bool, error) {
	for {
		line, err := p.ask(ctx, "Would you like to play again? (Y/N): ")
		if err != nil {
			return false, err
		}
		switch strings.ToUpper(line) {
		case "Y":
			return true, nil
		case "N":
			return false, nil
		}
		p.printf("Invalid input. Please enter Y or N.\n")
	}
}

// SimOptions controls a computer-versus-computer batch.
type SimOptions struct {
	Games     int
	HideBoard bool
	Ultrasim  bool
}

func (p *Prompter) SimulationOptions(ctx context.Context) (SimOptions, error) {
	p.printf("%s\n", paint(p.color, green, "Detected that both players are COMPUTER. Please enter the number of games to simulate."))
	var opts SimOptions
	for {
		line, err := p.ask(ctx, "Enter a number (or 'debug'): ")
		if err != nil {
			return opts, err
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 {
			p.printf("Please enter a number.\n")
			continue
		}
		opts.Games = n
		break
	}

	p.printf("Would you like to hide the board during the game? %s\n", paint(p.color, green, "Type 'Y/y' to hide the board."))
	p.printf("This is useful if you are running a large number of simulations.\n")
	p.printf("%s\n", paint(p.color, cyan, "Note that it will still show the final board at the end of each game."))
	p.printf("%s\n", paint(p.color, red, "Or if you want it to not show the board at ALL (for huge numbers of simulations), type 'ultrasim'."))
	line, err := p.ask(ctx, "'Y/y' to hide, 'ultrasim' hides all. Anything else shows board: ")
	if err != nil {
		return opts, err
	}
	switch strings.ToUpper(line) {
	case "Y":
		opts.HideBoard = true
	case "ULTRASIM":
		opts.HideBoard = true
		opts.Ultrasim = true
	}
	return opts, nil
}

// DebugPause holds a computer-versus-computer game between turns while debug
// logging is on. "heuristic" flips the score view on d.
func (p *Prompter) DebugPause(ctx context.Context, d *Display) error {
	line, err := p.readLine(ctx, "avail: 'debug', 'heuristic' | Anything else continues: ")
	if err != nil {
		return err
	}
	switch strings.ToLower(line) {
	case "debug":
		p.ToggleDebug()
	case "heuristic":
		d.ShowHeuristic = !d.ShowHeuristic
	}
	return nil
}
