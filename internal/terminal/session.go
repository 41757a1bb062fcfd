package terminal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/edward-jazzhands/connect-four/internal/game"
)

const timeFormat = "15:04:05"

// Session is the outer program loop: choose players and size, play one game
// or a simulation batch, then offer to go again.
type Session struct {
	Prompter   *Prompter
	Display    *Display
	Logger     *slog.Logger
	Level      *slog.LevelVar
	Out        io.Writer
	Color      bool
	Randomness float64
	Seed       int64
	// Rows and Columns skip the size prompt when both are set.
	Rows    int
	Columns int
}

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.Out, format, args...)
}

// Run loops until the user declines another game or input ends.
func (s *Session) Run(ctx context.Context) error {
	if s.Logger == nil {
		s.Logger = slog.Default()
	}
	s.printf("Connect Four game starting. %s Type 'debug' at any point to toggle DEBUG on or off.\n", paint(s.Color, green, "HINT:"))
	for round := 0; ; round++ {
		if err := s.playRound(ctx, round); err != nil {
			return err
		}
		again, err := s.Prompter.PlayAgain(ctx)
		if err != nil {
			return err
		}
		if !again {
			s.printf("Goodbye!\n")
			return nil
		}
	}
}

func (s *Session) playRound(ctx context.Context, round int) error {
	t1, t2, err := s.Prompter.ChoosePlayerTypes(ctx)
	if err != nil {
		return err
	}
	rows, columns := s.Rows, s.Columns
	if rows == 0 || columns == 0 {
		if rows, columns, err = s.Prompter.ChooseSize(ctx); err != nil {
			return err
		}
	}
	board, err := game.NewBoard(rows, columns)
	if err != nil {
		return err
	}
	s.Logger.Debug("board initialised", "rows", rows, "columns", columns)

	g := game.NewGame(board, s.player(t1, round, 0), s.player(t2, round, 1))
	g.Logger = s.Logger
	s.Display.Reset()
	g.Observer = s.Display

	if t1 == game.Computer && t2 == game.Computer {
		return s.simulate(ctx, g)
	}
	s.Display.Pause = nil
	s.printf("%s\n", paint(s.Color, green, "\nGame starting at "+time.Now().Format(timeFormat)))
	_, err = g.Play(ctx)
	return err
}

// player builds one side. Computer seeds are derived from the base seed so a
// fixed seed replays the same session.
func (s *Session) player(t game.PlayerType, round, side int) game.Player {
	if t == game.Human {
		return game.NewHumanPlayer(s.Prompter)
	}
	seed := s.Seed
	if seed != 0 {
		seed += int64(round*2 + side)
	}
	strategy := game.NewSeededStrategy(seed)
	strategy.Randomness = s.Randomness
	strategy.Logger = s.Logger
	return game.NewComputerPlayer(strategy)
}

func (s *Session) simulate(ctx context.Context, g *game.Game) error {
	opts, err := s.Prompter.SimulationOptions(ctx)
	if err != nil {
		return err
	}
	s.Display.Hide = opts.HideBoard
	s.Display.Quiet = opts.Ultrasim
	s.Display.Pause = func() {
		if s.Level != nil && s.Level.Level() <= slog.LevelDebug {
			_ = s.Prompter.DebugPause(ctx, s.Display)
		}
	}
	defer func() { s.Display.Pause = nil }()

	sim := game.NewSimulator(g)
	sim.OnGame = func(i int, r game.Result) {
		s.printf("Game %d completed. Game result: %s\n", i+1, r.Winner)
	}
	sum, err := sim.Run(ctx, opts.Games)
	if err != nil {
		return err
	}
	s.printSummary(sum)
	return nil
}

func (s *Session) printSummary(sum game.Summary) {
	s.printf("%s\n", paint(s.Color, green, fmt.Sprintf("\nSimulation of %d games completed.", sum.Games)))
	s.printf("%s %s Draws: %d\n",
		paint(s.Color, red, fmt.Sprintf("Player 1 wins: %d,", sum.Player1Wins)),
		paint(s.Color, blue, fmt.Sprintf("Player 2 wins: %d,", sum.Player2Wins)),
		sum.Draws)
	for _, dir := range game.Directions() {
		s.printf("%s wins: %d | ", dir, sum.DirectionWins[dir])
	}
	s.printf("\nStart time: %s, End time: %s\n",
		sum.StartedAt.Format(timeFormat), sum.StartedAt.Add(sum.Elapsed).Format(timeFormat))
	s.printf("Simulations took %s\n", FormatElapsed(sum.Elapsed))
}
