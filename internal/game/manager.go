package game

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Session is one hosted human-versus-computer game.
type Session struct {
	ID         string
	Game       *Game
	Human      TurnToken
	StartedAt  time.Time
	EndedAt    time.Time
	LastMoveAt time.Time
}

// SessionState is a read-only copy of a session taken under the manager lock.
type SessionState struct {
	ID        string
	Rows      int
	Columns   int
	Board     []string
	Human     TurnToken
	Turn      TurnToken
	Status    Status
	Result    Result
	LastSide  TurnToken
	LastMove  *Cell
	StartedAt time.Time
	EndedAt   time.Time
}

type SessionConfig struct {
	Rows    int
	Columns int
	Human   TurnToken
	Seed    int64
}

// remoteHuman marks the human side of a hosted session. Its moves arrive
// through Manager.HandleMove, never through Game.Step.
type remoteHuman struct{}

func (remoteHuman) Type() PlayerType { return Human }

func (remoteHuman) NextMove(context.Context, *Game) (Cell, error) {
	return Cell{}, errors.Wrap(ErrNotYourTurn, "waiting for the human move")
}

// Manager owns every hosted session. All game mutation happens under mu, so
// each session still advances one turn at a time.
type Manager struct {
	mu         sync.RWMutex
	sessions   map[string]*Session
	idleAfter  time.Duration
	randomness float64
	onFinish   func(SessionState)
	logger     *slog.Logger
}

func NewManager(idleAfter time.Duration, randomness float64, logger *slog.Logger, onFinish func(SessionState)) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		sessions:   make(map[string]*Session),
		idleAfter:  idleAfter,
		randomness: randomness,
		onFinish:   onFinish,
		logger:     logger,
	}
}

// Start creates a session. When the computer holds Side1 it plays its first
// move before Start returns.
func (m *Manager) Start(ctx context.Context, cfg SessionConfig) (SessionState, error) {
	if cfg.Rows == 0 && cfg.Columns == 0 {
		cfg.Rows, cfg.Columns = DefaultRows, DefaultColumns
	}
	if cfg.Human == 0 {
		cfg.Human = Side1
	}
	if !cfg.Human.Valid() {
		return SessionState{}, errors.Errorf("invalid human side %d", cfg.Human)
	}
	board, err := NewBoard(cfg.Rows, cfg.Columns)
	if err != nil {
		return SessionState{}, err
	}
	strategy := NewSeededStrategy(cfg.Seed)
	strategy.Randomness = m.randomness
	strategy.Logger = m.logger

	var p1, p2 Player = remoteHuman{}, NewComputerPlayer(strategy)
	if cfg.Human == Side2 {
		p1, p2 = p2, p1
	}
	g := NewGame(board, p1, p2)
	g.Logger = m.logger

	now := time.Now()
	s := &Session{
		ID:         uuid.NewString(),
		Game:       g,
		Human:      cfg.Human,
		StartedAt:  now,
		LastMoveAt: now,
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if g.Turn() != s.Human {
		if _, err := g.Step(ctx); err != nil {
			return SessionState{}, err
		}
	}
	m.sessions[s.ID] = s
	m.logger.Info("session started", "id", s.ID, "rows", cfg.Rows, "columns", cfg.Columns, "human", s.Human)
	return s.state(), nil
}

// HandleMove plays the human's column and, if the game is still running,
// the computer's reply.
func (m *Manager) HandleMove(ctx context.Context, id string, col int) (SessionState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return SessionState{}, errors.Wrapf(ErrGameNotFound, "session %s", id)
	}
	g := s.Game
	if g.Status().Terminal() {
		return s.state(), ErrGameOver
	}
	if g.Turn() != s.Human {
		return s.state(), ErrNotYourTurn
	}
	cell, err := ResolveMove(g.Board, col)
	if err != nil {
		return s.state(), err
	}
	if _, err := g.Apply(cell); err != nil {
		return s.state(), err
	}
	s.LastMoveAt = time.Now()
	if !g.Status().Terminal() {
		if _, err := g.Step(ctx); err != nil {
			// The human half of the turn is already on the board, so the
			// session cannot continue from here.
			s.EndedAt = time.Now()
			st := s.state()
			delete(m.sessions, id)
			m.logger.Error("computer reply failed, session aborted", "id", id, "err", err)
			return st, errors.Wrapf(err, "session %s aborted", id)
		}
		s.LastMoveAt = time.Now()
	}
	if g.Status().Terminal() {
		s.EndedAt = s.LastMoveAt
		if m.onFinish != nil {
			go m.onFinish(s.state())
		}
	}
	return s.state(), nil
}

func (m *Manager) Get(id string) (SessionState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return SessionState{}, false
	}
	return s.state(), true
}

func (m *Manager) Abandon(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// SweepIdle drops sessions with no move inside the idle window and returns
// how many were removed.
func (m *Manager) SweepIdle() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	removed := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastMoveAt) > m.idleAfter {
			delete(m.sessions, id)
			removed++
			m.logger.Info("session expired", "id", id, "status", s.Game.Status())
		}
	}
	return removed
}

func (s *Session) state() SessionState {
	g := s.Game
	st := SessionState{
		ID:        s.ID,
		Rows:      g.Board.Rows(),
		Columns:   g.Board.Columns(),
		Board:     g.Board.Lines(),
		Human:     s.Human,
		Turn:      g.Turn(),
		Status:    g.Status(),
		Result:    g.Result(),
		StartedAt: s.StartedAt,
		EndedAt:   s.EndedAt,
	}
	if side, cell, ok := g.LastMove(); ok {
		st.LastSide = side
		st.LastMove = &cell
	}
	return st
}
