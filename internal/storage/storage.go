package storage

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/edward-jazzhands/connect-four/internal/game"
)

// SimulationRecord is the persisted tally of one simulation batch. Per-game
// history is never stored.
type SimulationRecord struct {
	ID          string    `json:"id"`
	Rows        int       `json:"rows"`
	Columns     int       `json:"columns"`
	Games       int       `json:"games"`
	Player1Wins int       `json:"player1Wins"`
	Player2Wins int       `json:"player2Wins"`
	Draws       int       `json:"draws"`
	Horizontal  int       `json:"horizontal"`
	Vertical    int       `json:"vertical"`
	DownRight   int       `json:"downRight"`
	DownLeft    int       `json:"downLeft"`
	StartedAt   time.Time `json:"startedAt"`
	ElapsedMS   int64     `json:"elapsedMs"`
}

func NewRecord(sum game.Summary) SimulationRecord {
	return SimulationRecord{
		ID:          uuid.NewString(),
		Rows:        sum.Rows,
		Columns:     sum.Columns,
		Games:       sum.Games,
		Player1Wins: sum.Player1Wins,
		Player2Wins: sum.Player2Wins,
		Draws:       sum.Draws,
		Horizontal:  sum.DirectionWins[game.Horizontal],
		Vertical:    sum.DirectionWins[game.Vertical],
		DownRight:   sum.DirectionWins[game.DownRight],
		DownLeft:    sum.DirectionWins[game.DownLeft],
		StartedAt:   sum.StartedAt.UTC(),
		ElapsedMS:   sum.Elapsed.Milliseconds(),
	}
}

type Store interface {
	SaveSimulation(ctx context.Context, rec SimulationRecord) error
	ListSimulations(ctx context.Context, limit int) ([]SimulationRecord, error)
}

// PostgresStore keeps simulation records in Postgres. A pgx.Conn is not safe
// for concurrent use, so every query holds mu.
type PostgresStore struct {
	mu   sync.Mutex
	conn *pgx.Conn
}

func NewPostgresStore(ctx context.Context, url string) (*PostgresStore, error) {
	conn, err := pgx.Connect(ctx, url)
	if err != nil {
		return nil, errors.Wrap(err, "connect postgres")
	}
	return &PostgresStore{conn: conn}, nil
}

func (p *PostgresStore) Close(ctx context.Context) {
	if p.conn != nil {
		_ = p.conn.Close(ctx)
	}
}

func (p *PostgresStore) EnsureTables(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.conn.Exec(ctx, `
CREATE TABLE IF NOT EXISTS simulations (
	id TEXT PRIMARY KEY,
	board_rows INT NOT NULL,
	board_columns INT NOT NULL,
	games INT NOT NULL,
	player1_wins INT NOT NULL,
	player2_wins INT NOT NULL,
	draws INT NOT NULL,
	horizontal INT NOT NULL,
	vertical INT NOT NULL,
	down_right INT NOT NULL,
	down_left INT NOT NULL,
	started_at TIMESTAMPTZ NOT NULL,
	elapsed_ms BIGINT NOT NULL
);
`)
	return errors.Wrap(err, "ensure simulations table")
}

func (p *PostgresStore) SaveSimulation(ctx context.Context, rec SimulationRecord) error {
	if p == nil || p.conn == nil {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	_, err := p.conn.Exec(ctx, `INSERT INTO simulations
(id, board_rows, board_columns, games, player1_wins, player2_wins, draws, horizontal, vertical, down_right, down_left, started_at, elapsed_ms)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13) ON CONFLICT (id) DO NOTHING`,
		rec.ID, rec.Rows, rec.Columns, rec.Games, rec.Player1Wins, rec.Player2Wins, rec.Draws,
		rec.Horizontal, rec.Vertical, rec.DownRight, rec.DownLeft, rec.StartedAt, rec.ElapsedMS)
	return errors.Wrapf(err, "save simulation %s", rec.ID)
}

func (p *PostgresStore) ListSimulations(ctx context.Context, limit int) ([]SimulationRecord, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	rows, err := p.conn.Query(ctx, `
SELECT id, board_rows, board_columns, games, player1_wins, player2_wins, draws,
       horizontal, vertical, down_right, down_left, started_at, elapsed_ms
FROM simulations
ORDER BY started_at DESC
LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "list simulations")
	}
	defer rows.Close()
	var res []SimulationRecord
	for rows.Next() {
		var r SimulationRecord
		if err := rows.Scan(&r.ID, &r.Rows, &r.Columns, &r.Games, &r.Player1Wins, &r.Player2Wins, &r.Draws,
			&r.Horizontal, &r.Vertical, &r.DownRight, &r.DownLeft, &r.StartedAt, &r.ElapsedMS); err != nil {
			return nil, errors.Wrap(err, "scan simulation")
		}
		res = append(res, r)
	}
	return res, rows.Err()
}

// MemoryStore is the fallback used when no database is configured.
type MemoryStore struct {
	mu      sync.Mutex
	records []SimulationRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) SaveSimulation(_ context.Context, rec SimulationRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.records {
		if r.ID == rec.ID {
			return nil
		}
	}
	m.records = append(m.records, rec)
	return nil
}

// ListSimulations returns the newest records first.
func (m *MemoryStore) ListSimulations(_ context.Context, limit int) ([]SimulationRecord, error) {
	m.mu.Lock()
	out := make([]SimulationRecord, len(m.records))
	copy(out, m.records)
	m.mu.Unlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartedAt.After(out[j].StartedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
