package analytics

import (
	"log/slog"
	"sync"
	"time"
)

// Metrics accumulates the events read by the analytics consumer.
type Metrics struct {
	mu sync.Mutex

	totalGames     int
	winnerCounts   map[string]int
	directionWins  map[string]int
	gameDurations  []float64
	gamesPerDay    map[string]int
	simulations    int
	simulatedGames int
	simulatedWins  map[string]int
}

func NewMetrics() *Metrics {
	return &Metrics{
		winnerCounts:  make(map[string]int),
		directionWins: make(map[string]int),
		gamesPerDay:   make(map[string]int),
		simulatedWins: make(map[string]int),
	}
}

// Record folds one event into the tallies. Unknown events are ignored.
func (m *Metrics) Record(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch e.Event {
	case EventGameFinished:
		m.recordGame(e.Payload, e.Timestamp)
	case EventSimulationFinished:
		m.recordSimulation(e.Payload)
	}
}

func (m *Metrics) recordGame(payload map[string]any, ts time.Time) {
	m.totalGames++
	if winner, ok := payload["winner"].(string); ok && winner != "" && winner != "EMPTY" {
		m.winnerCounts[winner]++
	}
	if dir, ok := payload["direction"].(string); ok && dir != "" {
		m.directionWins[dir]++
	}
	if d, ok := payload["duration"].(float64); ok {
		m.gameDurations = append(m.gameDurations, d)
	}
	m.gamesPerDay[ts.UTC().Format("2006-01-02")]++
}

func (m *Metrics) recordSimulation(payload map[string]any) {
	m.simulations++
	m.simulatedGames += intField(payload, "games")
	m.simulatedWins["PLAYER1"] += intField(payload, "player1Wins")
	m.simulatedWins["PLAYER2"] += intField(payload, "player2Wins")
	m.simulatedWins["DRAW"] += intField(payload, "draws")
	if dirs, ok := payload["directions"].(map[string]any); ok {
		for dir, v := range dirs {
			if n, ok := v.(float64); ok {
				m.directionWins[dir] += int(n)
			}
		}
	}
}

// intField reads a JSON number, which decodes as float64.
func intField(payload map[string]any, key string) int {
	switch v := payload[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return 0
}

// Snapshot is a copy of the tallies for printing.
type Snapshot struct {
	TotalGames      int
	AverageDuration float64
	WinnerCounts    map[string]int
	DirectionWins   map[string]int
	GamesPerDay     map[string]int
	Simulations     int
	SimulatedGames  int
	SimulatedWins   map[string]int
}

func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Snapshot{
		TotalGames:     m.totalGames,
		WinnerCounts:   copyCounts(m.winnerCounts),
		DirectionWins:  copyCounts(m.directionWins),
		GamesPerDay:    copyCounts(m.gamesPerDay),
		Simulations:    m.simulations,
		SimulatedGames: m.simulatedGames,
		SimulatedWins:  copyCounts(m.simulatedWins),
	}
	if len(m.gameDurations) > 0 {
		sum := 0.0
		for _, d := range m.gameDurations {
			sum += d
		}
		s.AverageDuration = sum / float64(len(m.gameDurations))
	}
	return s
}

func (m *Metrics) Log(logger *slog.Logger) {
	s := m.Snapshot()
	logger.Info("analytics summary",
		"games", s.TotalGames,
		"avg_duration_s", s.AverageDuration,
		"winners", s.WinnerCounts,
		"directions", s.DirectionWins,
		"per_day", s.GamesPerDay,
		"simulations", s.Simulations,
		"simulated_games", s.SimulatedGames,
		"simulated_results", s.SimulatedWins)
}

func copyCounts(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
