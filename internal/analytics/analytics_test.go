package analytics

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"

	"github.com/edward-jazzhands/connect-four/internal/game"
	"github.com/edward-jazzhands/connect-four/internal/storage"
)

type fakeWriter struct {
	mu   sync.Mutex
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func testProducer(w messageWriter) *Producer {
	return &Producer{writer: w, timeout: time.Second, logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// roundTrip decodes an event the way the consumer sees it.
func roundTrip(t *testing.T, msg kafka.Message) Event {
	t.Helper()
	var e Event
	if err := json.Unmarshal(msg.Value, &e); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return e
}

func TestNilProducerIsSafe(t *testing.T) {
	var p *Producer
	if err := p.Publish(context.Background(), EventGameFinished, nil); err != nil {
		t.Fatalf("nil publish: %v", err)
	}
	p.PublishAsync(EventGameFinished, nil)
	p.Close()
	if NewProducer(nil, "topic", nil) != nil {
		t.Fatalf("producer built without brokers")
	}
}

func TestPublishFailureIsReturned(t *testing.T) {
	p := testProducer(&fakeWriter{err: errors.New("broker down")})
	if err := p.Publish(context.Background(), EventGameFinished, map[string]any{}); err == nil {
		t.Fatalf("expected error")
	}
}

func TestMetricsFromPublishedEvents(t *testing.T) {
	w := &fakeWriter{}
	p := testProducer(w)
	ctx := context.Background()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	st := game.SessionState{
		ID:        "s1",
		Rows:      6,
		Columns:   7,
		Human:     game.Side1,
		Status:    game.Won,
		StartedAt: start,
		EndedAt:   start.Add(30 * time.Second),
		Result: game.Result{
			Status:    game.Won,
			Winner:    game.Player2,
			Direction: game.DownRight,
			WinColumn: 2,
		},
	}
	if err := p.Publish(ctx, EventGameFinished, GameFinishedPayload(st)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	rec := storage.SimulationRecord{ID: "sim", Games: 10, Player1Wins: 6, Player2Wins: 3, Draws: 1, Horizontal: 4, Vertical: 5}
	if err := p.Publish(ctx, EventSimulationFinished, SimulationFinishedPayload(rec)); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 2 || string(w.msgs[0].Key) != EventGameFinished {
		t.Fatalf("messages = %d", len(w.msgs))
	}

	m := NewMetrics()
	for _, msg := range w.msgs {
		m.Record(roundTrip(t, msg))
	}
	m.Record(Event{Event: "move_played"})

	s := m.Snapshot()
	if s.TotalGames != 1 || s.WinnerCounts["PLAYER2"] != 1 || s.AverageDuration != 30 {
		t.Fatalf("game tallies = %+v", s)
	}
	if s.Simulations != 1 || s.SimulatedGames != 10 || s.SimulatedWins["PLAYER1"] != 6 || s.SimulatedWins["DRAW"] != 1 {
		t.Fatalf("simulation tallies = %+v", s)
	}
	if s.DirectionWins["down-right"] != 1 || s.DirectionWins["horizontal"] != 4 || s.DirectionWins["vertical"] != 5 {
		t.Fatalf("direction tallies = %v", s.DirectionWins)
	}
}
