package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/edward-jazzhands/connect-four/internal/game"
	"github.com/edward-jazzhands/connect-four/internal/storage"
)

const (
	EventGameFinished       = "game_finished"
	EventSimulationFinished = "simulation_finished"
)

// Event is the envelope written to the topic.
type Event struct {
	Event     string         `json:"event"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes events to Kafka. A nil Producer drops everything, so
// callers never need to check whether analytics is configured.
type Producer struct {
	writer  messageWriter
	timeout time.Duration
	logger  *slog.Logger
}

func NewProducer(brokers []string, topic string, logger *slog.Logger) *Producer {
	if len(brokers) == 0 || topic == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: writer, timeout: 5 * time.Second, logger: logger}
}

func (p *Producer) Publish(ctx context.Context, event string, payload map[string]any) error {
	if p == nil || p.writer == nil {
		return nil
	}
	data, err := json.Marshal(Event{Event: event, Payload: payload, Timestamp: time.Now().UTC()})
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, kafka.Message{Key: []byte(event), Value: data}); err != nil {
		p.logger.Warn("kafka publish failed", "event", event, "err", err)
		return err
	}
	return nil
}

// PublishAsync publishes on its own goroutine. Failures are only logged.
func (p *Producer) PublishAsync(event string, payload map[string]any) {
	if p == nil || p.writer == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
		defer cancel()
		_ = p.Publish(ctx, event, payload)
	}()
}

func (p *Producer) Close() {
	if p == nil || p.writer == nil {
		return
	}
	_ = p.writer.Close()
}

func GameFinishedPayload(st game.SessionState) map[string]any {
	payload := map[string]any{
		"sessionId":    st.ID,
		"rows":         st.Rows,
		"columns":      st.Columns,
		"status":       st.Status.String(),
		"winner":       st.Result.Winner.String(),
		"human":        st.Human.String(),
		"player1Moves": st.Result.Player1Moves,
		"player2Moves": st.Result.Player2Moves,
		"duration":     st.EndedAt.Sub(st.StartedAt).Seconds(),
	}
	if st.Status == game.Won {
		payload["direction"] = st.Result.Direction.String()
		payload["winColumn"] = game.ColumnLabel(st.Result.WinColumn)
	}
	return payload
}

func SimulationFinishedPayload(rec storage.SimulationRecord) map[string]any {
	return map[string]any{
		"simulationId": rec.ID,
		"rows":         rec.Rows,
		"columns":      rec.Columns,
		"games":        rec.Games,
		"player1Wins":  rec.Player1Wins,
		"player2Wins":  rec.Player2Wins,
		"draws":        rec.Draws,
		"directions": map[string]int{
			game.Horizontal.String(): rec.Horizontal,
			game.Vertical.String():   rec.Vertical,
			game.DownRight.String():  rec.DownRight,
			game.DownLeft.String():   rec.DownLeft,
		},
		"elapsedMs": rec.ElapsedMS,
	}
}
