package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/edward-jazzhands/connect-four/internal/game"
)

const maxWatchDelay = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type watchMessage struct {
	Type         string   `json:"type"`
	Side         int      `json:"side,omitempty"`
	Row          int      `json:"row"`
	Column       string   `json:"column,omitempty"`
	Board        []string `json:"board,omitempty"`
	Status       string   `json:"status,omitempty"`
	Winner       string   `json:"winner,omitempty"`
	Direction    string   `json:"direction,omitempty"`
	WinColumn    string   `json:"winColumn,omitempty"`
	Player1Moves int      `json:"player1Moves,omitempty"`
	Player2Moves int      `json:"player2Moves,omitempty"`
}

// wsObserver streams game progress to one websocket. The handler goroutine
// owns both the game and the connection writes.
type wsObserver struct {
	conn *websocket.Conn
	err  error
}

func (o *wsObserver) send(msg watchMessage) {
	if o.err != nil {
		return
	}
	o.err = o.conn.WriteJSON(msg)
}

func (o *wsObserver) TurnStarted(*game.Game) {}

func (o *wsObserver) MovePlayed(g *game.Game, side game.TurnToken, cell game.Cell) {
	o.send(watchMessage{
		Type:   "move",
		Side:   int(side),
		Row:    cell.Row,
		Column: game.ColumnLabel(cell.Col),
		Board:  g.Board.Lines(),
	})
}

func (o *wsObserver) GameOver(g *game.Game, r game.Result) {
	msg := watchMessage{
		Type:         "game_over",
		Status:       r.Status.String(),
		Winner:       r.Winner.String(),
		Player1Moves: r.Player1Moves,
		Player2Moves: r.Player2Moves,
		Board:        g.Board.Lines(),
	}
	if r.Status == game.Won {
		msg.Direction = r.Direction.String()
		msg.WinColumn = game.ColumnLabel(r.WinColumn)
	}
	o.send(msg)
}

// handleWatch plays a computer-versus-computer game and streams each move.
func (s *Server) handleWatch(c *gin.Context) {
	rows := queryInt(c, "rows", s.rows)
	columns := queryInt(c, "columns", s.columns)
	delay := time.Duration(queryInt(c, "delay_ms", 500)) * time.Millisecond
	if delay < 0 {
		delay = 0
	} else if delay > maxWatchDelay {
		delay = maxWatchDelay
	}
	seed := int64(queryInt(c, "seed", int(s.seed)))

	b, err := game.NewBoard(rows, columns)
	if err != nil {
		s.fail(c, err)
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	// Reading is only used to notice the client going away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	g := s.computerGame(b, seed)
	obs := &wsObserver{conn: conn}
	g.Observer = obs
	obs.send(watchMessage{Type: "start", Board: b.Lines(), Status: g.Status().String()})

	for !g.Status().Terminal() && obs.err == nil {
		if delay > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(delay):
			}
		} else if ctx.Err() != nil {
			return
		}
		if _, err := g.Step(ctx); err != nil {
			s.logger.Error("watch game failed", "err", err)
			return
		}
	}
	if obs.err != nil {
		s.logger.Debug("watch client gone", "err", obs.err)
		return
	}
	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game over"))
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
