package server

import "github.com/edward-jazzhands/connect-four/internal/game"

type moveDTO struct {
	Side   int    `json:"side"`
	Row    int    `json:"row"`
	Column string `json:"column"`
}

type stateDTO struct {
	ID           string   `json:"id"`
	Rows         int      `json:"rows"`
	Columns      int      `json:"columns"`
	Board        []string `json:"board"`
	Human        int      `json:"human"`
	Turn         int      `json:"turn"`
	Status       string   `json:"status"`
	Winner       string   `json:"winner"`
	Direction    string   `json:"direction,omitempty"`
	WinColumn    string   `json:"winColumn,omitempty"`
	Player1Moves int      `json:"player1Moves"`
	Player2Moves int      `json:"player2Moves"`
	LastMove     *moveDTO `json:"lastMove,omitempty"`
}

func newStateDTO(st game.SessionState) stateDTO {
	out := stateDTO{
		ID:           st.ID,
		Rows:         st.Rows,
		Columns:      st.Columns,
		Board:        st.Board,
		Human:        int(st.Human),
		Turn:         int(st.Turn),
		Status:       st.Status.String(),
		Winner:       st.Result.Winner.String(),
		Player1Moves: st.Result.Player1Moves,
		Player2Moves: st.Result.Player2Moves,
	}
	if st.Status == game.Won {
		out.Direction = st.Result.Direction.String()
		out.WinColumn = game.ColumnLabel(st.Result.WinColumn)
	}
	if st.LastMove != nil {
		out.LastMove = &moveDTO{Side: int(st.LastSide), Row: st.LastMove.Row, Column: game.ColumnLabel(st.LastMove.Col)}
	}
	return out
}

type outcomeDTO struct {
	Column string `json:"column"`
	Kind   string `json:"kind"`
	Score  int    `json:"score,omitempty"`
}

type decisionDTO struct {
	Column   string       `json:"column"`
	Row      int          `json:"row"`
	Score    int          `json:"score"`
	Reason   string       `json:"reason"`
	Outcomes []outcomeDTO `json:"outcomes"`
}

func newDecisionDTO(d game.Decision) decisionDTO {
	out := decisionDTO{
		Column:   game.ColumnLabel(d.Cell.Col),
		Row:      d.Cell.Row,
		Score:    d.Cell.Score,
		Reason:   d.Reason.String(),
		Outcomes: make([]outcomeDTO, 0, len(d.Outcomes)),
	}
	for _, o := range d.Outcomes {
		out.Outcomes = append(out.Outcomes, outcomeDTO{
			Column: game.ColumnLabel(o.Column),
			Kind:   o.Kind.String(),
			Score:  o.Cell.Score,
		})
	}
	return out
}

type winnerDTO struct {
	Winner    string `json:"winner"`
	Direction string `json:"direction,omitempty"`
	Row       *int   `json:"row,omitempty"`
	Column    string `json:"column,omitempty"`
}
