package game

import "testing"

func mirror(lines []string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		runes := []rune(line)
		for l, r := 0, len(runes)-1; l < r; l, r = l+1, r-1 {
			runes[l], runes[r] = runes[r], runes[l]
		}
		out[i] = string(runes)
	}
	return out
}

var winBoards = []struct {
	name   string
	lines  []string
	winner CellState
	dir    Direction
	row    int
	col    int
}{
	{
		name: "horizontal",
		lines: []string{
			".......",
			".......",
			".......",
			".......",
			".OOO...",
			".XXXX..",
		},
		winner: Player1, dir: Horizontal, row: 5, col: 1,
	},
	{
		name: "vertical",
		lines: []string{
			".......",
			".......",
			"X......",
			"X......",
			"XO.....",
			"XOO....",
		},
		winner: Player1, dir: Vertical, row: 2, col: 0,
	},
	{
		name: "down-right",
		lines: []string{
			".......",
			".......",
			"X......",
			"OX.....",
			"OOX....",
			"OOOX...",
		},
		winner: Player1, dir: DownRight, row: 2, col: 0,
	},
	{
		name: "down-left",
		lines: []string{
			".......",
			".......",
			"......O",
			".....OX",
			"....OXX",
			"...OXXX",
		},
		winner: Player2, dir: DownLeft, row: 2, col: 6,
	},
}

func TestFindWinDirections(t *testing.T) {
	for _, tc := range winBoards {
		t.Run(tc.name, func(t *testing.T) {
			line, ok := FindWin(mustBoard(t, tc.lines...))
			if !ok {
				t.Fatalf("no win found")
			}
			want := WinLine{Winner: tc.winner, Direction: tc.dir, Row: tc.row, Col: tc.col}
			if line != want {
				t.Fatalf("line = %+v, want %+v", line, want)
			}
		})
	}
}

func TestFindWinMirrorSymmetry(t *testing.T) {
	mirrored := map[Direction]Direction{
		Horizontal: Horizontal,
		Vertical:   Vertical,
		DownRight:  DownLeft,
		DownLeft:   DownRight,
	}
	for _, tc := range winBoards {
		b := mustBoard(t, mirror(tc.lines)...)
		line, ok := FindWin(b)
		if !ok {
			t.Fatalf("%s: mirrored board has no win", tc.name)
		}
		if line.Winner != tc.winner || line.Direction != mirrored[tc.dir] {
			t.Fatalf("%s: mirrored line = %+v", tc.name, line)
		}
	}
}

func TestFindWinNoLine(t *testing.T) {
	b := mustBoard(t,
		".......",
		".......",
		".......",
		"...X...",
		"..XOO..",
		".XXOOO.",
	)
	if line, ok := FindWin(b); ok {
		t.Fatalf("unexpected win %+v", line)
	}
	if line, ok := FindWin(mustNewBoard(t, 4, 4)); ok {
		t.Fatalf("empty board reported %+v", line)
	}
}

func TestFindWinFirstInRowMajorOrder(t *testing.T) {
	b := mustBoard(t,
		".......",
		".......",
		"......O",
		"......O",
		"......O",
		"XXXX..O",
	)
	line, ok := FindWin(b)
	if !ok {
		t.Fatalf("no win found")
	}
	if line.Winner != Player2 || line.Direction != Vertical || line.Col != 6 {
		t.Fatalf("line = %+v, want vertical O at column 6", line)
	}
}

func TestCheckWinRecordsLine(t *testing.T) {
	b := mustBoard(t,
		".......",
		".......",
		".......",
		".......",
		"...OO..",
		"...XXX.",
	)
	g := NewGame(b, nil, nil)
	if err := b.Place(5, 2, Player1); err != nil {
		t.Fatalf("Place: %v", err)
	}
	if got := g.CheckWin(b, false); got != Player1 {
		t.Fatalf("winner = %s, want PLAYER1", got)
	}
	line, ok := g.WinLine()
	if !ok || line.Direction != Horizontal || line.Col != 2 {
		t.Fatalf("recorded line = %+v (%v), want horizontal from column 2", line, ok)
	}
	if got := g.CheckWin(b, false); got != Player1 {
		t.Fatalf("second check = %s", got)
	}
	if again, _ := g.WinLine(); again != line {
		t.Fatalf("second check recorded %+v, want %+v", again, line)
	}
}

func TestCheckWinTestModeRecordsNothing(t *testing.T) {
	b := mustBoard(t, winBoards[1].lines...)
	before := b.String()
	g := NewGame(mustNewBoard(t, 6, 7), nil, nil)
	if got := g.CheckWin(b, true); got != Player1 {
		t.Fatalf("winner = %s, want PLAYER1", got)
	}
	if _, ok := g.WinLine(); ok {
		t.Fatalf("test mode recorded a win line")
	}
	if b.String() != before {
		t.Fatalf("CheckWin modified the board")
	}
}
