package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/mcoot/blockdrop/internal/api/response"
	"github.com/mcoot/blockdrop/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printAuthResult(v)
	case response.Game:
		o.printGame(v)
	case response.GameList:
		o.printGameList(v)
	case response.CommandResponse:
		o.printCommandResult(v)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p response.Player) {
	guestStr := "no"
	if p.IsGuest {
		guestStr = "yes"
	}
	fmt.Fprintf(o.w, "Player: %s (%s)\n", p.DisplayName, p.ID)
	fmt.Fprintf(o.w, "Guest: %s\n", guestStr)
}

func (o *Output) printAuthResult(a response.AuthResponse) {
	o.printPlayer(a.Player)
	fmt.Fprintf(o.w, "Token: %s\n", a.SessionToken)
}

func (o *Output) printGame(g response.Game) {
	fmt.Fprintf(o.w, "Game: %s (%s, round %d, seed %d)\n", g.ID, g.Status, g.Round, g.Seed)
	for _, line := range RenderBoard(g.Snapshot) {
		fmt.Fprintln(o.w, line)
	}
}

func (o *Output) printGameList(l response.GameList) {
	if len(l.Games) == 0 {
		fmt.Fprintln(o.w, "No games")
		return
	}
	fmt.Fprintf(o.w, "%-14s %-10s %8s %6s %6s  %s\n", "ID", "STATUS", "SCORE", "LEVEL", "LINES", "UPDATED")
	for _, g := range l.Games {
		fmt.Fprintf(o.w, "%-14s %-10s %8d %6d %6d  %s\n",
			g.ID, g.Status, g.Score, g.Level, g.Lines, g.UpdatedAt.Format("2006-01-02 15:04:05"))
	}
}

func (o *Output) printCommandResult(c response.CommandResponse) {
	if c.Accepted {
		fmt.Fprintln(o.w, "Accepted")
	} else {
		fmt.Fprintln(o.w, "Rejected")
	}
	o.printGame(c.Game)
}

// Board glyphs for the text renderer
const (
	glyphEmpty  = '.'
	glyphActive = '@'
	glyphGhost  = '+'
)

// RenderBoard draws the visible playfield with the active piece, its ghost
// and a stats panel. Locked cells show their piece letter.
func RenderBoard(s response.Snapshot) []string {
	rows := make([][]rune, len(s.Board))
	for y, row := range s.Board {
		rows[y] = []rune(row)
	}

	// Cells above the board are hidden
	plot := func(x, y int, glyph rune) {
		if y < 0 || y >= len(rows) || x < 0 || x >= len(rows[y]) {
			return
		}
		if glyph == glyphGhost && rows[y][x] != glyphEmpty {
			return
		}
		rows[y][x] = glyph
	}

	if a := s.Active; a != nil {
		if drop := s.GhostY - a.Y; drop > 0 {
			for _, c := range a.Cells {
				plot(c[0], c[1]+drop, glyphGhost)
			}
		}
		for _, c := range a.Cells {
			plot(c[0], c[1], glyphActive)
		}
	}

	panel := statsPanel(s)
	width := 0
	if len(rows) > 0 {
		width = len(rows[0])
	}
	border := "+" + strings.Repeat("-", width) + "+"

	lines := make([]string, 0, len(rows)+2)
	lines = append(lines, withPanel(border, panel, 0))
	for y, row := range rows {
		lines = append(lines, withPanel("|"+string(row)+"|", panel, y+1))
	}
	lines = append(lines, withPanel(border, panel, len(rows)+1))
	return lines
}

func withPanel(line string, panel []string, i int) string {
	if i >= len(panel) {
		return line
	}
	return line + "   " + panel[i]
}

func statsPanel(s response.Snapshot) []string {
	hold := "-"
	if s.Hold != nil {
		hold = *s.Hold
		if s.HoldUsed {
			hold += " (used)"
		}
	}

	panel := []string{
		"Hold:  " + hold,
		"Next:  " + strings.Join(s.Queue, " "),
	}
	if len(s.Queue) > 0 {
		for _, row := range piecePreview(s.Queue[0]) {
			panel = append(panel, "       "+row)
		}
	}
	panel = append(panel,
		"",
		fmt.Sprintf("Score: %d", s.Score),
		fmt.Sprintf("Level: %d", s.Level),
		fmt.Sprintf("Lines: %d", s.Lines),
	)
	if s.Combo > 0 {
		panel = append(panel, fmt.Sprintf("Combo: %d", s.Combo))
	}
	if s.BackToBack > 1 {
		panel = append(panel, fmt.Sprintf("B2B:   x%d", s.BackToBack-1))
	}
	panel = append(panel,
		"",
		fmt.Sprintf("Pieces: %d", s.PiecesPlaced),
		fmt.Sprintf("APM:    %d", s.APM),
		fmt.Sprintf("Time:   %s", formatElapsed(s.ElapsedMS)),
	)
	if c := s.LastClear; c != nil && c.Lines > 0 {
		panel = append(panel, "", "Last:  "+describeClear(c))
	}
	switch {
	case s.GameOver:
		panel = append(panel, "", "GAME OVER")
	case s.Paused:
		panel = append(panel, "", "PAUSED")
	}
	return panel
}

// piecePreview draws a piece in its spawn orientation, skipping empty rows
func piecePreview(name string) []string {
	t, err := model.ParsePieceType(name)
	if err != nil {
		return nil
	}
	glyphs := strings.NewReplacer("#", t.String(), ".", " ")
	var rows []string
	for _, row := range model.Shape(t, 0) {
		if !strings.Contains(row, "#") {
			continue
		}
		rows = append(rows, strings.TrimRight(glyphs.Replace(row), " "))
	}
	return rows
}

func describeClear(c *response.ClearResult) string {
	names := map[int]string{1: "Single", 2: "Double", 3: "Triple", 4: "Tetris"}
	name := names[c.Lines]
	switch c.Spin {
	case "full":
		name = "T-Spin " + name
	case "mini":
		name = "T-Spin Mini " + name
	}
	return fmt.Sprintf("%s +%d", name, c.Points)
}

func formatElapsed(ms int64) string {
	secs := ms / 1000
	return fmt.Sprintf("%d:%02d.%d", secs/60, secs%60, (ms%1000)/100)
}
