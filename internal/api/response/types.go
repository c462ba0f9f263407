package response

import (
	"time"

	"github.com/mcoot/blockdrop/internal/model"
	"github.com/mcoot/blockdrop/internal/services/auth"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
		IsGuest:     p.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Cell is an [x, y] board coordinate
type Cell [2]int

// ActivePiece is the falling piece
type ActivePiece struct {
	Type     string `json:"type"`
	Rotation int    `json:"rotation"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
	Cells    []Cell `json:"cells"`
}

// ClearResult summarises the most recent lock
type ClearResult struct {
	Piece      string `json:"piece"`
	Rows       []int  `json:"rows"`
	Lines      int    `json:"lines"`
	Spin       string `json:"spin"`
	Points     int    `json:"points"`
	Combo      int    `json:"combo"`
	BackToBack int    `json:"back_to_back"`
}

// ClearResultFromModel converts model.ClearResult
func ClearResultFromModel(c *model.ClearResult) *ClearResult {
	if c == nil {
		return nil
	}
	rows := c.Rows
	if rows == nil {
		rows = []int{}
	}
	return &ClearResult{
		Piece:      c.Piece.String(),
		Rows:       rows,
		Lines:      c.Lines,
		Spin:       c.Spin.String(),
		Points:     c.Points,
		Combo:      c.Combo,
		BackToBack: c.BackToBack,
	}
}

// Snapshot is the engine state of a game. Board rows run top to bottom,
// one character per column, '.' for empty.
type Snapshot struct {
	Board  []string     `json:"board"`
	Active *ActivePiece `json:"active"`
	GhostY int          `json:"ghost_y"`

	Hold     *string  `json:"hold"`
	HoldUsed bool     `json:"hold_used"`
	Queue    []string `json:"queue"`

	Score      int          `json:"score"`
	Level      int          `json:"level"`
	Lines      int          `json:"lines"`
	Combo      int          `json:"combo"`
	BackToBack int          `json:"back_to_back"`
	LastClear  *ClearResult `json:"last_clear,omitempty"`

	Actions      int   `json:"actions"`
	PiecesPlaced int   `json:"pieces_placed"`
	APM          int   `json:"apm"`
	ElapsedMS    int64 `json:"elapsed_ms"`

	GameOver bool `json:"game_over"`
	Paused   bool `json:"paused"`
}

// SnapshotFromModel converts model.Snapshot
func SnapshotFromModel(s model.Snapshot) Snapshot {
	queue := make([]string, len(s.Queue))
	for i, t := range s.Queue {
		queue[i] = t.String()
	}

	var hold *string
	if s.Hold.Valid() {
		h := s.Hold.String()
		hold = &h
	}

	var active *ActivePiece
	if s.Active != nil {
		cells := make([]Cell, len(s.Active.Cells))
		for i, p := range s.Active.Cells {
			cells[i] = Cell{p.X, p.Y}
		}
		active = &ActivePiece{
			Type:     s.Active.Type.String(),
			Rotation: int(s.Active.Rotation),
			X:        s.Active.X,
			Y:        s.Active.Y,
			Cells:    cells,
		}
	}

	return Snapshot{
		Board:        s.Board,
		Active:       active,
		GhostY:       s.GhostY,
		Hold:         hold,
		HoldUsed:     s.HoldUsed,
		Queue:        queue,
		Score:        s.Score,
		Level:        s.Level,
		Lines:        s.Lines,
		Combo:        s.Combo,
		BackToBack:   s.BackToBack,
		LastClear:    ClearResultFromModel(s.LastClear),
		Actions:      s.Actions,
		PiecesPlaced: s.PiecesPlaced,
		APM:          s.APM,
		ElapsedMS:    s.Elapsed.Milliseconds(),
		GameOver:     s.GameOver,
		Paused:       s.Paused,
	}
}

// Game represents a game in API responses
type Game struct {
	ID        string    `json:"id"`
	PlayerID  string    `json:"player_id"`
	Seed      uint64    `json:"seed"`
	Round     int       `json:"round"`
	Status    string    `json:"status"`
	Snapshot  Snapshot  `json:"snapshot"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameFromModel converts model.Game
func GameFromModel(g *model.Game) Game {
	return Game{
		ID:        string(g.ID),
		PlayerID:  string(g.PlayerID),
		Seed:      g.Seed,
		Round:     g.Round,
		Status:    string(g.Status),
		Snapshot:  SnapshotFromModel(g.Snapshot),
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// GameSummary is a list entry without the board
type GameSummary struct {
	ID        string    `json:"id"`
	Status    string    `json:"status"`
	Round     int       `json:"round"`
	Score     int       `json:"score"`
	Level     int       `json:"level"`
	Lines     int       `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// GameSummaryFromModel converts model.Game to a list entry
func GameSummaryFromModel(g *model.Game) GameSummary {
	return GameSummary{
		ID:        string(g.ID),
		Status:    string(g.Status),
		Round:     g.Round,
		Score:     g.Snapshot.Score,
		Level:     g.Snapshot.Level,
		Lines:     g.Snapshot.Lines,
		CreatedAt: g.CreatedAt,
		UpdatedAt: g.UpdatedAt,
	}
}

// GameList is the response for listing games
type GameList struct {
	Games []GameSummary `json:"games"`
}

// GameListFromModel converts a slice of games
func GameListFromModel(games []*model.Game) GameList {
	out := make([]GameSummary, len(games))
	for i, g := range games {
		out[i] = GameSummaryFromModel(g)
	}
	return GameList{Games: out}
}

// CommandResponse is the response after sending a command
type CommandResponse struct {
	Accepted bool `json:"accepted"`
	Game     Game `json:"game"`
}

// Event is a game event as streamed over SSE
type Event struct {
	Type      string    `json:"type"`
	GameID    string    `json:"game_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data,omitempty"`
}

// StateEvent is the data of a state event
type StateEvent struct {
	Status   string   `json:"status"`
	Snapshot Snapshot `json:"snapshot"`
}

// GameOverEvent is the data of a game_over event
type GameOverEvent struct {
	Score int `json:"score"`
	Lines int `json:"lines"`
	Level int `json:"level"`
}

// EventFromModel converts a model.Event, mapping its payload by type
func EventFromModel(e model.Event) Event {
	out := Event{
		Type:      string(e.Type),
		GameID:    string(e.GameID),
		Timestamp: e.Timestamp,
	}
	switch p := e.Payload.(type) {
	case model.StateChangedPayload:
		out.Data = StateEvent{Status: string(p.Status), Snapshot: SnapshotFromModel(p.Snapshot)}
	case model.LinesClearedPayload:
		out.Data = ClearResultFromModel(&p.Clear)
	case model.GameOverPayload:
		out.Data = GameOverEvent{Score: p.Score, Lines: p.Lines, Level: p.Level}
	}
	return out
}
