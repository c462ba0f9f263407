package model

import "time"

// GameID uniquely identifies a game
type GameID string

// GameStatus is the externally visible lifecycle state of a game
type GameStatus string

const (
	GameStatusActive    GameStatus = "active"    // Piece in play, tick-driven
	GameStatusPaused    GameStatus = "paused"    // Suspended by the player
	GameStatusOver      GameStatus = "over"      // A spawn collided; terminal until a new game
	GameStatusAbandoned GameStatus = "abandoned" // Removed by the player
)

// Game is the stored record of a single-player game. The live engine state is
// held in memory by the game controller; Snapshot is its latest projection.
type Game struct {
	ID       GameID
	PlayerID PlayerID
	Seed     uint64 // Seed of the piece randomizer, for reproducing a game
	Round    int    // Incremented each time the game is restarted in place
	Status   GameStatus
	Snapshot Snapshot

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ActivePiece describes the falling piece in a snapshot
type ActivePiece struct {
	Type     PieceType
	Rotation Rotation
	X        int
	Y        int
	Cells    []Point
}

// Snapshot is a read-only view of the engine state for collaborators
// (renderers, overlays, remote clients)
type Snapshot struct {
	Board  []string // Rows top to bottom, see Board.Rows
	Active *ActivePiece
	GhostY int // Anchor row of the ghost projection

	Hold     PieceType // Zero when the hold slot is empty
	HoldUsed bool
	Queue    []PieceType

	Score      int
	Level      int
	Lines      int
	Combo      int
	BackToBack int
	LastClear  *ClearResult

	Actions      int
	PiecesPlaced int
	APM          int
	Elapsed      time.Duration

	GameOver bool
	Paused   bool
}

// SpinKind classifies the most recent rotation of a T piece
type SpinKind uint8

const (
	SpinNone SpinKind = iota
	SpinMini
	SpinFull
)

func (k SpinKind) String() string {
	switch k {
	case SpinMini:
		return "mini"
	case SpinFull:
		return "full"
	default:
		return "none"
	}
}

// MarshalText encodes the spin kind by name
func (k SpinKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText decodes a spin kind name
func (k *SpinKind) UnmarshalText(text []byte) error {
	switch string(text) {
	case "mini":
		*k = SpinMini
	case "full":
		*k = SpinFull
	default:
		*k = SpinNone
	}
	return nil
}

// ClearResult records the outcome of one lock
type ClearResult struct {
	Piece      PieceType
	Rows       []int // Rows removed, in board coordinates before the clear
	Lines      int
	Spin       SpinKind
	Points     int
	Combo      int
	BackToBack int
}
