// Package game implements the falling-block rules engine and the controller
// that runs engines for connected players.
//
// A State is single-threaded: every operation runs to completion within the
// call and time only advances through Tick. Rejected operations report false
// and leave the state untouched.
package game

import (
	"math"
	"slices"
	"time"

	"github.com/mcoot/blockdrop/internal/dependencies/random"
	"github.com/mcoot/blockdrop/internal/model"
	"github.com/mcoot/blockdrop/internal/services/bag"
	"github.com/mcoot/blockdrop/internal/services/scoring"
)

// Config holds the tunable rules of a game
type Config struct {
	QueueSize int
	LockDelay time.Duration
	Gravity   []time.Duration // Interval between gravity steps, indexed by level-1
	Scoring   scoring.Table
}

// DefaultConfig returns the standard ruleset
func DefaultConfig() Config {
	return Config{
		QueueSize: 5,
		LockDelay: 500 * time.Millisecond,
		Gravity:   slices.Clone(gravityTable),
		Scoring:   scoring.DefaultTable(),
	}
}

// State is the aggregate root of one running game
type State struct {
	cfg    Config
	scorer *scoring.Service
	bag    *bag.Bag

	board    *model.Board
	active   model.Piece
	hold     model.PieceType
	holdUsed bool
	queue    []model.PieceType

	score     int
	lines     int
	level     int
	streak    scoring.Streak
	spin      model.SpinKind
	dropped   int // cells soft dropped by the current piece
	lastClear *model.ClearResult

	lock       lockState
	gravityAcc time.Duration
	elapsed    time.Duration

	actions      int
	piecesPlaced int

	gameOver bool
	paused   bool

	revision uint64
}

// New creates a game with an empty board and spawns the first piece
func New(cfg Config, rnd random.Random) *State {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1
	}
	if len(cfg.Gravity) == 0 {
		cfg.Gravity = gravityTable
	}

	s := &State{
		cfg:    cfg,
		scorer: scoring.New(cfg.Scoring),
		bag:    bag.New(rnd),
		board:  model.NewBoard(),
		queue:  make([]model.PieceType, 0, cfg.QueueSize),
		level:  1,
		streak: scoring.NewStreak(),
	}
	for range cfg.QueueSize {
		s.queue = append(s.queue, s.bag.Next())
	}
	s.spawn()
	return s
}

// Queries

// Board returns a copy of the locked-block grid
func (s *State) Board() *model.Board { return s.board.Clone() }

// Active returns the falling piece
func (s *State) Active() model.Piece { return s.active }

// Held returns the held piece type, zero if the slot is empty
func (s *State) Held() model.PieceType { return s.hold }

// HoldUsed reports whether hold was already used for the current piece
func (s *State) HoldUsed() bool { return s.holdUsed }

// Queue returns the upcoming piece types, next first
func (s *State) Queue() []model.PieceType { return slices.Clone(s.queue) }

func (s *State) Score() int      { return s.score }
func (s *State) Level() int      { return s.level }
func (s *State) Lines() int      { return s.lines }
func (s *State) Combo() int      { return s.streak.Combo }
func (s *State) BackToBack() int { return s.streak.BackToBack }

// Spin returns the T-spin classification of the last successful rotation
func (s *State) Spin() model.SpinKind { return s.spin }

func (s *State) IsGameOver() bool { return s.gameOver }
func (s *State) IsPaused() bool   { return s.paused }

// Revision increases whenever the board, the pieces, the tallies or the
// status change. Time passing on its own does not count.
func (s *State) Revision() uint64 { return s.revision }

// GhostY returns the anchor row of the lowest position the active piece can
// reach by falling straight down
func (s *State) GhostY() int {
	p := s.active
	for s.valid(p.Moved(0, 1)) {
		p = p.Moved(0, 1)
	}
	return p.Y
}

// APM returns actions per minute over unpaused play time
func (s *State) APM() int {
	if s.elapsed <= 0 {
		return 0
	}
	return int(math.Round(float64(s.actions) * 60 / s.elapsed.Seconds()))
}

// Snapshot returns a read-only projection of the state
func (s *State) Snapshot() model.Snapshot {
	snap := model.Snapshot{
		Board: s.board.Rows(),
		Active: &model.ActivePiece{
			Type:     s.active.Type,
			Rotation: s.active.Rotation,
			X:        s.active.X,
			Y:        s.active.Y,
			Cells:    s.active.Cells(),
		},
		GhostY:       s.GhostY(),
		Hold:         s.hold,
		HoldUsed:     s.holdUsed,
		Queue:        s.Queue(),
		Score:        s.score,
		Level:        s.level,
		Lines:        s.lines,
		Combo:        s.streak.Combo,
		BackToBack:   s.streak.BackToBack,
		Actions:      s.actions,
		PiecesPlaced: s.piecesPlaced,
		APM:          s.APM(),
		Elapsed:      s.elapsed,
		GameOver:     s.gameOver,
		Paused:       s.paused,
	}
	if s.lastClear != nil {
		last := *s.lastClear
		last.Rows = slices.Clone(s.lastClear.Rows)
		snap.LastClear = &last
	}
	return snap
}

// Pause suspends gravity and lock delay. Accumulated progress is kept.
func (s *State) Pause() bool {
	if s.gameOver || s.paused {
		return false
	}
	s.paused = true
	s.revision++
	return true
}

// Resume continues a paused game. A finished game stays paused.
func (s *State) Resume() bool {
	if s.gameOver || !s.paused {
		return false
	}
	s.paused = false
	s.revision++
	return true
}

// valid reports whether every cell of p is either above the field, in any
// column, or on an empty square inside it
func (s *State) valid(p model.Piece) bool {
	for _, c := range p.Cells() {
		if c.Y < 0 {
			continue
		}
		if s.board.Get(c.X, c.Y) != model.CellEmpty {
			return false
		}
	}
	return true
}

// spawn takes the next piece from the queue and tops the queue up from the bag
func (s *State) spawn() {
	next := s.queue[0]
	s.queue = append(s.queue[1:], s.bag.Next())
	s.holdUsed = false
	s.place(model.Spawn(next))
}

// place makes p the active piece with a fresh lock-delay state
func (s *State) place(p model.Piece) {
	s.active = p
	s.lock.reset()
	s.revision++
	if !s.valid(p) {
		s.endGame()
	}
}

func (s *State) endGame() {
	s.gameOver = true
	s.paused = true
}

// live reports whether the state accepts player input
func (s *State) live() bool {
	return !s.gameOver && !s.paused
}
