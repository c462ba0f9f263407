package game

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/mcoot/blockdrop/internal/dependencies/clock"
	"github.com/mcoot/blockdrop/internal/dependencies/random"
	"github.com/mcoot/blockdrop/internal/model"
	"github.com/mcoot/blockdrop/internal/storage"
)

const gameIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Listener is notified of game events. Listeners are called after the
// controller has released its lock, in the order the events happened.
type Listener interface {
	GameEvent(ctx context.Context, event model.Event)
}

// SourceFunc builds the piece randomizer for a game seed
type SourceFunc func(seed uint64) random.Random

// session pairs a stored game record with its live engine
type session struct {
	game  *model.Game
	state *State
}

// Controller runs the live engines of all games on this server. Every access
// to a State goes through the controller's lock.
type Controller struct {
	storage   storage.Storage
	rules     Config
	clock     clock.Clock
	random    random.Random
	newSource SourceFunc
	logger    *slog.Logger

	mu        sync.Mutex
	sessions  map[model.GameID]*session
	listeners []Listener
}

// NewController creates a new game Controller. random supplies game IDs and
// seeds; each game's pieces come from a seeded source so games are replayable.
func NewController(
	storage storage.Storage,
	rules Config,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
) *Controller {
	return &Controller{
		storage:   storage,
		rules:     rules,
		clock:     clock,
		random:    random,
		newSource: defaultSource,
		logger:    logger,
		sessions:  make(map[model.GameID]*session),
	}
}

func defaultSource(seed uint64) random.Random {
	return random.NewSeeded(seed)
}

// SetSource replaces the randomizer factory used for new games
func (c *Controller) SetSource(fn SourceFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.newSource = fn
}

// Subscribe registers a listener for game events
func (c *Controller) Subscribe(l Listener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, l)
}

// CreateGame starts a new game for a player. A nil seed picks a random one.
func (c *Controller) CreateGame(ctx context.Context, playerID model.PlayerID, seed *uint64) (*model.Game, error) {
	c.mu.Lock()

	now := c.clock.Now()
	game := &model.Game{
		ID:        model.GameID(c.random.String(12, gameIDAlphabet)),
		PlayerID:  playerID,
		Seed:      c.pickSeed(seed),
		CreatedAt: now,
	}
	sess := &session{game: game, state: New(c.rules, c.newSource(game.Seed))}
	c.sync(sess, now)

	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.mu.Unlock()
		c.logger.Error("failed to save game",
			slog.String("game_id", string(game.ID)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}
	c.sessions[game.ID] = sess
	out := *game
	listeners := c.listeners
	c.mu.Unlock()

	c.logger.Info("game created",
		slog.String("game_id", string(game.ID)),
		slog.String("player_id", string(playerID)),
		slog.Uint64("seed", game.Seed),
	)

	c.emit(ctx, listeners,
		c.event(model.EventGameStarted, &out, nil),
		c.event(model.EventStateChanged, &out, stateChanged(&out)),
	)
	return &out, nil
}

// GetGame returns a player's game. Live games report their current snapshot.
func (c *Controller) GetGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	c.mu.Lock()
	if sess, ok := c.sessions[gameID]; ok {
		defer c.mu.Unlock()
		if sess.game.PlayerID != playerID {
			return nil, model.ErrNotGameOwner
		}
		out := *sess.game
		out.Snapshot = sess.state.Snapshot()
		return &out, nil
	}
	c.mu.Unlock()

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.PlayerID != playerID {
		return nil, model.ErrNotGameOwner
	}
	return game, nil
}

// ListGames returns the player's stored games, newest first
func (c *Controller) ListGames(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	return c.storage.ListGamesForPlayer(ctx, playerID)
}

// Apply runs one player command. accepted reports whether the engine took it;
// a rejected move is not an error.
func (c *Controller) Apply(ctx context.Context, gameID model.GameID, playerID model.PlayerID, cmd model.Command) (bool, *model.Game, error) {
	if !cmd.Valid() {
		return false, nil, fmt.Errorf("%w: %q", model.ErrUnknownCommand, cmd)
	}

	var accepted bool
	game, err := c.mutate(ctx, gameID, playerID, func(st *State) {
		accepted = dispatch(st, cmd)
	})
	if err != nil {
		return false, nil, err
	}
	return accepted, game, nil
}

// Tick advances one game's gravity and lock delay by elapsed
func (c *Controller) Tick(ctx context.Context, gameID model.GameID, playerID model.PlayerID, elapsed time.Duration) (*model.Game, error) {
	if elapsed < 0 {
		return nil, model.ErrInvalidElapsed
	}
	return c.mutate(ctx, gameID, playerID, func(st *State) {
		st.Tick(elapsed)
	})
}

// Advance ticks every live game by elapsed. Games that did not change are
// not persisted or announced.
func (c *Controller) Advance(ctx context.Context, elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}

	c.mu.Lock()
	now := c.clock.Now()
	var events []model.Event
	for _, sess := range c.sessions {
		before := observe(sess.state)
		sess.state.Tick(elapsed)
		if before.revision == sess.state.Revision() {
			continue
		}
		c.sync(sess, now)
		if err := c.storage.SaveGame(ctx, sess.game); err != nil {
			c.logger.Error("failed to save game",
				slog.String("game_id", string(sess.game.ID)),
				slog.String("error", err.Error()),
			)
		}
		events = append(events, c.changes(sess, before)...)
	}
	listeners := c.listeners
	c.mu.Unlock()

	c.emit(ctx, listeners, events...)
}

// NewGame restarts a game in place with a fresh seed. Games that are no longer
// live on this server (after a restart) are revived the same way.
func (c *Controller) NewGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error) {
	c.mu.Lock()

	sess, ok := c.sessions[gameID]
	if !ok {
		game, err := c.storage.GetGame(ctx, gameID)
		if err != nil {
			c.mu.Unlock()
			return nil, err
		}
		sess = &session{game: game}
	}
	if sess.game.PlayerID != playerID {
		c.mu.Unlock()
		return nil, model.ErrNotGameOwner
	}
	if sess.game.Status == model.GameStatusAbandoned {
		c.mu.Unlock()
		return nil, model.ErrGameAbandoned
	}

	sess.game.Seed = c.pickSeed(nil)
	sess.game.Round++
	sess.state = New(c.rules, c.newSource(sess.game.Seed))
	c.sync(sess, c.clock.Now())

	if err := c.storage.SaveGame(ctx, sess.game); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.sessions[gameID] = sess
	out := *sess.game
	listeners := c.listeners
	c.mu.Unlock()

	c.logger.Info("game restarted",
		slog.String("game_id", string(gameID)),
		slog.Int("round", out.Round),
	)

	c.emit(ctx, listeners,
		c.event(model.EventGameStarted, &out, nil),
		c.event(model.EventStateChanged, &out, stateChanged(&out)),
	)
	return &out, nil
}

// AbandonGame stops a game and drops its engine. The record is kept.
func (c *Controller) AbandonGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error {
	c.mu.Lock()

	var game *model.Game
	if sess, ok := c.sessions[gameID]; ok {
		c.sync(sess, c.clock.Now())
		game = sess.game
	} else {
		stored, err := c.storage.GetGame(ctx, gameID)
		if err != nil {
			c.mu.Unlock()
			return err
		}
		game = stored
	}
	if game.PlayerID != playerID {
		c.mu.Unlock()
		return model.ErrNotGameOwner
	}
	if game.Status == model.GameStatusAbandoned {
		c.mu.Unlock()
		return nil
	}

	game.Status = model.GameStatusAbandoned
	game.UpdatedAt = c.clock.Now()
	if err := c.storage.SaveGame(ctx, game); err != nil {
		c.mu.Unlock()
		return err
	}
	delete(c.sessions, gameID)
	out := *game
	listeners := c.listeners
	c.mu.Unlock()

	c.logger.Info("game abandoned",
		slog.String("game_id", string(gameID)),
		slog.Int("score", out.Snapshot.Score),
	)

	c.emit(ctx, listeners, c.event(model.EventGameAbandoned, &out, nil))
	return nil
}

// LiveCount returns the number of games with a running engine
func (c *Controller) LiveCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sessions)
}

// mutate runs fn against a live game's engine, persists any change and
// announces it
func (c *Controller) mutate(ctx context.Context, gameID model.GameID, playerID model.PlayerID, fn func(*State)) (*model.Game, error) {
	c.mu.Lock()

	sess, err := c.live(ctx, gameID, playerID)
	if err != nil {
		c.mu.Unlock()
		return nil, err
	}

	before := observe(sess.state)
	fn(sess.state)

	var events []model.Event
	if before.revision != sess.state.Revision() {
		c.sync(sess, c.clock.Now())
		if err := c.storage.SaveGame(ctx, sess.game); err != nil {
			c.mu.Unlock()
			c.logger.Error("failed to save game",
				slog.String("game_id", string(gameID)),
				slog.String("error", err.Error()),
			)
			return nil, err
		}
		events = c.changes(sess, before)
	}
	out := *sess.game
	out.Snapshot = sess.state.Snapshot()
	listeners := c.listeners
	c.mu.Unlock()

	c.emit(ctx, listeners, events...)
	return &out, nil
}

// live returns the running session for a game, checking ownership. Must be
// called with the lock held.
func (c *Controller) live(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*session, error) {
	if sess, ok := c.sessions[gameID]; ok {
		if sess.game.PlayerID != playerID {
			return nil, model.ErrNotGameOwner
		}
		return sess, nil
	}

	game, err := c.storage.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.PlayerID != playerID {
		return nil, model.ErrNotGameOwner
	}
	if game.Status == model.GameStatusAbandoned {
		return nil, model.ErrGameAbandoned
	}
	return nil, model.ErrGameNotLive
}

// sync copies the engine's view into the game record
func (c *Controller) sync(sess *session, now time.Time) {
	sess.game.Snapshot = sess.state.Snapshot()
	sess.game.Status = statusOf(sess.state)
	sess.game.UpdatedAt = now
}

func statusOf(st *State) model.GameStatus {
	switch {
	case st.IsGameOver():
		return model.GameStatusOver
	case st.IsPaused():
		return model.GameStatusPaused
	default:
		return model.GameStatusActive
	}
}

// observation is what the controller remembers about a State before mutating it
type observation struct {
	revision     uint64
	piecesPlaced int
	gameOver     bool
}

func observe(st *State) observation {
	return observation{
		revision:     st.Revision(),
		piecesPlaced: st.PiecesPlaced(),
		gameOver:     st.IsGameOver(),
	}
}

// changes lists the events describing a session's change since before
func (c *Controller) changes(sess *session, before observation) []model.Event {
	game := *sess.game
	events := []model.Event{c.event(model.EventStateChanged, &game, stateChanged(&game))}

	if sess.state.PiecesPlaced() != before.piecesPlaced {
		if last := game.Snapshot.LastClear; last != nil && last.Lines > 0 {
			events = append(events, c.event(model.EventLinesCleared, &game, model.LinesClearedPayload{Clear: *last}))
		}
	}

	if sess.state.IsGameOver() && !before.gameOver {
		c.logger.Info("game over",
			slog.String("game_id", string(game.ID)),
			slog.Int("score", game.Snapshot.Score),
			slog.Int("lines", game.Snapshot.Lines),
		)
		events = append(events, c.event(model.EventGameOver, &game, model.GameOverPayload{
			Score: game.Snapshot.Score,
			Lines: game.Snapshot.Lines,
			Level: game.Snapshot.Level,
		}))
	}
	return events
}

func stateChanged(game *model.Game) model.StateChangedPayload {
	return model.StateChangedPayload{Status: game.Status, Snapshot: game.Snapshot}
}

func (c *Controller) event(t model.EventType, game *model.Game, payload any) model.Event {
	return model.Event{
		Type:      t,
		Timestamp: c.clock.Now(),
		GameID:    game.ID,
		PlayerID:  game.PlayerID,
		Payload:   payload,
	}
}

func (c *Controller) emit(ctx context.Context, listeners []Listener, events ...model.Event) {
	for _, e := range events {
		for _, l := range listeners {
			l.GameEvent(ctx, e)
		}
	}
}

func (c *Controller) pickSeed(seed *uint64) uint64 {
	if seed != nil {
		return *seed
	}
	return uint64(c.random.Intn(math.MaxInt))
}

// dispatch applies a command to the engine
func dispatch(st *State, cmd model.Command) bool {
	switch cmd {
	case model.CommandMoveLeft:
		return st.MoveLeft()
	case model.CommandMoveRight:
		return st.MoveRight()
	case model.CommandSoftDrop:
		return st.SoftDrop()
	case model.CommandHardDrop:
		return st.HardDrop()
	case model.CommandRotateCW:
		return st.RotateCW()
	case model.CommandRotateCCW:
		return st.RotateCCW()
	case model.CommandRotate180:
		return st.Rotate180()
	case model.CommandHold:
		return st.Hold()
	case model.CommandPause:
		return st.Pause()
	case model.CommandResume:
		return st.Resume()
	default:
		return false
	}
}

// ControllerInterface is the controller surface used by handlers
type ControllerInterface interface {
	CreateGame(ctx context.Context, playerID model.PlayerID, seed *uint64) (*model.Game, error)
	GetGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	ListGames(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error)
	Apply(ctx context.Context, gameID model.GameID, playerID model.PlayerID, cmd model.Command) (bool, *model.Game, error)
	Tick(ctx context.Context, gameID model.GameID, playerID model.PlayerID, elapsed time.Duration) (*model.Game, error)
	NewGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) (*model.Game, error)
	AbandonGame(ctx context.Context, gameID model.GameID, playerID model.PlayerID) error
}

var _ ControllerInterface = (*Controller)(nil)
