package memory

import (
	"context"
	"sync"

	"github.com/mcoot/blockdrop/internal/model"
	"github.com/mcoot/blockdrop/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Games are copied on the way in and out so callers never share a record.
type Storage struct {
	mu sync.RWMutex

	players           map[model.PlayerID]*model.Player
	registeredPlayers map[model.PlayerID]*model.RegisteredPlayer
	usernameIndex     map[string]model.PlayerID
	games             map[model.GameID]*model.Game
	playerGames       map[model.PlayerID]map[model.GameID]struct{}
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:           make(map[model.PlayerID]*model.Player),
		registeredPlayers: make(map[model.PlayerID]*model.RegisteredPlayer),
		usernameIndex:     make(map[string]model.PlayerID),
		games:             make(map[model.GameID]*model.Game),
		playerGames:       make(map[model.PlayerID]map[model.GameID]struct{}),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players[player.ID] = player
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) DeletePlayer(ctx context.Context, id model.PlayerID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.players, id)
	return nil
}

// Registered player operations

func (s *Storage) SaveRegisteredPlayer(ctx context.Context, rp *model.RegisteredPlayer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredPlayers[rp.PlayerID] = rp
	s.usernameIndex[rp.Username] = rp.PlayerID
	return nil
}

func (s *Storage) GetRegisteredPlayer(ctx context.Context, playerID model.PlayerID) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

func (s *Storage) GetRegisteredPlayerByUsername(ctx context.Context, username string) (*model.RegisteredPlayer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	playerID, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	rp, ok := s.registeredPlayers[playerID]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return rp, nil
}

// Game operations

func (s *Storage) SaveGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *game
	s.games[game.ID] = &stored

	ids, ok := s.playerGames[game.PlayerID]
	if !ok {
		ids = make(map[model.GameID]struct{})
		s.playerGames[game.PlayerID] = ids
	}
	ids[game.ID] = struct{}{}
	return nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	out := *game
	return &out, nil
}

func (s *Storage) DeleteGame(ctx context.Context, id model.GameID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if game, ok := s.games[id]; ok {
		delete(s.playerGames[game.PlayerID], id)
	}
	delete(s.games, id)
	return nil
}

func (s *Storage) ListGamesForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]*model.Game, 0, len(s.playerGames[playerID]))
	for id := range s.playerGames[playerID] {
		out := *s.games[id]
		games = append(games, &out)
	}
	storage.SortNewestFirst(games)
	return games, nil
}
