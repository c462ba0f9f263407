package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/blockdrop/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GuestPlayerTTL = time.Hour
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		IsGuest:     false,
		CreatedAt:   time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestDeletePlayer() {
	player := &model.Player{ID: "player-1", DisplayName: "Alice"}
	_ = s.storage.SavePlayer(s.ctx, player)

	err := s.storage.DeletePlayer(s.ctx, "player-1")
	s.Require().NoError(err)

	_, err = s.storage.GetPlayer(s.ctx, "player-1")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGuestPlayerTTL() {
	guestPlayer := &model.Player{
		ID:      "guest-1",
		IsGuest: true,
	}
	registeredPlayer := &model.Player{
		ID:      "registered-1",
		IsGuest: false,
	}

	_ = s.storage.SavePlayer(s.ctx, guestPlayer)
	_ = s.storage.SavePlayer(s.ctx, registeredPlayer)

	// Check that guest has TTL and registered doesn't
	guestTTL := s.mini.TTL(playerKey(guestPlayer.ID))
	registeredTTL := s.mini.TTL(playerKey(registeredPlayer.ID))

	s.True(guestTTL > 0, "Guest player should have TTL")
	s.Equal(time.Duration(0), registeredTTL, "Registered player should not have TTL")
}

// Registered player tests

func (s *StorageSuite) TestSaveAndGetRegisteredPlayer() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SaveRegisteredPlayer(s.ctx, rp)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRegisteredPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(rp.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsername() {
	rp := &model.RegisteredPlayer{
		PlayerID:     "player-1",
		Username:     "alice",
		PasswordHash: "hash123",
	}
	_ = s.storage.SaveRegisteredPlayer(s.ctx, rp)

	retrieved, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal("player-1", string(retrieved.PlayerID))
}

func (s *StorageSuite) TestGetRegisteredPlayerByUsernameNotFound() {
	_, err := s.storage.GetRegisteredPlayerByUsername(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}


// Game tests

func newGame(id model.GameID, playerID model.PlayerID, createdAt time.Time) *model.Game {
	return &model.Game{
		ID:        id,
		PlayerID:  playerID,
		Seed:      42,
		Status:    model.GameStatusActive,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Snapshot: model.Snapshot{
			Board:  []string{"..........", "IIII.....T"},
			Active: &model.ActivePiece{Type: model.PieceT, Rotation: 1, X: 4, Y: 2},
			Queue:  []model.PieceType{model.PieceO, model.PieceS},
			Score:  1200,
			Level:  2,
			LastClear: &model.ClearResult{
				Piece: model.PieceT,
				Rows:  []int{18, 19},
				Lines: 2,
				Spin:  model.SpinFull,
			},
		},
	}
}

func (s *StorageSuite) TestSaveAndGetGame() {
	game := newGame("game-1", "player-1", time.Now().UTC())

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(game.ID, retrieved.ID)
	s.Equal(game.PlayerID, retrieved.PlayerID)
	s.Equal(game.Status, retrieved.Status)
	s.Equal(game.Snapshot.Queue, retrieved.Snapshot.Queue)
	s.Equal(game.Snapshot.Score, retrieved.Snapshot.Score)
	s.Require().NotNil(retrieved.Snapshot.LastClear)
	s.Equal(model.SpinFull, retrieved.Snapshot.LastClear.Spin)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "player-1", time.Now()))

	err := s.storage.DeleteGame(s.ctx, "game-1")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "game-1")
	s.ErrorIs(err, model.ErrGameNotFound)

	games, err := s.storage.ListGamesForPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *StorageSuite) TestDeleteMissingGame() {
	s.NoError(s.storage.DeleteGame(s.ctx, "nonexistent"))
}

func (s *StorageSuite) TestListGamesForPlayer() {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	_ = s.storage.SaveGame(s.ctx, newGame("game-old", "player-1", base))
	_ = s.storage.SaveGame(s.ctx, newGame("game-new", "player-1", base.Add(time.Minute)))
	_ = s.storage.SaveGame(s.ctx, newGame("game-other", "player-2", base))

	games, err := s.storage.ListGamesForPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("game-new"), games[0].ID)
	s.Equal(model.GameID("game-old"), games[1].ID)
}

func (s *StorageSuite) TestListGamesForPlayerWithNone() {
	games, err := s.storage.ListGamesForPlayer(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *StorageSuite) TestResavingGameDoesNotDuplicate() {
	game := newGame("game-1", "player-1", time.Now())
	_ = s.storage.SaveGame(s.ctx, game)
	game.Status = model.GameStatusOver
	_ = s.storage.SaveGame(s.ctx, game)

	games, err := s.storage.ListGamesForPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameStatusOver, games[0].Status)
}

func (s *StorageSuite) TestGameTTL() {
	game := newGame("game-1", "player-1", time.Now())
	_ = s.storage.SaveGame(s.ctx, game)

	s.True(s.mini.TTL(gameKey(game.ID)) > 0, "Game should have TTL")
	s.True(s.mini.TTL(gamesForPlayerIndexKey(game.PlayerID)) > 0, "Game index should have TTL")
}

func (s *StorageSuite) TestListDropsExpiredGames() {
	_ = s.storage.SaveGame(s.ctx, newGame("game-1", "player-1", time.Now()))
	_ = s.storage.SaveGame(s.ctx, newGame("game-2", "player-1", time.Now()))
	s.mini.Del(gameKey("game-1"))

	games, err := s.storage.ListGamesForPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("game-2"), games[0].ID)

	members, err := s.mini.Members(gamesForPlayerIndexKey("player-1"))
	s.Require().NoError(err)
	s.Equal([]string{gameKey("game-2")}, members)
}

func (s *StorageSuite) TestGetGameWithCorruptData() {
	s.Require().NoError(s.mini.Set(gameKey("game-1"), "{not json"))

	_, err := s.storage.GetGame(s.ctx, "game-1")
	s.Error(err)
	s.NotErrorIs(err, model.ErrGameNotFound)
}
