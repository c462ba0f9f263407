package memory

import (
	"context"
	"testing"
	"time"

	"github.com/mcoot/blockdrop/internal/model"
	"github.com/stretchr/testify/suite"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
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

func (s *StorageSuite) TestStoredGameIsACopy() {
	game := newGame("game-1", "player-1", time.Now())
	_ = s.storage.SaveGame(s.ctx, game)

	game.Status = model.GameStatusAbandoned
	retrieved, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.GameStatusActive, retrieved.Status)

	retrieved.Round = 9
	again, err := s.storage.GetGame(s.ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(0, again.Round)
}
