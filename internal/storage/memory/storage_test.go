package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/harborline/battleship-go/internal/model"
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

func (s *StorageSuite) sampleGame(code model.GameCode) *model.Game {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	return &model.Game{
		Code:   code,
		Config: model.DefaultGameConfig(),
		Status: model.GameStatusRunning,
		Players: []model.Player{
			{ID: "p_alice", DisplayName: "Alice", JoinedAt: now},
			{ID: "p_bob", DisplayName: "Bob", JoinedAt: now},
		},
		Boards: map[model.PlayerID]*model.Board{
			"p_alice": {
				Owner:  "p_alice",
				Width:  10,
				Height: 10,
				Locked: true,
				Placements: []model.ShipPlacement{
					{Ship: model.ShipCarrier, Start: model.Coordinate{X: 0, Y: 0}, Orientation: model.OrientationHorizontal},
				},
			},
		},
		Shots: []model.Shot{
			{Shooter: "p_alice", Target: "p_bob", Coordinate: model.Coordinate{X: 3, Y: 4}, Result: model.ShotResultMiss, Order: 0, CreatedAt: now},
		},
		CurrentTurn: "p_bob",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Game tests

func (s *StorageSuite) TestSaveAndGetGame() {
	game := s.sampleGame("GAME01")

	err := s.storage.SaveGame(s.ctx, game)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetGame(s.ctx, "GAME01")
	s.Require().NoError(err)
	s.Equal(game.Code, retrieved.Code)
	s.Equal(game.Status, retrieved.Status)
	s.Len(retrieved.Players, 2)
	s.Len(retrieved.Shots, 1)
	s.Equal(model.PlayerID("p_bob"), retrieved.CurrentTurn)
}

func (s *StorageSuite) TestGetGameReturnsIsolatedCopy() {
	game := s.sampleGame("GAME01")
	s.Require().NoError(s.storage.SaveGame(s.ctx, game))

	// Mutating what Save was handed must not leak into the store
	game.Status = model.GameStatusFinished
	game.Shots = append(game.Shots, model.Shot{
		Shooter:    "p_bob",
		Target:     "p_alice",
		Coordinate: model.Coordinate{X: 5, Y: 5},
		Result:     model.ShotResultMiss,
		Order:      1,
	})

	first, err := s.storage.GetGame(s.ctx, "GAME01")
	s.Require().NoError(err)
	s.Equal(model.GameStatusRunning, first.Status)
	s.Len(first.Shots, 1)

	// Mutating a retrieved aggregate must not affect later reads
	first.CurrentTurn = "p_alice"
	first.Boards["p_alice"].Placements = nil
	first.Players[0].DisplayName = "Mallory"

	second, err := s.storage.GetGame(s.ctx, "GAME01")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("p_bob"), second.CurrentTurn)
	s.NotEmpty(second.Boards["p_alice"].Placements)
	s.NotEqual("Mallory", second.Players[0].DisplayName)
}

func (s *StorageSuite) TestGetGameNotFound() {
	_, err := s.storage.GetGame(s.ctx, "NOPE01")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestDeleteGame() {
	_ = s.storage.SaveGame(s.ctx, s.sampleGame("GAME01"))

	err := s.storage.DeleteGame(s.ctx, "GAME01")
	s.Require().NoError(err)

	_, err = s.storage.GetGame(s.ctx, "GAME01")
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *StorageSuite) TestGameExists() {
	exists, err := s.storage.GameExists(s.ctx, "GAME01")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveGame(s.ctx, s.sampleGame("GAME01"))

	exists, err = s.storage.GameExists(s.ctx, "GAME01")
	s.Require().NoError(err)
	s.True(exists)
}

// Connection tests

func (s *StorageSuite) TestSaveAndGetConnection() {
	conn := &model.Connection{
		GameCode:  "GAME01",
		PlayerID:  "p_alice",
		SessionID: "sess-1",
		Connected: true,
		LastSeen:  time.Now(),
	}

	err := s.storage.SaveConnection(s.ctx, conn)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetConnection(s.ctx, "GAME01", "p_alice")
	s.Require().NoError(err)
	s.Equal(model.SessionID("sess-1"), retrieved.SessionID)
	s.True(retrieved.Connected)
}

func (s *StorageSuite) TestGetConnectionNotFound() {
	_, err := s.storage.GetConnection(s.ctx, "GAME01", "p_nobody")
	s.ErrorIs(err, model.ErrConnectionNotFound)
}

func (s *StorageSuite) TestGetConnectionsForGame() {
	_ = s.storage.SaveConnection(s.ctx, &model.Connection{GameCode: "GAME01", PlayerID: "p_alice", Connected: true})
	_ = s.storage.SaveConnection(s.ctx, &model.Connection{GameCode: "GAME01", PlayerID: "p_bob", Connected: false})
	_ = s.storage.SaveConnection(s.ctx, &model.Connection{GameCode: "GAME02", PlayerID: "p_carol", Connected: true})

	conns, err := s.storage.GetConnectionsForGame(s.ctx, "GAME01")
	s.Require().NoError(err)
	s.Len(conns, 2)
}

func (s *StorageSuite) TestDeleteConnection() {
	_ = s.storage.SaveConnection(s.ctx, &model.Connection{GameCode: "GAME01", PlayerID: "p_alice"})

	err := s.storage.DeleteConnection(s.ctx, "GAME01", "p_alice")
	s.Require().NoError(err)

	_, err = s.storage.GetConnection(s.ctx, "GAME01", "p_alice")
	s.ErrorIs(err, model.ErrConnectionNotFound)
}

func (s *StorageSuite) TestPurgeStaleConnections() {
	now := time.Now()
	// Stale: disconnected, old
	_ = s.storage.SaveConnection(s.ctx, &model.Connection{
		GameCode: "GAME01", PlayerID: "p_alice", Connected: false, LastSeen: now.Add(-48 * time.Hour)})
	// Old but still connected
	_ = s.storage.SaveConnection(s.ctx, &model.Connection{
		GameCode: "GAME01", PlayerID: "p_bob", Connected: true, LastSeen: now.Add(-48 * time.Hour)})
	// Disconnected but recent
	_ = s.storage.SaveConnection(s.ctx, &model.Connection{
		GameCode: "GAME02", PlayerID: "p_carol", Connected: false, LastSeen: now.Add(-time.Minute)})

	removed, err := s.storage.PurgeStaleConnections(s.ctx, now.Add(-24*time.Hour))
	s.Require().NoError(err)
	s.Equal(1, removed)

	_, err = s.storage.GetConnection(s.ctx, "GAME01", "p_alice")
	s.ErrorIs(err, model.ErrConnectionNotFound)
	_, err = s.storage.GetConnection(s.ctx, "GAME01", "p_bob")
	s.NoError(err)
	_, err = s.storage.GetConnection(s.ctx, "GAME02", "p_carol")
	s.NoError(err)
}

// Resume token tests

func (s *StorageSuite) TestSaveAndGetResumeToken() {
	token := &model.ResumeToken{
		Digest:    "abc123",
		GameCode:  "GAME01",
		PlayerID:  "p_alice",
		CreatedAt: time.Now(),
	}

	err := s.storage.SaveResumeToken(s.ctx, token)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetResumeToken(s.ctx, "abc123")
	s.Require().NoError(err)
	s.Equal(model.GameCode("GAME01"), retrieved.GameCode)
	s.Equal(model.PlayerID("p_alice"), retrieved.PlayerID)
}

func (s *StorageSuite) TestGetResumeTokenNotFound() {
	_, err := s.storage.GetResumeToken(s.ctx, "missing")
	s.ErrorIs(err, model.ErrTokenNotFound)
}

func (s *StorageSuite) TestDeleteResumeTokensForGame() {
	_ = s.storage.SaveResumeToken(s.ctx, &model.ResumeToken{Digest: "d1", GameCode: "GAME01", PlayerID: "p_alice"})
	_ = s.storage.SaveResumeToken(s.ctx, &model.ResumeToken{Digest: "d2", GameCode: "GAME01", PlayerID: "p_bob"})
	_ = s.storage.SaveResumeToken(s.ctx, &model.ResumeToken{Digest: "d3", GameCode: "GAME02", PlayerID: "p_carol"})

	err := s.storage.DeleteResumeTokensForGame(s.ctx, "GAME01")
	s.Require().NoError(err)

	_, err = s.storage.GetResumeToken(s.ctx, "d1")
	s.ErrorIs(err, model.ErrTokenNotFound)
	_, err = s.storage.GetResumeToken(s.ctx, "d2")
	s.ErrorIs(err, model.ErrTokenNotFound)
	_, err = s.storage.GetResumeToken(s.ctx, "d3")
	s.NoError(err)
}
