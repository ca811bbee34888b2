package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/werewolf-go/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	client  *redis.Client
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	s.client = redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.PlayerTTL = time.Hour
	cfg.MatchTTL = time.Hour
	cfg.MaxUpdateRetries = 3

	s.storage = NewWithClient(s.client, cfg)
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

func newMatch(code model.JoinCode) *model.Match {
	return &model.Match{
		Code:     code,
		HostID:   "host",
		Status:   model.MatchStatusWaiting,
		Settings: model.DefaultSettings(),
		Players: map[model.PlayerID]*model.Member{
			"host": {PlayerID: "host", Name: "Alice", IsAlive: true, IsHost: true, IsReady: true},
		},
		State:     model.PhaseState{Phase: model.PhaseLobby},
		CreatedAt: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:          "player-1",
		DisplayName: "Alice",
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(player.ID, retrieved.ID)
	s.Equal(player.DisplayName, retrieved.DisplayName)
	s.True(player.CreatedAt.Equal(retrieved.CreatedAt))
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

func (s *StorageSuite) TestPlayerTTL() {
	_ = s.storage.SavePlayer(s.ctx, &model.Player{ID: "player-1", DisplayName: "Alice"})

	ttl := s.mini.TTL(playerKey("player-1"))
	s.True(ttl > 0, "Player should have TTL")
}

// Match tests

func (s *StorageSuite) TestCreateAndGetMatch() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ABC234")))

	retrieved, err := s.storage.GetMatch(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(model.JoinCode("ABC234"), retrieved.Code)
	s.Equal(model.MatchStatusWaiting, retrieved.Status)
	s.Require().Contains(retrieved.Players, model.PlayerID("host"))
	s.True(retrieved.Players["host"].IsHost)
	s.Equal(6, retrieved.Settings.TotalPlayers)
}

func (s *StorageSuite) TestCreateMatchRejectsDuplicateCode() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ABC234")))

	other := newMatch("ABC234")
	other.HostID = "someone-else"
	s.ErrorIs(s.storage.CreateMatch(s.ctx, other), model.ErrMatchExists)

	stored, _ := s.storage.GetMatch(s.ctx, "ABC234")
	s.Equal(model.PlayerID("host"), stored.HostID)
}

func (s *StorageSuite) TestGetMatchNotFound() {
	_, err := s.storage.GetMatch(s.ctx, "NOPE23")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestMatchTTL() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ABC234")))

	ttl := s.mini.TTL(matchKey("ABC234"))
	s.True(ttl > 0, "Match should have TTL")
}

func (s *StorageSuite) TestMatchPreservesMemberState() {
	match := newMatch("ABC234")
	match.Players["host"].Role = model.RoleSeer
	match.Players["host"].LastVision = &model.Vision{TargetID: "bob", Role: model.RoleWerewolf, Round: 2}
	match.Settings.UsePresetRoles = false
	match.Settings.CustomRoles = map[model.RoleID]int{model.RoleWerewolf: 1, model.RoleVillager: 5}
	s.Require().NoError(s.storage.CreateMatch(s.ctx, match))

	retrieved, err := s.storage.GetMatch(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(model.RoleSeer, retrieved.Players["host"].Role)
	s.Require().NotNil(retrieved.Players["host"].LastVision)
	s.Equal(2, retrieved.Players["host"].LastVision.Round)
	s.Equal(5, retrieved.Settings.CustomRoles[model.RoleVillager])
}

func (s *StorageSuite) TestUpdateMatch() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ABC234")))

	updated, err := s.storage.UpdateMatch(s.ctx, "ABC234", func(m *model.Match) error {
		m.Players["bob"] = &model.Member{PlayerID: "bob", Name: "Bob", Seat: 1, IsAlive: true}
		return nil
	})
	s.Require().NoError(err)
	s.Len(updated.Players, 2)

	stored, _ := s.storage.GetMatch(s.ctx, "ABC234")
	s.Len(stored.Players, 2)
	s.Equal("Bob", stored.Players["bob"].Name)
}

func (s *StorageSuite) TestUpdateMatchErrorLeavesMatchUntouched() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ABC234")))
	boom := errors.New("boom")

	_, err := s.storage.UpdateMatch(s.ctx, "ABC234", func(m *model.Match) error {
		m.Status = model.MatchStatusPlaying
		return boom
	})
	s.ErrorIs(err, boom)

	stored, _ := s.storage.GetMatch(s.ctx, "ABC234")
	s.Equal(model.MatchStatusWaiting, stored.Status)
}

func (s *StorageSuite) TestUpdateMatchNotFound() {
	_, err := s.storage.UpdateMatch(s.ctx, "NOPE23", func(*model.Match) error { return nil })
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *StorageSuite) TestUpdateMatchRetriesOnConflict() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ABC234")))

	calls := 0
	updated, err := s.storage.UpdateMatch(s.ctx, "ABC234", func(m *model.Match) error {
		calls++
		if calls == 1 {
			// A competing writer lands between our read and our write
			_, err := s.storage.UpdateMatch(s.ctx, "ABC234", func(m *model.Match) error {
				m.Players["bob"] = &model.Member{PlayerID: "bob", Seat: 1}
				return nil
			})
			s.Require().NoError(err)
		}
		m.Players["carol"] = &model.Member{PlayerID: "carol", Seat: 2}
		return nil
	})
	s.Require().NoError(err)
	s.Equal(2, calls)
	s.Len(updated.Players, 3)

	stored, _ := s.storage.GetMatch(s.ctx, "ABC234")
	s.Contains(stored.Players, model.PlayerID("bob"))
	s.Contains(stored.Players, model.PlayerID("carol"))
}

func (s *StorageSuite) TestUpdateMatchGivesUpAfterRetries() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ABC234")))
	other := redis.NewClient(&redis.Options{Addr: s.mini.Addr()})
	defer func() { _ = other.Close() }()

	_, err := s.storage.UpdateMatch(s.ctx, "ABC234", func(m *model.Match) error {
		// Rewrite the key on every attempt so the transaction never commits
		data, err := other.Get(s.ctx, matchKey("ABC234")).Bytes()
		s.Require().NoError(err)
		s.Require().NoError(other.Set(s.ctx, matchKey("ABC234"), data, time.Hour).Err())
		return nil
	})
	s.ErrorIs(err, model.ErrStorageConflict)
}

func (s *StorageSuite) TestDeleteMatchRemovesMessages() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ABC234")))
	s.Require().NoError(s.storage.AppendMessage(s.ctx, "ABC234", &model.ChatMessage{ID: "m1", Content: "hi"}))

	s.Require().NoError(s.storage.DeleteMatch(s.ctx, "ABC234"))

	_, err := s.storage.GetMatch(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrMatchNotFound)
	s.False(s.mini.Exists(messagesKey("ABC234")))
}

func (s *StorageSuite) TestListMatchCodes() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ZZZ234")))
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("AAA234")))
	s.Require().NoError(s.storage.AppendMessage(s.ctx, "AAA234", &model.ChatMessage{ID: "m1"}))

	codes, err := s.storage.ListMatchCodes(s.ctx)
	s.Require().NoError(err)
	s.Equal([]model.JoinCode{"AAA234", "ZZZ234"}, codes)
}

// Chat tests

func (s *StorageSuite) TestAppendAndGetMessagesInOrder() {
	s.Require().NoError(s.storage.CreateMatch(s.ctx, newMatch("ABC234")))
	for _, id := range []string{"m1", "m2", "m3"} {
		s.Require().NoError(s.storage.AppendMessage(s.ctx, "ABC234", &model.ChatMessage{
			ID:      id,
			Type:    model.MessagePublic,
			Content: "hello " + id,
		}))
	}

	msgs, err := s.storage.GetMessages(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Require().Len(msgs, 3)
	s.Equal("m1", msgs[0].ID)
	s.Equal("hello m3", msgs[2].Content)
	s.Equal(model.MessagePublic, msgs[1].Type)
}

func (s *StorageSuite) TestGetMessagesEmpty() {
	msgs, err := s.storage.GetMessages(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Empty(msgs)
}

func (s *StorageSuite) TestAppendMessageUnknownMatch() {
	err := s.storage.AppendMessage(s.ctx, "NOPE23", &model.ChatMessage{ID: "m1"})
	s.ErrorIs(err, model.ErrMatchNotFound)
}
