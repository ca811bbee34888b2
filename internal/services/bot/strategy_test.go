package bot_test

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/werewolf-go/internal/dependencies/mocks"
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/bot"
)

type StrategySuite struct {
	suite.Suite
	mockRandom *mocks.MockRandom
	strategy   *bot.RandomStrategy
	match      *model.Match
}

func TestStrategySuite(t *testing.T) {
	suite.Run(t, new(StrategySuite))
}

func (s *StrategySuite) SetupTest() {
	s.mockRandom = mocks.NewMockRandom()
	s.strategy = bot.NewRandomStrategy(s.mockRandom)

	seat := func(id string, n int, role model.RoleID) *model.Member {
		return &model.Member{PlayerID: model.PlayerID(id), Name: id, Seat: n, IsAlive: true, Role: role}
	}
	s.match = &model.Match{
		Status: model.MatchStatusPlaying,
		State:  model.PhaseState{Phase: model.PhaseNight, Round: 1},
		Players: map[model.PlayerID]*model.Member{
			"w1": seat("w1", 0, model.RoleWerewolf),
			"d":  seat("d", 1, model.RoleDoctor),
			"v1": seat("v1", 2, model.RoleVillager),
			"w2": seat("w2", 3, model.RoleWerewolf),
			"v2": seat("v2", 4, model.RoleVillager),
		},
	}
}

func (s *StrategySuite) TestWolfNeverTargetsPack() {
	s.mockRandom.QueueIntn(0, 1, 2)
	w1 := s.match.GetMember("w1")

	s.Equal(model.PlayerID("d"), s.strategy.ChooseNightTarget(s.match, w1, model.ActionKill))
	s.Equal(model.PlayerID("v1"), s.strategy.ChooseNightTarget(s.match, w1, model.ActionKill))
	s.Equal(model.PlayerID("v2"), s.strategy.ChooseNightTarget(s.match, w1, model.ActionKill))
}

func (s *StrategySuite) TestWolfFollowsPackmate() {
	s.match.GetMember("w2").VotedFor = "v2"

	s.Equal(model.PlayerID("v2"), s.strategy.ChooseNightTarget(s.match, s.match.GetMember("w1"), model.ActionKill))
}

func (s *StrategySuite) TestVillagerConsidersEveryoneElse() {
	s.mockRandom.QueueIntn(3)
	s.match.State.Phase = model.PhaseVoting

	// Candidates in seat order: w1, v1, w2, v2
	s.Equal(model.PlayerID("v2"), s.strategy.ChooseVote(s.match, s.match.GetMember("d")))
}

func (s *StrategySuite) TestSkipsTheDead() {
	for _, id := range []model.PlayerID{"d", "v1", "v2"} {
		s.match.GetMember(id).IsAlive = false
	}

	s.Empty(s.strategy.ChooseNightTarget(s.match, s.match.GetMember("w1"), model.ActionKill))
	s.Empty(s.strategy.ChooseVote(s.match, s.match.GetMember("w2")))
}
