package bot

import (
	"github.com/mcoot/werewolf-go/internal/dependencies/random"
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/roles"
)

// RandomStrategy picks uniformly among living players other than itself.
// Werewolf bots never target their own side and follow a packmate's kill
// so the pack does not split.
type RandomStrategy struct {
	random random.Random
}

// NewRandomStrategy creates a new RandomStrategy
func NewRandomStrategy(rnd random.Random) *RandomStrategy {
	return &RandomStrategy{random: rnd}
}

// ChooseNightTarget implements Strategy
func (s *RandomStrategy) ChooseNightTarget(match *model.Match, self *model.Member, action model.NightAction) model.PlayerID {
	if action == model.ActionKill {
		for _, p := range match.Alive() {
			if p.PlayerID != self.PlayerID && isWolf(p) && p.VotedFor != "" {
				return p.VotedFor
			}
		}
	}
	return s.pick(s.candidates(match, self))
}

// ChooseVote implements Strategy
func (s *RandomStrategy) ChooseVote(match *model.Match, self *model.Member) model.PlayerID {
	return s.pick(s.candidates(match, self))
}

func (s *RandomStrategy) candidates(match *model.Match, self *model.Member) []model.PlayerID {
	var out []model.PlayerID
	for _, p := range match.Alive() {
		if p.PlayerID == self.PlayerID {
			continue
		}
		if isWolf(self) && isWolf(p) {
			continue
		}
		out = append(out, p.PlayerID)
	}
	return out
}

func (s *RandomStrategy) pick(ids []model.PlayerID) model.PlayerID {
	if len(ids) == 0 {
		return ""
	}
	return ids[s.random.Intn(len(ids))]
}

func isWolf(m *model.Member) bool {
	return m.Role != "" && roles.TeamOf(m.Role) == model.TeamWerewolves
}
