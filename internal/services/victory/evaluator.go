package victory

import (
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/roles"
)

func count(alive []*model.Member) (wolves, others int) {
	for _, m := range alive {
		if !m.IsAlive {
			continue
		}
		if roles.TeamOf(m.Role) == model.TeamWerewolves {
			wolves++
		} else {
			others++
		}
	}
	return wolves, others
}

// WerewolvesWin reports whether the living werewolves have reached parity
// with everyone else
func WerewolvesWin(alive []*model.Member) bool {
	wolves, others := count(alive)
	return wolves > 0 && wolves >= others
}

// VillagersWin reports whether no werewolf is left alive
func VillagersWin(alive []*model.Member) bool {
	wolves, _ := count(alive)
	return wolves == 0
}

// Evaluate returns the winning side, if any. Villagers are checked first, so
// a roster with nobody alive counts as a village win.
func Evaluate(alive []*model.Member) (model.Team, bool) {
	if VillagersWin(alive) {
		return model.TeamVillagers, true
	}
	if WerewolvesWin(alive) {
		return model.TeamWerewolves, true
	}
	return "", false
}
