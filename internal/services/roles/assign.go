package roles

import (
	"fmt"
	"sort"

	"github.com/mcoot/werewolf-go/internal/dependencies/random"
	"github.com/mcoot/werewolf-go/internal/model"
)

// Pool flattens role counts into a multiset in catalog order
func Pool(counts map[model.RoleID]int) []model.RoleID {
	var pool []model.RoleID
	for _, id := range catalogOrder {
		for i := 0; i < counts[id]; i++ {
			pool = append(pool, id)
		}
	}
	return pool
}

// Assign deals one role to every member. The pool is shuffled, members are
// sorted by seat, and shuffled[i] goes to the i-th seat.
func Assign(members []*model.Member, settings model.GameSettings, rnd random.Random) error {
	pool := Pool(CountsFor(settings))
	if len(pool) != len(members) {
		return fmt.Errorf("%w: %d roles for %d players", model.ErrConfiguration, len(pool), len(members))
	}

	rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	sorted := make([]*model.Member, len(members))
	copy(sorted, members)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Seat < sorted[j].Seat
	})

	for i, m := range sorted {
		m.Role = pool[i]
	}
	return nil
}
