package roles

import (
	"fmt"

	"github.com/mcoot/werewolf-go/internal/model"
)

// MinPlayers is the smallest roster that can satisfy the werewolf bound
const MinPlayers = 3

// MaxPlayers caps the roster size
const MaxPlayers = 30

// catalogOrder is the order role pools are built in
var catalogOrder = []model.RoleID{
	model.RoleWerewolf,
	model.RoleDoctor,
	model.RoleDetective,
	model.RoleSeer,
	model.RoleVillager,
}

var catalog = map[model.RoleID]model.RoleDefinition{
	model.RoleWerewolf: {
		ID:          model.RoleWerewolf,
		Name:        "Werewolf",
		Team:        model.TeamWerewolves,
		NightAction: model.ActionKill,
		Description: "Eliminate villagers during the night.",
		MinCount:    1,
		MaxCount:    4,
	},
	model.RoleDoctor: {
		ID:          model.RoleDoctor,
		Name:        "Doctor",
		Team:        model.TeamVillagers,
		NightAction: model.ActionProtect,
		Description: "Protect one player each night.",
		MinCount:    0,
		MaxCount:    1,
	},
	model.RoleDetective: {
		ID:          model.RoleDetective,
		Name:        "Detective",
		Team:        model.TeamVillagers,
		NightAction: model.ActionInvestigate,
		Description: "Investigate one player's team each night.",
		MinCount:    0,
		MaxCount:    1,
	},
	model.RoleSeer: {
		ID:          model.RoleSeer,
		Name:        "Seer",
		Team:        model.TeamVillagers,
		NightAction: model.ActionReveal,
		Description: "See one player's role each night.",
		MinCount:    0,
		MaxCount:    1,
	},
	model.RoleVillager: {
		ID:          model.RoleVillager,
		Name:        "Villager",
		Team:        model.TeamVillagers,
		NightAction: model.ActionNone,
		Description: "Find and eliminate the werewolves.",
		MinCount:    1,
		MaxCount:    8,
	},
}

// presets maps a roster size to its fixed role mix
var presets = map[int]map[model.RoleID]int{
	4:  {model.RoleWerewolf: 1, model.RoleDoctor: 1, model.RoleVillager: 2},
	5:  {model.RoleWerewolf: 1, model.RoleDoctor: 1, model.RoleDetective: 1, model.RoleVillager: 2},
	6:  {model.RoleWerewolf: 2, model.RoleDoctor: 1, model.RoleDetective: 1, model.RoleVillager: 2},
	7:  {model.RoleWerewolf: 2, model.RoleDoctor: 1, model.RoleDetective: 1, model.RoleSeer: 1, model.RoleVillager: 2},
	8:  {model.RoleWerewolf: 2, model.RoleDoctor: 1, model.RoleDetective: 1, model.RoleSeer: 1, model.RoleVillager: 3},
	9:  {model.RoleWerewolf: 2, model.RoleDoctor: 1, model.RoleDetective: 1, model.RoleSeer: 1, model.RoleVillager: 4},
	10: {model.RoleWerewolf: 3, model.RoleDoctor: 1, model.RoleDetective: 1, model.RoleSeer: 1, model.RoleVillager: 4},
	11: {model.RoleWerewolf: 3, model.RoleDoctor: 1, model.RoleDetective: 1, model.RoleSeer: 1, model.RoleVillager: 5},
	12: {model.RoleWerewolf: 3, model.RoleDoctor: 1, model.RoleDetective: 1, model.RoleSeer: 1, model.RoleVillager: 6},
}

// Define returns the catalog entry for a role
func Define(id model.RoleID) (model.RoleDefinition, bool) {
	def, ok := catalog[id]
	return def, ok
}

// All returns every catalog entry in catalog order
func All() []model.RoleDefinition {
	defs := make([]model.RoleDefinition, 0, len(catalogOrder))
	for _, id := range catalogOrder {
		defs = append(defs, catalog[id])
	}
	return defs
}

// TeamOf returns the team of a role. Unknown or unassigned roles count as villagers.
func TeamOf(id model.RoleID) model.Team {
	if def, ok := catalog[id]; ok {
		return def.Team
	}
	return model.TeamVillagers
}

// PresetFor returns the role counts used for a roster of n players.
// Sizes outside the table get a villager-heavy mix.
func PresetFor(n int) map[model.RoleID]int {
	if preset, ok := presets[n]; ok {
		return copyCounts(preset)
	}

	counts := map[model.RoleID]int{}
	if n <= 0 {
		return counts
	}
	wolves := max(1, n/4)
	counts[model.RoleWerewolf] = wolves
	rest := n - wolves
	if n >= 7 {
		counts[model.RoleDoctor] = 1
		counts[model.RoleDetective] = 1
		counts[model.RoleSeer] = 1
		rest -= 3
	}
	if rest > 0 {
		counts[model.RoleVillager] = rest
	}
	return counts
}

// CountsFor returns the role counts a match with these settings deals
func CountsFor(settings model.GameSettings) map[model.RoleID]int {
	if settings.UsePresetRoles {
		return PresetFor(settings.TotalPlayers)
	}
	return copyCounts(settings.CustomRoles)
}

// ValidateSettings checks the player count, durations and role mix
func ValidateSettings(settings model.GameSettings) error {
	if settings.TotalPlayers < MinPlayers {
		return fmt.Errorf("%w: at least %d players required", model.ErrConfiguration, MinPlayers)
	}
	if settings.TotalPlayers > MaxPlayers {
		return fmt.Errorf("%w: at most %d players allowed", model.ErrConfiguration, MaxPlayers)
	}
	for name, d := range map[string]int{
		"night":      settings.NightDuration,
		"day":        settings.DayDuration,
		"discussion": settings.DiscussionDuration,
		"voting":     settings.VotingDuration,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s duration must be positive", model.ErrConfiguration, name)
		}
	}
	if settings.UsePresetRoles {
		return validateTotals(PresetFor(settings.TotalPlayers), settings.TotalPlayers)
	}
	return ValidateCounts(settings.CustomRoles, settings.TotalPlayers)
}

// ValidateCounts checks a custom role mix against the catalog bounds
func ValidateCounts(counts map[model.RoleID]int, totalPlayers int) error {
	for id, n := range counts {
		if _, ok := catalog[id]; !ok {
			return fmt.Errorf("%w: unknown role %q", model.ErrConfiguration, id)
		}
		if n < 0 {
			return fmt.Errorf("%w: negative count for %s", model.ErrConfiguration, id)
		}
	}
	for _, id := range catalogOrder {
		def := catalog[id]
		n := counts[id]
		if n < def.MinCount || n > def.MaxCount {
			return fmt.Errorf("%w: %s count %d outside [%d,%d]",
				model.ErrConfiguration, def.Name, n, def.MinCount, def.MaxCount)
		}
	}
	return validateTotals(counts, totalPlayers)
}

// validateTotals enforces the sum and werewolf-parity invariants
func validateTotals(counts map[model.RoleID]int, totalPlayers int) error {
	total, wolves := 0, 0
	for id, n := range counts {
		total += n
		if TeamOf(id) == model.TeamWerewolves {
			wolves += n
		}
	}
	if total != totalPlayers {
		return fmt.Errorf("%w: total roles (%d) must equal total players (%d)",
			model.ErrConfiguration, total, totalPlayers)
	}
	if wolves == 0 {
		return fmt.Errorf("%w: at least one werewolf required", model.ErrConfiguration)
	}
	if wolves >= total-wolves {
		return fmt.Errorf("%w: werewolves cannot equal or outnumber the village", model.ErrConfiguration)
	}
	return nil
}

func copyCounts(counts map[model.RoleID]int) map[model.RoleID]int {
	c := make(map[model.RoleID]int, len(counts))
	for id, n := range counts {
		c[id] = n
	}
	return c
}
