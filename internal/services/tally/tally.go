package tally

import (
	"github.com/mcoot/werewolf-go/internal/model"
)

// Result is the outcome of counting one round of votes
type Result struct {
	Winner   model.PlayerID // empty on a tie
	MaxCount int
	IsTie    bool
	Counts   map[model.PlayerID]int
}

// Tally counts votes keyed by voter. Empty targets are ignored. No votes, or
// more than one target sharing the highest count, is a tie with no winner.
func Tally(votes map[model.PlayerID]model.PlayerID) Result {
	counts := make(map[model.PlayerID]int)
	for _, target := range votes {
		if target == "" {
			continue
		}
		counts[target]++
	}

	result := Result{Counts: counts}
	leaders := 0
	for target, n := range counts {
		switch {
		case n > result.MaxCount:
			result.MaxCount = n
			result.Winner = target
			leaders = 1
		case n == result.MaxCount:
			leaders++
		}
	}

	if leaders != 1 {
		result.Winner = ""
		result.IsTie = true
	}
	return result
}

// Votes collects the current ballots of voters. Ballots naming anyone
// outside candidates, such as a player who has left or died, are dropped.
func Votes(voters, candidates []*model.Member) map[model.PlayerID]model.PlayerID {
	eligible := make(map[model.PlayerID]bool, len(candidates))
	for _, c := range candidates {
		eligible[c.PlayerID] = true
	}

	votes := make(map[model.PlayerID]model.PlayerID, len(voters))
	for _, m := range voters {
		if m.VotedFor != "" && eligible[m.VotedFor] {
			votes[m.PlayerID] = m.VotedFor
		}
	}
	return votes
}
