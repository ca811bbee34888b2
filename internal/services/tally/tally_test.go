package tally

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/werewolf-go/internal/model"
)

func TestTally(t *testing.T) {
	tests := []struct {
		name     string
		votes    map[model.PlayerID]model.PlayerID
		winner   model.PlayerID
		maxCount int
		tie      bool
	}{
		{
			name: "no votes",
			tie:  true,
		},
		{
			name:     "single vote",
			votes:    map[model.PlayerID]model.PlayerID{"a": "x"},
			winner:   "x",
			maxCount: 1,
		},
		{
			name:     "even split",
			votes:    map[model.PlayerID]model.PlayerID{"a": "x", "b": "y"},
			maxCount: 1,
			tie:      true,
		},
		{
			name:     "clear majority",
			votes:    map[model.PlayerID]model.PlayerID{"a": "x", "b": "x", "c": "y"},
			winner:   "x",
			maxCount: 2,
		},
		{
			name:     "shared maximum with a trailing target",
			votes:    map[model.PlayerID]model.PlayerID{"a": "x", "b": "x", "c": "y", "d": "y", "e": "z"},
			maxCount: 2,
			tie:      true,
		},
		{
			name:     "empty ballots ignored",
			votes:    map[model.PlayerID]model.PlayerID{"a": "", "b": "y", "c": ""},
			winner:   "y",
			maxCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Tally(tt.votes)
			assert.Equal(t, tt.winner, result.Winner)
			assert.Equal(t, tt.maxCount, result.MaxCount)
			assert.Equal(t, tt.tie, result.IsTie)
		})
	}
}

func TestTallyCounts(t *testing.T) {
	result := Tally(map[model.PlayerID]model.PlayerID{"a": "x", "b": "x", "c": "y", "d": ""})
	assert.Equal(t, map[model.PlayerID]int{"x": 2, "y": 1}, result.Counts)
}

func TestVotes(t *testing.T) {
	members := []*model.Member{
		{PlayerID: "a", VotedFor: "c"},
		{PlayerID: "b"},
		{PlayerID: "c", VotedFor: "a"},
	}
	assert.Equal(t, map[model.PlayerID]model.PlayerID{"a": "c", "c": "a"}, Votes(members, members))
}

func TestVotesDropBallotsForMissingTargets(t *testing.T) {
	members := []*model.Member{
		{PlayerID: "a", VotedFor: "gone"},
		{PlayerID: "b", VotedFor: "gone"},
		{PlayerID: "c", VotedFor: "a"},
	}

	votes := Votes(members, members)
	assert.Equal(t, map[model.PlayerID]model.PlayerID{"c": "a"}, votes)

	result := Tally(votes)
	assert.False(t, result.IsTie)
	assert.Equal(t, model.PlayerID("a"), result.Winner)
}
