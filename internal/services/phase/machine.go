package phase

import (
	"fmt"

	"github.com/mcoot/werewolf-go/internal/dependencies/clock"
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/roles"
	"github.com/mcoot/werewolf-go/internal/services/tally"
	"github.com/mcoot/werewolf-go/internal/services/victory"
)

// Config holds phase machine configuration
type Config struct {
	// ResultsDuration is the fixed length of the results phase, in seconds
	ResultsDuration int
}

// DefaultConfig returns the default phase machine configuration
func DefaultConfig() Config {
	return Config{
		ResultsDuration: 10,
	}
}

// Machine applies the phase transition table to a match aggregate.
// It holds no per-match state; callers serialise access to each match.
type Machine struct {
	clock  clock.Clock
	config Config
}

// NewMachine creates a new phase machine
func NewMachine(clk clock.Clock, config Config) *Machine {
	return &Machine{
		clock:  clk,
		config: config,
	}
}

// DurationFor returns the countdown length of a phase in seconds
func (m *Machine) DurationFor(settings model.GameSettings, phase model.Phase) int {
	switch phase {
	case model.PhaseNight:
		return settings.NightDuration
	case model.PhaseDay:
		return settings.DayDuration
	case model.PhaseDiscussion:
		return settings.DiscussionDuration
	case model.PhaseVoting:
		return settings.VotingDuration
	case model.PhaseResults:
		return m.config.ResultsDuration
	default:
		return 0
	}
}

// Start moves a lobby match into the first night. Roles must already be dealt.
func (m *Machine) Start(match *model.Match) error {
	if match.Status != model.MatchStatusWaiting || match.State.Phase != model.PhaseLobby {
		return model.ErrAlreadyStarted
	}
	for _, p := range match.Players {
		if p.Role == "" {
			return fmt.Errorf("%w: %s has no role", model.ErrConfiguration, p.PlayerID)
		}
		p.IsAlive = true
		p.ClearRoundState()
	}

	match.Status = model.MatchStatusPlaying
	match.State.Round = 1
	match.Outcome = model.Outcome{}
	m.enter(match, model.PhaseNight)
	return nil
}

// Advance executes the transition out of the current phase, including any
// resolution it requires. A win short-circuits straight to finished.
func (m *Machine) Advance(match *model.Match) error {
	if match.Status != model.MatchStatusPlaying {
		return fmt.Errorf("%w: match is %s", model.ErrInvalidAction, match.Status)
	}

	switch match.State.Phase {
	case model.PhaseNight:
		m.ResolveNight(match)
		if m.checkWin(match) {
			return nil
		}
		m.enter(match, model.PhaseDay)
	case model.PhaseDay:
		m.enter(match, model.PhaseDiscussion)
	case model.PhaseDiscussion:
		m.enter(match, model.PhaseVoting)
	case model.PhaseVoting:
		m.ResolveVote(match)
		if m.checkWin(match) {
			return nil
		}
		m.enter(match, model.PhaseResults)
	case model.PhaseResults:
		match.State.Round++
		m.enter(match, model.PhaseNight)
	default:
		return fmt.Errorf("%w: cannot advance from %s", model.ErrInvalidAction, match.State.Phase)
	}
	return nil
}

// ResolveNight applies the werewolf kill against the doctor's protection and
// then clears every round-scoped field
func (m *Machine) ResolveNight(match *model.Match) {
	match.Outcome.EliminatedPlayer = ""
	match.Outcome.LastNightResult = ""
	match.Outcome.VoteResult = ""

	var wolves []*model.Member
	for _, p := range match.Alive() {
		if roles.TeamOf(p.Role) == model.TeamWerewolves {
			wolves = append(wolves, p)
		}
	}

	result := tally.Tally(tally.Votes(wolves, match.Alive()))
	if !result.IsTie {
		target := match.GetMember(result.Winner)
		switch {
		case target == nil || !target.IsAlive:
			// Target left or is already dead
		case target.IsProtected:
			match.Outcome.LastNightResult = model.NightResultProtected
		default:
			target.IsAlive = false
			match.Outcome.EliminatedPlayer = target.PlayerID
			match.Outcome.LastNightResult = model.NightResultKilled
		}
	}

	for _, p := range match.Players {
		p.ClearRoundState()
	}
}

// ResolveVote eliminates the unique plurality target of the day vote and
// clears all ballots
func (m *Machine) ResolveVote(match *model.Match) {
	match.Outcome.EliminatedPlayer = ""
	match.Outcome.LastNightResult = ""
	match.Outcome.VoteResult = model.VoteResultTie

	alive := match.Alive()
	result := tally.Tally(tally.Votes(alive, alive))
	if !result.IsTie {
		if target := match.GetMember(result.Winner); target != nil && target.IsAlive {
			target.IsAlive = false
			match.Outcome.EliminatedPlayer = target.PlayerID
			match.Outcome.VoteResult = model.VoteResultSuccess
		}
	}

	for _, p := range match.Players {
		p.VotedFor = ""
	}
}

// CheckWin finishes the match if either side has won. It is used after
// eliminations outside the transition table, such as a member leaving.
func (m *Machine) CheckWin(match *model.Match) bool {
	if match.Status != model.MatchStatusPlaying {
		return false
	}
	return m.checkWin(match)
}

func (m *Machine) checkWin(match *model.Match) bool {
	winner, over := victory.Evaluate(match.Alive())
	if !over {
		return false
	}
	match.Status = model.MatchStatusFinished
	match.Outcome.WinningSide = winner
	match.State.Phase = model.PhaseFinished
	match.State.TimeRemaining = 0
	match.State.LastUpdate = m.clock.Now()
	return true
}

// Tick decrements the countdown by one second and reports whether it has
// reached zero. Only playing matches in a timed phase tick.
func (m *Machine) Tick(match *model.Match) bool {
	if match.Status != model.MatchStatusPlaying {
		return false
	}
	switch match.State.Phase {
	case model.PhaseLobby, model.PhaseFinished:
		return false
	}

	if match.State.TimeRemaining > 0 {
		match.State.TimeRemaining--
	}
	match.State.LastUpdate = m.clock.Now()
	return match.State.TimeRemaining == 0
}

func (m *Machine) enter(match *model.Match, phase model.Phase) {
	match.State.Phase = phase
	match.State.TimeRemaining = m.DurationFor(match.Settings, phase)
	match.State.LastUpdate = m.clock.Now()
}
