package phase

import (
	"fmt"

	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/roles"
)

// CastNightAction records actor's night action against target for the
// current round. A repeat call replaces the earlier choice.
func CastNightAction(match *model.Match, actorID, targetID model.PlayerID) error {
	if match.Status != model.MatchStatusPlaying || match.State.Phase != model.PhaseNight {
		return fmt.Errorf("%w: night actions are only allowed at night", model.ErrInvalidAction)
	}
	actor := match.GetMember(actorID)
	if actor == nil {
		return model.ErrNotInMatch
	}
	if !actor.IsAlive {
		return fmt.Errorf("%w: dead players cannot act", model.ErrInvalidAction)
	}
	def, ok := roles.Define(actor.Role)
	if !ok || !def.HasNightAction() {
		return fmt.Errorf("%w: %s has no night action", model.ErrInvalidAction, actor.Role)
	}
	target := match.GetMember(targetID)
	if target == nil || !target.IsAlive {
		return fmt.Errorf("%w: target must be a living player", model.ErrInvalidAction)
	}
	if actorID == targetID && def.NightAction != model.ActionProtect {
		return fmt.Errorf("%w: cannot %s yourself", model.ErrInvalidAction, def.NightAction)
	}

	round := match.State.Round
	switch def.NightAction {
	case model.ActionKill:
		actor.VotedFor = targetID
	case model.ActionProtect:
		if prev := actor.Action; prev != nil && prev.Round == round && prev.Target != targetID {
			if p := match.GetMember(prev.Target); p != nil {
				p.IsProtected = false
			}
		}
		target.IsProtected = true
	case model.ActionInvestigate:
		actor.LastInvestigation = &model.Investigation{
			TargetID:   target.PlayerID,
			TargetName: target.Name,
			Result:     roles.TeamOf(target.Role),
			Round:      round,
		}
	case model.ActionReveal:
		actor.LastVision = &model.Vision{
			TargetID:   target.PlayerID,
			TargetName: target.Name,
			Role:       target.Role,
			Round:      round,
		}
	}

	actor.Action = &model.ActionRecord{
		Kind:   def.NightAction,
		Target: targetID,
		Round:  round,
	}
	return nil
}

// CastVote records actor's day vote. Voting for yourself is allowed.
func CastVote(match *model.Match, actorID, targetID model.PlayerID) error {
	if match.Status != model.MatchStatusPlaying || match.State.Phase != model.PhaseVoting {
		return fmt.Errorf("%w: voting is closed", model.ErrInvalidAction)
	}
	actor := match.GetMember(actorID)
	if actor == nil {
		return model.ErrNotInMatch
	}
	if !actor.IsAlive {
		return fmt.Errorf("%w: dead players cannot vote", model.ErrInvalidAction)
	}
	target := match.GetMember(targetID)
	if target == nil || !target.IsAlive {
		return fmt.Errorf("%w: target must be a living player", model.ErrInvalidAction)
	}

	actor.VotedFor = targetID
	return nil
}
