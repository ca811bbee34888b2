package bot

import "github.com/mcoot/werewolf-go/internal/model"

// Strategy decides what a bot does with its turn
type Strategy interface {
	// ChooseNightTarget picks the target of self's night action, or "" to skip
	ChooseNightTarget(match *model.Match, self *model.Member, action model.NightAction) model.PlayerID
	// ChooseVote picks who self votes to eliminate, or "" to abstain
	ChooseVote(match *model.Match, self *model.Member) model.PlayerID
}
