package match

import (
	"context"

	"github.com/mcoot/werewolf-go/internal/model"
)

// Publisher pushes match changes to subscribers. Snapshot publishes are made
// while the controller holds the match lock, so implementations must not
// block or call back into the controller.
type Publisher interface {
	MatchUpdated(match *model.Match)
	TimerSync(match *model.Match)
	MessagePosted(code model.JoinCode, msg *model.ChatMessage)
	MatchDeleted(code model.JoinCode)
}

// Observer receives lifecycle notifications, for metrics
type Observer interface {
	MatchCreated()
	MatchStarted(players int)
	PhaseEntered(phase model.Phase, trigger string)
	MatchFinished(winner model.Team)
	MatchDeleted()
	CountdownsRunning(n int)
}

// Triggers reported to Observer.PhaseEntered
const (
	TriggerHost  = "host"
	TriggerTimer = "timer"
	TriggerLeave = "leave"
)

// PhaseListener is told when a match enters a new phase. It is called
// outside the match lock, so it may call back into the controller.
type PhaseListener interface {
	PhaseEntered(ctx context.Context, match *model.Match)
}

type noopPublisher struct{}

func (noopPublisher) MatchUpdated(*model.Match) {}
func (noopPublisher) TimerSync(*model.Match) {}
func (noopPublisher) MessagePosted(model.JoinCode, *model.ChatMessage) {}
func (noopPublisher) MatchDeleted(model.JoinCode) {}

type noopObserver struct{}

func (noopObserver) MatchCreated() {}
func (noopObserver) MatchStarted(int) {}
func (noopObserver) PhaseEntered(model.Phase, string) {}
func (noopObserver) MatchFinished(model.Team) {}
func (noopObserver) MatchDeleted() {}
func (noopObserver) CountdownsRunning(int) {}

type noopListener struct{}

func (noopListener) PhaseEntered(context.Context, *model.Match) {}
