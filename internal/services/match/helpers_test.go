package match

import (
	"sync"
	"sync/atomic"

	"github.com/mcoot/werewolf-go/internal/model"
)

// recordingPublisher captures every publish for assertions
type recordingPublisher struct {
	mu       sync.Mutex
	updates  []*model.Match
	syncs    []*model.Match
	messages []*model.ChatMessage
	deleted  []model.JoinCode
}

func (p *recordingPublisher) MatchUpdated(match *model.Match) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, match.Clone())
}

func (p *recordingPublisher) TimerSync(match *model.Match) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.syncs = append(p.syncs, match.Clone())
}

func (p *recordingPublisher) MessagePosted(_ model.JoinCode, msg *model.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msg)
}

func (p *recordingPublisher) MatchDeleted(code model.JoinCode) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, code)
}

func (p *recordingPublisher) updateCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.updates)
}

func (p *recordingPublisher) syncCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.syncs)
}

func (p *recordingPublisher) deletedCodes() []model.JoinCode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]model.JoinCode(nil), p.deleted...)
}

func (p *recordingPublisher) lastUpdate() *model.Match {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.updates) == 0 {
		return nil
	}
	return p.updates[len(p.updates)-1]
}

// gatedPublisher holds the first match update after arm() until release
// is closed
type gatedPublisher struct {
	recordingPublisher
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func newGatedPublisher() *gatedPublisher {
	return &gatedPublisher{
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (p *gatedPublisher) arm() {
	p.armed.Store(true)
}

func (p *gatedPublisher) MatchUpdated(match *model.Match) {
	if p.armed.CompareAndSwap(true, false) {
		close(p.entered)
		<-p.release
	}
	p.recordingPublisher.MatchUpdated(match)
}

// countingObserver tallies lifecycle notifications
type countingObserver struct {
	mu       sync.Mutex
	created  int
	started  int
	finished []model.Team
	deleted  int
	phases   []string
}

func (o *countingObserver) MatchCreated() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.created++
}

func (o *countingObserver) MatchStarted(int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.started++
}

func (o *countingObserver) PhaseEntered(phase model.Phase, trigger string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phases = append(o.phases, string(phase)+"/"+trigger)
}

func (o *countingObserver) MatchFinished(winner model.Team) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.finished = append(o.finished, winner)
}

func (o *countingObserver) MatchDeleted() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.deleted++
}

func (o *countingObserver) CountdownsRunning(int) {}

func (o *countingObserver) phaseLog() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]string(nil), o.phases...)
}
