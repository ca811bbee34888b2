package match

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mcoot/werewolf-go/internal/dependencies/clock"
	"github.com/mcoot/werewolf-go/internal/dependencies/random"
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/phase"
	"github.com/mcoot/werewolf-go/internal/services/roles"
	"github.com/mcoot/werewolf-go/internal/storage"
)

const (
	// JoinCodeLength is the length of generated join codes
	JoinCodeLength = 6
	// JoinCodeAlphabet is the characters used in join codes (avoid confusing chars)
	JoinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxCodeAttempts = 10
)

// errNoChange aborts an update without touching storage or publishing
var errNoChange = errors.New("no change")

// Config holds match engine configuration
type Config struct {
	// BaseURL prefixes share links
	BaseURL string
	// TickInterval is the countdown period. Zero disables the countdown.
	TickInterval time.Duration
	// SyncEvery is how many ticks pass between timer-sync pushes
	SyncEvery int
	Phase     phase.Config
}

// DefaultConfig returns default match engine configuration
func DefaultConfig() Config {
	return Config{
		BaseURL:      "http://localhost:8080",
		TickInterval: time.Second,
		SyncEvery:    5,
		Phase:        phase.DefaultConfig(),
	}
}

// Controller is the single writer for every match it serves. Each mutation
// takes the match's lock, runs as one atomic storage update and is published
// once before the lock is released.
type Controller struct {
	storage   storage.Storage
	machine   *phase.Machine
	publisher Publisher
	observer  Observer
	listener  PhaseListener
	clock     clock.Clock
	random    random.Random
	logger    *slog.Logger
	config    Config

	locks *codeLocks

	mu         sync.Mutex
	countdowns map[model.JoinCode]*countdown
	closed     bool
	wg         sync.WaitGroup
}

// NewController creates a new match Controller. Nil publisher or observer
// are replaced with no-ops.
func NewController(
	storage storage.Storage,
	publisher Publisher,
	observer Observer,
	clock clock.Clock,
	random random.Random,
	logger *slog.Logger,
	cfg Config,
) *Controller {
	if publisher == nil {
		publisher = noopPublisher{}
	}
	if observer == nil {
		observer = noopObserver{}
	}
	if cfg.SyncEvery <= 0 {
		cfg.SyncEvery = DefaultConfig().SyncEvery
	}
	if cfg.Phase.ResultsDuration <= 0 {
		cfg.Phase = phase.DefaultConfig()
	}
	return &Controller{
		storage:    storage,
		machine:    phase.NewMachine(clock, cfg.Phase),
		publisher:  publisher,
		observer:   observer,
		listener:   noopListener{},
		clock:      clock,
		random:     random,
		logger:     logger.With(slog.String("component", "match-controller")),
		config:     cfg,
		locks:      newCodeLocks(),
		countdowns: make(map[model.JoinCode]*countdown),
	}
}

// SetPhaseListener registers l to hear about phase changes. Call it during
// wiring, before the controller serves requests.
func (c *Controller) SetPhaseListener(l PhaseListener) {
	if l == nil {
		l = noopListener{}
	}
	c.listener = l
}

// update runs fn as one locked, atomic read-modify-write and publishes the
// new snapshot before the lock is released, so subscribers receive snapshots
// in commit order. changed is false when fn returned errNoChange, in which
// case the current match is returned and nothing is published.
func (c *Controller) update(ctx context.Context, code model.JoinCode, fn storage.UpdateFunc) (*model.Match, bool, error) {
	return c.mutate(ctx, code, fn, c.publisher.MatchUpdated)
}

// mutate is update with a caller-chosen publish step. publish may be nil.
func (c *Controller) mutate(ctx context.Context, code model.JoinCode, fn storage.UpdateFunc, publish func(*model.Match)) (*model.Match, bool, error) {
	unlock := c.locks.Lock(code)
	defer unlock()

	match, changed, err := c.updateLocked(ctx, code, fn)
	if err != nil {
		return nil, false, err
	}
	if changed && publish != nil {
		publish(match)
	}
	return match, changed, nil
}

func (c *Controller) updateLocked(ctx context.Context, code model.JoinCode, fn storage.UpdateFunc) (*model.Match, bool, error) {
	match, err := c.storage.UpdateMatch(ctx, code, func(m *model.Match) error {
		if err := fn(m); err != nil {
			return err
		}
		m.UpdatedAt = c.clock.Now()
		return nil
	})
	if errors.Is(err, errNoChange) {
		current, err := c.storage.GetMatch(ctx, code)
		return current, false, err
	}
	if err != nil {
		return nil, false, err
	}
	return match, true, nil
}

// CreateMatch validates settings and opens a new match with host seated first
func (c *Controller) CreateMatch(ctx context.Context, host model.Player, settings model.GameSettings) (*model.Match, error) {
	settings = settings.WithDefaults()
	if err := roles.ValidateSettings(settings); err != nil {
		return nil, err
	}

	now := c.clock.Now()
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code := model.JoinCode(c.random.String(JoinCodeLength, JoinCodeAlphabet))
		match := &model.Match{
			Code:     code,
			HostID:   host.ID,
			Status:   model.MatchStatusWaiting,
			Settings: settings,
			Players: map[model.PlayerID]*model.Member{
				host.ID: {
					PlayerID: host.ID,
					Name:     host.DisplayName,
					Seat:     0,
					IsAlive:  true,
					IsHost:   true,
					IsReady:  true,
					LastSeen: now,
				},
			},
			State:     model.PhaseState{Phase: model.PhaseLobby, LastUpdate: now},
			CreatedAt: now,
			UpdatedAt: now,
		}

		created, err := c.create(ctx, match)
		if err != nil {
			return nil, err
		}
		if !created {
			continue
		}

		c.observer.MatchCreated()
		c.logger.Info("match created",
			slog.String("match_code", string(code)),
			slog.String("player_id", string(host.ID)),
			slog.Int("total_players", settings.TotalPlayers))
		return match, nil
	}
	return nil, fmt.Errorf("%w: no free join code after %d attempts", model.ErrMatchExists, maxCodeAttempts)
}

// create stores a new match and publishes it under its code lock. It
// reports false when the code is already taken.
func (c *Controller) create(ctx context.Context, match *model.Match) (bool, error) {
	unlock := c.locks.Lock(match.Code)
	defer unlock()

	err := c.storage.CreateMatch(ctx, match)
	if errors.Is(err, model.ErrMatchExists) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	c.publisher.MatchUpdated(match)
	return true, nil
}

// GetMatch retrieves a match by join code
func (c *Controller) GetMatch(ctx context.Context, code model.JoinCode) (*model.Match, error) {
	return c.storage.GetMatch(ctx, code)
}

// JoinMatch seats a player in a waiting match. Joining again is idempotent:
// it refreshes the name and heartbeat, even after the match has started.
func (c *Controller) JoinMatch(ctx context.Context, code model.JoinCode, player model.Player) (*model.Match, error) {
	match, _, err := c.update(ctx, code, func(m *model.Match) error {
		now := c.clock.Now()
		if existing := m.GetMember(player.ID); existing != nil {
			existing.Name = player.DisplayName
			existing.LastSeen = now
			return nil
		}
		if m.Status != model.MatchStatusWaiting {
			return model.ErrAlreadyStarted
		}
		if m.IsFull() {
			return model.ErrMatchFull
		}
		m.Players[player.ID] = &model.Member{
			PlayerID: player.ID,
			Name:     player.DisplayName,
			Seat:     m.NextSeat(),
			IsAlive:  true,
			IsBot:    player.IsBot,
			LastSeen: now,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// SetReady sets a member's ready flag while the match is waiting
func (c *Controller) SetReady(ctx context.Context, code model.JoinCode, playerID model.PlayerID, ready bool) (*model.Match, error) {
	match, _, err := c.update(ctx, code, func(m *model.Match) error {
		member := m.GetMember(playerID)
		if member == nil {
			return model.ErrNotInMatch
		}
		if m.Status != model.MatchStatusWaiting {
			return model.ErrAlreadyStarted
		}
		member.IsReady = ready
		member.LastSeen = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// StartMatch deals roles and enters the first night. Host only; every seat
// must be taken and every member ready.
func (c *Controller) StartMatch(ctx context.Context, code model.JoinCode, requestingPlayer model.PlayerID) (*model.Match, error) {
	match, _, err := c.update(ctx, code, func(m *model.Match) error {
		if m.GetMember(requestingPlayer) == nil {
			return model.ErrNotInMatch
		}
		if !m.IsHost(requestingPlayer) {
			return model.ErrNotHost
		}
		if m.Status != model.MatchStatusWaiting {
			return model.ErrAlreadyStarted
		}
		if !m.AllReady() {
			return model.ErrNotAllReady
		}
		if !m.IsFull() {
			return fmt.Errorf("%w: %d of %d seats taken", model.ErrRosterIncomplete, len(m.Players), m.Settings.TotalPlayers)
		}
		if err := roles.Assign(m.Roster(), m.Settings, c.random); err != nil {
			return err
		}
		return c.machine.Start(m)
	})
	if err != nil {
		return nil, err
	}

	c.observer.MatchStarted(len(match.Players))
	c.observer.PhaseEntered(match.State.Phase, TriggerHost)
	c.logger.Info("match started",
		slog.String("match_code", string(code)),
		slog.Int("players", len(match.Players)))
	c.startCountdown(code)
	c.listener.PhaseEntered(ctx, match)
	return match, nil
}

// CastNightAction records a night action for the current round
func (c *Controller) CastNightAction(ctx context.Context, code model.JoinCode, playerID, targetID model.PlayerID) (*model.Match, error) {
	match, _, err := c.update(ctx, code, func(m *model.Match) error {
		if err := phase.CastNightAction(m, playerID, targetID); err != nil {
			return err
		}
		m.GetMember(playerID).LastSeen = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// CastVote records a day vote
func (c *Controller) CastVote(ctx context.Context, code model.JoinCode, playerID, targetID model.PlayerID) (*model.Match, error) {
	match, _, err := c.update(ctx, code, func(m *model.Match) error {
		if err := phase.CastVote(m, playerID, targetID); err != nil {
			return err
		}
		m.GetMember(playerID).LastSeen = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// AdvancePhase runs the transition out of the current phase. Host only.
// If expected is set and the match has already left that phase, the call
// is a no-op and returns the current match, so racing advances transition
// exactly once.
func (c *Controller) AdvancePhase(ctx context.Context, code model.JoinCode, requestingPlayer model.PlayerID, expected model.Phase) (*model.Match, error) {
	return c.advance(ctx, code, expected, TriggerHost, func(m *model.Match) error {
		if m.GetMember(requestingPlayer) == nil {
			return model.ErrNotInMatch
		}
		if !m.IsHost(requestingPlayer) {
			return model.ErrNotHost
		}
		return nil
	})
}

func (c *Controller) advance(ctx context.Context, code model.JoinCode, expected model.Phase, trigger string, check func(*model.Match) error) (*model.Match, error) {
	match, changed, err := c.update(ctx, code, func(m *model.Match) error {
		if check != nil {
			if err := check(m); err != nil {
				return err
			}
		}
		if expected != "" && m.State.Phase != expected {
			return errNoChange
		}
		return c.machine.Advance(m)
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		c.logger.Debug("stale advance ignored",
			slog.String("match_code", string(code)),
			slog.String("expected", string(expected)),
			slog.String("phase", string(match.State.Phase)))
		return match, nil
	}

	c.observer.PhaseEntered(match.State.Phase, trigger)
	c.logger.Debug("phase advanced",
		slog.String("match_code", string(code)),
		slog.String("phase", string(match.State.Phase)),
		slog.Int("round", match.State.Round),
		slog.String("trigger", trigger))
	c.afterTransition(match)
	c.listener.PhaseEntered(ctx, match)
	return match, nil
}

// afterTransition stops the countdown and records the result of a finished match
func (c *Controller) afterTransition(match *model.Match) {
	if match.Status != model.MatchStatusFinished {
		return
	}
	c.stopCountdown(match.Code)
	c.observer.MatchFinished(match.Outcome.WinningSide)
	c.logger.Info("match finished",
		slog.String("match_code", string(match.Code)),
		slog.String("winner", string(match.Outcome.WinningSide)),
		slog.Int("round", match.State.Round))
}

// Tick advances the countdown by one second and reports whether it expired
func (c *Controller) Tick(ctx context.Context, code model.JoinCode) (*model.Match, bool, error) {
	return c.tick(ctx, code, false)
}

// tick is Tick that also pushes a timer sync, under the match lock, when
// withSync is set and the countdown is still running
func (c *Controller) tick(ctx context.Context, code model.JoinCode, withSync bool) (*model.Match, bool, error) {
	var expired bool
	match, changed, err := c.mutate(ctx, code, func(m *model.Match) error {
		if m.Status != model.MatchStatusPlaying {
			return errNoChange
		}
		expired = c.machine.Tick(m)
		return nil
	}, func(m *model.Match) {
		if withSync && !expired {
			c.publisher.TimerSync(m)
		}
	})
	if err != nil {
		return nil, false, err
	}
	return match, changed && expired, nil
}

// Heartbeat records that a member is still connected
func (c *Controller) Heartbeat(ctx context.Context, code model.JoinCode, playerID model.PlayerID) (*model.Match, error) {
	match, _, err := c.update(ctx, code, func(m *model.Match) error {
		member := m.GetMember(playerID)
		if member == nil {
			return model.ErrNotInMatch
		}
		member.LastSeen = c.clock.Now()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return match, nil
}

// LeaveMatch removes a member. Seats are not renumbered. A departing host
// hands over to the lowest remaining human seat; the last human out deletes
// the match. Leaving mid-game can end it.
func (c *Controller) LeaveMatch(ctx context.Context, code model.JoinCode, playerID model.PlayerID) (*model.Match, error) {
	unlock := c.locks.Lock(code)
	defer unlock()

	var empty, ended bool
	match, _, err := c.updateLocked(ctx, code, func(m *model.Match) error {
		if m.GetMember(playerID) == nil {
			return model.ErrNotInMatch
		}
		delete(m.Players, playerID)
		next := firstHuman(m.Roster())
		if next == nil {
			// Nobody left who can drive the match
			empty = true
			return nil
		}

		if m.HostID == playerID {
			next.IsHost = true
			m.HostID = next.PlayerID
		}
		ended = c.machine.CheckWin(m)
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.logger.Info("player left match",
		slog.String("match_code", string(code)),
		slog.String("player_id", string(playerID)))

	if empty {
		if err := c.storage.DeleteMatch(ctx, code); err != nil {
			return nil, err
		}
		c.deleted(code)
		return nil, nil
	}

	if ended {
		c.observer.PhaseEntered(model.PhaseFinished, TriggerLeave)
		c.afterTransition(match)
	}
	c.publisher.MatchUpdated(match)
	return match, nil
}

// DeleteMatch removes a match and its chat log. Host only.
func (c *Controller) DeleteMatch(ctx context.Context, code model.JoinCode, requestingPlayer model.PlayerID) error {
	unlock := c.locks.Lock(code)
	defer unlock()

	match, err := c.storage.GetMatch(ctx, code)
	if err != nil {
		return err
	}
	if !match.IsHost(requestingPlayer) {
		return model.ErrNotHost
	}
	if err := c.storage.DeleteMatch(ctx, code); err != nil {
		return err
	}

	c.deleted(code)
	return nil
}

func (c *Controller) deleted(code model.JoinCode) {
	c.stopCountdown(code)
	c.observer.MatchDeleted()
	c.logger.Info("match deleted", slog.String("match_code", string(code)))
	c.publisher.MatchDeleted(code)
}

// SendMessage stores a chat message. Whispers are filtered on read, so they
// are stored like any other message.
func (c *Controller) SendMessage(
	ctx context.Context,
	code model.JoinCode,
	senderID model.PlayerID,
	content string,
	msgType model.MessageType,
	targetID model.PlayerID,
) (*model.ChatMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: message is empty", model.ErrInvalidAction)
	}
	if utf8.RuneCountInString(content) > model.MaxMessageLength {
		return nil, fmt.Errorf("%w: message longer than %d characters", model.ErrInvalidAction, model.MaxMessageLength)
	}

	match, err := c.storage.GetMatch(ctx, code)
	if err != nil {
		return nil, err
	}
	sender := match.GetMember(senderID)
	if sender == nil {
		return nil, model.ErrNotInMatch
	}

	msg := &model.ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   senderID,
		SenderName: sender.Name,
		Content:    content,
		Timestamp:  c.clock.Now(),
	}
	switch msgType {
	case model.MessagePublic, "":
		msg.Type = model.MessagePublic
	case model.MessageWhisper:
		target := match.GetMember(targetID)
		if target == nil || targetID == senderID {
			return nil, fmt.Errorf("%w: whisper needs another player in the match", model.ErrInvalidAction)
		}
		msg.Type = model.MessageWhisper
		msg.TargetID = target.PlayerID
		msg.TargetName = target.Name
	default:
		return nil, fmt.Errorf("%w: unknown message type %q", model.ErrInvalidAction, msgType)
	}

	if err := c.storage.AppendMessage(ctx, code, msg); err != nil {
		return nil, err
	}
	c.publisher.MessagePosted(code, msg)
	return msg, nil
}

// Messages returns the chat log as viewer may see it
func (c *Controller) Messages(ctx context.Context, code model.JoinCode, viewer model.PlayerID) ([]*model.ChatMessage, error) {
	match, err := c.storage.GetMatch(ctx, code)
	if err != nil {
		return nil, err
	}
	if match.GetMember(viewer) == nil {
		return nil, model.ErrNotInMatch
	}

	msgs, err := c.storage.GetMessages(ctx, code)
	if err != nil {
		return nil, err
	}
	return model.FilterVisible(msgs, viewer), nil
}

// ShareURL returns the invite link for a match
func (c *Controller) ShareURL(code model.JoinCode) string {
	return ShareURL(c.config.BaseURL, code)
}

// ShareURL builds the invite link for code under baseURL
func ShareURL(baseURL string, code model.JoinCode) string {
	return strings.TrimRight(baseURL, "/") + "/join/" + string(code)
}

func firstHuman(roster []*model.Member) *model.Member {
	for _, p := range roster {
		if !p.IsBot {
			return p
		}
	}
	return nil
}
