package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mcoot/werewolf-go/internal/dependencies/clock"
	"github.com/mcoot/werewolf-go/internal/dependencies/random"
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/match"
	"github.com/mcoot/werewolf-go/internal/services/roles"
	"github.com/mcoot/werewolf-go/internal/storage"
)

const (
	// PlayerIDAlphabet is the character set for generating bot player IDs
	PlayerIDAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	// PlayerIDLength is the length of generated bot player IDs
	PlayerIDLength = 16
)

// ActionType is what a bot did during Act
type ActionType string

const (
	ActionNight ActionType = "night_action"
	ActionVote  ActionType = "vote"
)

// Action is a single move taken by a bot
type Action struct {
	Type     ActionType
	PlayerID model.PlayerID
	Target   model.PlayerID
}

// Service fills seats with bot players and plays their turns. It listens for
// phase changes on the match controller, so bots act as soon as a night or a
// vote opens.
type Service struct {
	storage    storage.Storage
	controller *match.Controller
	strategy   Strategy
	clock      clock.Clock
	random     random.Random
	logger     *slog.Logger
}

// NewService creates a new bot Service
func NewService(
	store storage.Storage,
	controller *match.Controller,
	strategy Strategy,
	clk clock.Clock,
	rnd random.Random,
	logger *slog.Logger,
) *Service {
	return &Service{
		storage:    store,
		controller: controller,
		strategy:   strategy,
		clock:      clk,
		random:     rnd,
		logger:     logger.With(slog.String("component", "bot-service")),
	}
}

// AddBot creates a bot player, seats it and marks it ready.
// Only the host can add bots, and only while the match is waiting.
func (s *Service) AddBot(ctx context.Context, code model.JoinCode, requestingPlayer model.PlayerID) (*model.Match, *model.Player, error) {
	m, err := s.controller.GetMatch(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	if m.GetMember(requestingPlayer) == nil {
		return nil, nil, model.ErrNotInMatch
	}
	if !m.IsHost(requestingPlayer) {
		return nil, nil, model.ErrNotHost
	}
	if m.Status != model.MatchStatusWaiting {
		return nil, nil, model.ErrAlreadyStarted
	}
	if m.IsFull() {
		return nil, nil, model.ErrMatchFull
	}

	bot := &model.Player{
		ID:          model.PlayerID("bot-" + s.random.String(PlayerIDLength, PlayerIDAlphabet)),
		DisplayName: nextBotName(m),
		IsBot:       true,
		CreatedAt:   s.clock.Now(),
	}
	if err := s.storage.SavePlayer(ctx, bot); err != nil {
		return nil, nil, err
	}

	if _, err := s.controller.JoinMatch(ctx, code, *bot); err != nil {
		return nil, nil, err
	}
	m, err = s.controller.SetReady(ctx, code, bot.ID, true)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("bot added to match",
		slog.String("match_code", string(code)),
		slog.String("bot_id", string(bot.ID)),
		slog.String("bot_name", bot.DisplayName),
	)

	return m, bot, nil
}

// RemoveBot takes a bot out of a waiting match. Host only.
func (s *Service) RemoveBot(ctx context.Context, code model.JoinCode, requestingPlayer, botID model.PlayerID) (*model.Match, error) {
	m, err := s.controller.GetMatch(ctx, code)
	if err != nil {
		return nil, err
	}
	if m.GetMember(requestingPlayer) == nil {
		return nil, model.ErrNotInMatch
	}
	if !m.IsHost(requestingPlayer) {
		return nil, model.ErrNotHost
	}
	if m.Status != model.MatchStatusWaiting {
		return nil, model.ErrAlreadyStarted
	}

	member := m.GetMember(botID)
	if member == nil {
		return nil, model.ErrPlayerNotFound
	}
	if !member.IsBot {
		return nil, fmt.Errorf("%w: %s is not a bot", model.ErrInvalidAction, member.Name)
	}

	return s.controller.LeaveMatch(ctx, code, botID)
}

// PhaseEntered lets bots act whenever a match changes phase
func (s *Service) PhaseEntered(ctx context.Context, m *model.Match) {
	actions, err := s.Act(ctx, m.Code)
	if err != nil {
		s.logger.Warn("bot actions failed",
			slog.String("match_code", string(m.Code)),
			slog.String("error", err.Error()))
		return
	}
	if len(actions) > 0 {
		s.logger.Debug("bots acted",
			slog.String("match_code", string(m.Code)),
			slog.String("phase", string(m.State.Phase)),
			slog.Int("actions", len(actions)))
	}
}

// Act plays every living bot that still owes a move in the current phase:
// night actions at night, ballots during voting. Other phases are a no-op.
func (s *Service) Act(ctx context.Context, code model.JoinCode) ([]Action, error) {
	m, err := s.controller.GetMatch(ctx, code)
	if err != nil {
		return nil, err
	}
	if m.Status != model.MatchStatusPlaying {
		return nil, nil
	}

	var actions []Action
	switch m.State.Phase {
	case model.PhaseNight:
		for _, seat := range m.Alive() {
			self := m.GetMember(seat.PlayerID)
			if self == nil || !self.IsBot || actedThisRound(self, m.State.Round) {
				continue
			}
			def, ok := roles.Define(self.Role)
			if !ok || !def.HasNightAction() {
				continue
			}
			target := s.strategy.ChooseNightTarget(m, self, def.NightAction)
			if target == "" {
				continue
			}
			// Re-read so later bots see this one's choice
			m, err = s.controller.CastNightAction(ctx, code, self.PlayerID, target)
			if err != nil {
				return actions, err
			}
			actions = append(actions, Action{Type: ActionNight, PlayerID: self.PlayerID, Target: target})
		}

	case model.PhaseVoting:
		for _, seat := range m.Alive() {
			self := m.GetMember(seat.PlayerID)
			if self == nil || !self.IsBot || self.VotedFor != "" {
				continue
			}
			target := s.strategy.ChooseVote(m, self)
			if target == "" {
				continue
			}
			m, err = s.controller.CastVote(ctx, code, self.PlayerID, target)
			if err != nil {
				return actions, err
			}
			actions = append(actions, Action{Type: ActionVote, PlayerID: self.PlayerID, Target: target})
		}
	}

	return actions, nil
}

func actedThisRound(m *model.Member, round int) bool {
	return m.Action != nil && m.Action.Round == round
}

// nextBotName returns the lowest "Bot N" not already seated
func nextBotName(m *model.Match) string {
	taken := make(map[string]bool, len(m.Players))
	for _, p := range m.Players {
		taken[p.Name] = true
	}
	for n := 1; ; n++ {
		name := fmt.Sprintf("Bot %d", n)
		if !taken[name] {
			return name
		}
	}
}
