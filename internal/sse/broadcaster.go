package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/mcoot/werewolf-go/internal/api/response"
	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/match"
)

// Broadcaster pushes match changes to subscribers, projecting the match
// separately for each viewer
type Broadcaster struct {
	hubManager *HubManager
	baseURL    string
	logger     *slog.Logger
}

var _ match.Publisher = (*Broadcaster)(nil)

// NewBroadcaster creates a new Broadcaster. baseURL is used for share links.
func NewBroadcaster(hubManager *HubManager, baseURL string, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		baseURL:    baseURL,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// MatchEvent renders the match-update event for one viewer
func (b *Broadcaster) MatchEvent(m *model.Match, viewer model.PlayerID) (Event, error) {
	view := response.MatchFromModel(m, viewer, match.ShareURL(b.baseURL, m.Code))
	data, err := json.Marshal(view)
	if err != nil {
		return Event{}, err
	}
	return Event{Name: model.EventMatchUpdate, Data: data}, nil
}

// MatchUpdated sends every subscriber their own view of m
func (b *Broadcaster) MatchUpdated(m *model.Match) {
	hub := b.hubManager.GetHub(m.Code)
	if hub == nil {
		return
	}

	hub.Broadcast(func(viewer model.PlayerID) (Event, bool) {
		event, err := b.MatchEvent(m, viewer)
		if err != nil {
			b.logger.Error("failed to render match update",
				slog.String("match_code", string(m.Code)),
				slog.Any("error", err))
			return Event{}, false
		}
		return event, true
	})
}

// TimerSync sends the countdown snapshot, which is the same for everyone
func (b *Broadcaster) TimerSync(m *model.Match) {
	hub := b.hubManager.GetHub(m.Code)
	if hub == nil {
		return
	}

	data, err := json.Marshal(response.TimerSyncFromModel(m))
	if err != nil {
		b.logger.Error("failed to render timer sync", slog.Any("error", err))
		return
	}
	hub.BroadcastEvent(Event{Name: model.EventTimerSync, Data: data})
}

// MessagePosted delivers a chat message to the subscribers allowed to read it
func (b *Broadcaster) MessagePosted(code model.JoinCode, msg *model.ChatMessage) {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		return
	}

	data, err := json.Marshal(response.ChatMessageFromModel(msg))
	if err != nil {
		b.logger.Error("failed to render chat message", slog.Any("error", err))
		return
	}
	event := Event{Name: model.EventChatMessage, Data: data}
	hub.Broadcast(func(viewer model.PlayerID) (Event, bool) {
		return event, msg.VisibleTo(viewer)
	})
}

// MatchDeleted tells subscribers the match is gone and closes its hub
func (b *Broadcaster) MatchDeleted(code model.JoinCode) {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		return
	}

	data, _ := json.Marshal(map[string]string{"code": string(code)})
	hub.BroadcastEvent(Event{Name: model.EventMatchDeleted, Data: data})
	b.hubManager.RemoveHub(code)
}
