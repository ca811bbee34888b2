package response

import (
	"sort"
	"time"

	"github.com/mcoot/werewolf-go/internal/model"
	"github.com/mcoot/werewolf-go/internal/services/auth"
	"github.com/mcoot/werewolf-go/internal/services/roles"
	"github.com/mcoot/werewolf-go/internal/services/voice"
)

// Player represents a player in API responses
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:          string(p.ID),
		DisplayName: p.DisplayName,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Player       Player `json:"player"`
	SessionToken string `json:"session_token"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Player:       PlayerFromModel(&s.Player),
		SessionToken: s.Token,
	}
}

// Role describes a catalog entry
type Role struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Team        string `json:"team"`
	NightAction string `json:"night_action,omitempty"`
	Description string `json:"description"`
	MinCount    int    `json:"min_count"`
	MaxCount    int    `json:"max_count"`
}

// RoleFromModel converts a model.RoleDefinition
func RoleFromModel(r model.RoleDefinition) Role {
	return Role{
		ID:          string(r.ID),
		Name:        r.Name,
		Team:        string(r.Team),
		NightAction: string(r.NightAction),
		Description: r.Description,
		MinCount:    r.MinCount,
		MaxCount:    r.MaxCount,
	}
}

// Settings represents match settings
type Settings struct {
	TotalPlayers       int            `json:"total_players"`
	NightDuration      int            `json:"night_duration"`
	DayDuration        int            `json:"day_duration"`
	DiscussionDuration int            `json:"discussion_duration"`
	VotingDuration     int            `json:"voting_duration"`
	UsePresetRoles     bool           `json:"use_preset_roles"`
	Roles              map[string]int `json:"roles"`
}

// SettingsFromModel converts model.GameSettings. Roles always holds the
// counts that will be dealt, preset or custom.
func SettingsFromModel(s model.GameSettings) Settings {
	counts := s.CustomRoles
	if s.UsePresetRoles {
		counts = roles.PresetFor(s.TotalPlayers)
	}
	return Settings{
		TotalPlayers:       s.TotalPlayers,
		NightDuration:      s.NightDuration,
		DayDuration:        s.DayDuration,
		DiscussionDuration: s.DiscussionDuration,
		VotingDuration:     s.VotingDuration,
		UsePresetRoles:     s.UsePresetRoles,
		Roles:              roleCounts(counts),
	}
}

// Member is a seat in a match as one viewer sees it
type Member struct {
	PlayerID string    `json:"player_id"`
	Name     string    `json:"name"`
	Seat     int       `json:"seat"`
	IsAlive  bool      `json:"is_alive"`
	IsHost   bool      `json:"is_host"`
	IsReady  bool      `json:"is_ready"`
	IsBot    bool      `json:"is_bot,omitempty"`
	LastSeen time.Time `json:"last_seen"`
	Role     string    `json:"role,omitempty"`
	HasVoted bool      `json:"has_voted,omitempty"`
	VotedFor string    `json:"voted_for,omitempty"`
}

// Outcome holds the results of the latest resolution
type Outcome struct {
	EliminatedPlayer string `json:"eliminated_player,omitempty"`
	LastNightResult  string `json:"last_night_result,omitempty"`
	VoteResult       string `json:"vote_result,omitempty"`
	WinningSide      string `json:"winning_side,omitempty"`
}

// Action is the viewer's recorded night action
type Action struct {
	Kind   string `json:"kind"`
	Target string `json:"target"`
}

// Investigation is a detective's result
type Investigation struct {
	TargetID   string `json:"target_id"`
	TargetName string `json:"target_name"`
	Team       string `json:"team"`
}

// Vision is a seer's result
type Vision struct {
	TargetID   string `json:"target_id"`
	TargetName string `json:"target_name"`
	Role       string `json:"role"`
}

// Viewer holds what only the requesting player may see
type Viewer struct {
	PlayerID      string         `json:"player_id"`
	Role          string         `json:"role,omitempty"`
	Team          string         `json:"team,omitempty"`
	NightAction   string         `json:"night_action,omitempty"`
	Action        *Action        `json:"action,omitempty"`
	Investigation *Investigation `json:"investigation,omitempty"`
	Vision        *Vision        `json:"vision,omitempty"`
	Voice         voice.Hint     `json:"voice"`
}

// Match is a per-viewer projection of a match
type Match struct {
	Code          string    `json:"code"`
	HostID        string    `json:"host_id"`
	Status        string    `json:"status"`
	Phase         string    `json:"phase"`
	Round         int       `json:"round"`
	TimeRemaining int       `json:"time_remaining"`
	Settings      Settings  `json:"settings"`
	Players       []Member  `json:"players"`
	Outcome       Outcome   `json:"outcome"`
	You           *Viewer   `json:"you,omitempty"`
	ShareURL      string    `json:"share_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// MatchFromModel projects m for viewer. Roles of other members are hidden
// until the match is finished, except that werewolves see each other.
// Night targets are only shown to fellow werewolves; day votes are public.
func MatchFromModel(m *model.Match, viewer model.PlayerID, shareURL string) Match {
	self := m.GetMember(viewer)
	viewerIsWolf := self != nil && roles.TeamOf(self.Role) == model.TeamWerewolves
	finished := m.Status == model.MatchStatusFinished

	roster := m.Roster()
	players := make([]Member, 0, len(roster))
	for _, p := range roster {
		member := Member{
			PlayerID: string(p.PlayerID),
			Name:     p.Name,
			Seat:     p.Seat,
			IsAlive:  p.IsAlive,
			IsHost:   p.IsHost,
			IsReady:  p.IsReady,
			IsBot:    p.IsBot,
			LastSeen: p.LastSeen,
		}
		isWolf := p.Role != "" && roles.TeamOf(p.Role) == model.TeamWerewolves
		if p.PlayerID == viewer || finished || (viewerIsWolf && isWolf) {
			member.Role = string(p.Role)
		}

		switch m.State.Phase {
		case model.PhaseVoting:
			member.HasVoted = p.VotedFor != ""
			member.VotedFor = string(p.VotedFor)
		case model.PhaseNight:
			if p.PlayerID == viewer || (viewerIsWolf && isWolf) {
				member.VotedFor = string(p.VotedFor)
			}
		}
		players = append(players, member)
	}

	out := Match{
		Code:          string(m.Code),
		HostID:        string(m.HostID),
		Status:        string(m.Status),
		Phase:         string(m.State.Phase),
		Round:         m.State.Round,
		TimeRemaining: m.State.TimeRemaining,
		Settings:      SettingsFromModel(m.Settings),
		Players:       players,
		Outcome: Outcome{
			EliminatedPlayer: string(m.Outcome.EliminatedPlayer),
			LastNightResult:  string(m.Outcome.LastNightResult),
			VoteResult:       string(m.Outcome.VoteResult),
			WinningSide:      string(m.Outcome.WinningSide),
		},
		ShareURL:  shareURL,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if self != nil {
		out.You = viewerFromMember(m, self)
	}
	return out
}

func viewerFromMember(m *model.Match, self *model.Member) *Viewer {
	v := &Viewer{
		PlayerID: string(self.PlayerID),
		Voice:    voice.HintFor(m.State.Phase, self.Role, self.IsAlive),
	}
	if self.Role == "" {
		return v
	}

	v.Role = string(self.Role)
	v.Team = string(roles.TeamOf(self.Role))
	if def, ok := roles.Define(self.Role); ok {
		v.NightAction = string(def.NightAction)
	}
	if a := self.Action; a != nil && a.Round == m.State.Round {
		v.Action = &Action{Kind: string(a.Kind), Target: string(a.Target)}
	}
	if inv := self.LastInvestigation; inv != nil && inv.Round == m.State.Round {
		v.Investigation = &Investigation{
			TargetID:   string(inv.TargetID),
			TargetName: inv.TargetName,
			Team:       string(inv.Result),
		}
	}
	if vis := self.LastVision; vis != nil && vis.Round == m.State.Round {
		v.Vision = &Vision{
			TargetID:   string(vis.TargetID),
			TargetName: vis.TargetName,
			Role:       string(vis.Role),
		}
	}
	return v
}

// TimerSync is the periodic countdown snapshot
type TimerSync struct {
	Code          string `json:"code"`
	Phase         string `json:"phase"`
	Round         int    `json:"round"`
	TimeRemaining int    `json:"time_remaining"`
}

// TimerSyncFromModel converts the phase state of m
func TimerSyncFromModel(m *model.Match) TimerSync {
	return TimerSync{
		Code:          string(m.Code),
		Phase:         string(m.State.Phase),
		Round:         m.State.Round,
		TimeRemaining: m.State.TimeRemaining,
	}
}

// ChatMessage represents a chat message
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderName string    `json:"sender_name"`
	Content    string    `json:"content"`
	Type       string    `json:"type"`
	TargetID   string    `json:"target_id,omitempty"`
	TargetName string    `json:"target_name,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// ChatMessageFromModel converts model.ChatMessage
func ChatMessageFromModel(c *model.ChatMessage) ChatMessage {
	return ChatMessage{
		ID:         c.ID,
		SenderID:   string(c.SenderID),
		SenderName: c.SenderName,
		Content:    c.Content,
		Type:       string(c.Type),
		TargetID:   string(c.TargetID),
		TargetName: c.TargetName,
		Timestamp:  c.Timestamp,
	}
}

// ChatMessagesFromModel converts a chat log
func ChatMessagesFromModel(msgs []*model.ChatMessage) []ChatMessage {
	out := make([]ChatMessage, len(msgs))
	for i, msg := range msgs {
		out[i] = ChatMessageFromModel(msg)
	}
	return out
}

// Preset is the default role mix for a player count
type Preset struct {
	TotalPlayers int            `json:"total_players"`
	Roles        map[string]int `json:"roles"`
}

// PresetFromCounts converts a role count map
func PresetFromCounts(total int, counts map[model.RoleID]int) Preset {
	return Preset{TotalPlayers: total, Roles: roleCounts(counts)}
}

func roleCounts(counts map[model.RoleID]int) map[string]int {
	out := make(map[string]int, len(counts))
	for id, n := range counts {
		if n > 0 {
			out[string(id)] = n
		}
	}
	return out
}

// SortedRoleIDs returns the keys of a role count map in name order
func SortedRoleIDs(counts map[string]int) []string {
	ids := make([]string, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
