package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/mcoot/werewolf-go/internal/api/response"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case response.Player:
		o.printPlayer(v)
	case response.AuthResponse:
		o.printAuthResult(v)
	case response.Match:
		o.printMatch(v)
	case []response.ChatMessage:
		o.printMessages(v)
	case response.ChatMessage:
		o.printMessages([]response.ChatMessage{v})
	case []response.Role:
		o.printRoles(v)
	case response.Preset:
		o.printPreset(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p response.Player) {
	fmt.Printf("Player: %s (%s)\n", p.DisplayName, p.ID)
}

func (o *Output) printAuthResult(a response.AuthResponse) {
	o.printPlayer(a.Player)
	fmt.Printf("Token: %s\n", a.SessionToken)
}

func (o *Output) printMatch(m response.Match) {
	fmt.Printf("Match: %s\n", m.Code)
	fmt.Printf("Status: %s\n", m.Status)
	if m.Status == "playing" {
		fmt.Printf("Phase: %s (round %d, %ds left)\n", m.Phase, m.Round, m.TimeRemaining)
	}
	if m.ShareURL != "" {
		fmt.Printf("Share: %s\n", m.ShareURL)
	}

	fmt.Printf("Roles: %s\n", formatRoleCounts(m.Settings.Roles))
	fmt.Printf("Players (%d/%d):\n", len(m.Players), m.Settings.TotalPlayers)
	for _, p := range m.Players {
		var tags []string
		if p.IsHost {
			tags = append(tags, "host")
		}
		if p.IsBot {
			tags = append(tags, "bot")
		}
		if m.Status == "waiting" && p.IsReady {
			tags = append(tags, "ready")
		}
		if m.Status != "waiting" && !p.IsAlive {
			tags = append(tags, "dead")
		}
		if p.Role != "" {
			tags = append(tags, p.Role)
		}
		if p.VotedFor != "" {
			tags = append(tags, "-> "+p.VotedFor)
		}

		line := fmt.Sprintf("  %d. %s (%s)", p.Seat+1, p.Name, p.PlayerID)
		if len(tags) > 0 {
			line += " [" + strings.Join(tags, ", ") + "]"
		}
		fmt.Println(line)
	}

	if out := m.Outcome; out.LastNightResult != "" || out.VoteResult != "" {
		fmt.Println("\nLast results:")
		if out.LastNightResult != "" {
			fmt.Printf("  Night: %s\n", out.LastNightResult)
		}
		if out.VoteResult != "" {
			fmt.Printf("  Vote: %s\n", out.VoteResult)
		}
		if out.EliminatedPlayer != "" {
			fmt.Printf("  Eliminated: %s\n", out.EliminatedPlayer)
		}
	}
	if m.Outcome.WinningSide != "" {
		fmt.Printf("\nWinner: %s\n", m.Outcome.WinningSide)
	}

	if you := m.You; you != nil && you.Role != "" {
		fmt.Printf("\nYou are a %s (%s)\n", you.Role, you.Team)
		if you.Action != nil {
			fmt.Printf("Tonight you chose to %s %s\n", you.Action.Kind, you.Action.Target)
		}
		if inv := you.Investigation; inv != nil {
			fmt.Printf("Investigation: %s is with the %s\n", inv.TargetName, inv.Team)
		}
		if vis := you.Vision; vis != nil {
			fmt.Printf("Vision: %s is a %s\n", vis.TargetName, vis.Role)
		}
	}
}

func (o *Output) printMessages(msgs []response.ChatMessage) {
	if len(msgs) == 0 {
		fmt.Println("No messages")
		return
	}
	for _, msg := range msgs {
		timestamp := msg.Timestamp.Format("15:04:05")
		if msg.Type == "whisper" {
			fmt.Printf("[%s] %s -> %s (whisper): %s\n", timestamp, msg.SenderName, msg.TargetName, msg.Content)
			continue
		}
		fmt.Printf("[%s] %s: %s\n", timestamp, msg.SenderName, msg.Content)
	}
}

func (o *Output) printRoles(roles []response.Role) {
	for _, r := range roles {
		action := r.NightAction
		if action == "" || action == "none" {
			action = "-"
		}
		fmt.Printf("%-10s %-10s night: %-12s %d-%d  %s\n", r.ID, r.Team, action, r.MinCount, r.MaxCount, r.Description)
	}
}

func (o *Output) printPreset(p response.Preset) {
	fmt.Printf("%d players: %s\n", p.TotalPlayers, formatRoleCounts(p.Roles))
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}

func formatRoleCounts(counts map[string]int) string {
	parts := make([]string, 0, len(counts))
	for _, id := range response.SortedRoleIDs(counts) {
		parts = append(parts, fmt.Sprintf("%s=%d", id, counts[id]))
	}
	return strings.Join(parts, ", ")
}
