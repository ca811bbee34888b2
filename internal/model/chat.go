package model

import "time"

// MessageType distinguishes public chat from whispers
type MessageType string

const (
	MessagePublic  MessageType = "public"
	MessageWhisper MessageType = "whisper"
)

// MaxMessageLength bounds chat message content in characters
const MaxMessageLength = 500

// ChatMessage is stored once per match and filtered per viewer on read
type ChatMessage struct {
	ID         string
	SenderID   PlayerID
	SenderName string
	Content    string
	Type       MessageType
	TargetID   PlayerID
	TargetName string
	Timestamp  time.Time
}

// VisibleTo reports whether viewer may read the message.
// Whispers are visible to their sender and target only.
func (c *ChatMessage) VisibleTo(viewer PlayerID) bool {
	if c.Type != MessageWhisper {
		return true
	}
	return viewer != "" && (viewer == c.SenderID || viewer == c.TargetID)
}

// FilterVisible returns the messages viewer may read, in order
func FilterVisible(messages []*ChatMessage, viewer PlayerID) []*ChatMessage {
	visible := make([]*ChatMessage, 0, len(messages))
	for _, msg := range messages {
		if msg.VisibleTo(viewer) {
			visible = append(visible, msg)
		}
	}
	return visible
}
