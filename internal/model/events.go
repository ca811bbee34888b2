package model

// EventType names a push notification sent to match subscribers
type EventType string

const (
	EventMatchUpdate  EventType = "match-update"
	EventTimerSync    EventType = "timer-sync"
	EventChatMessage  EventType = "chat-message"
	EventMatchDeleted EventType = "match-deleted"
)
