// Package shared contains common domain types, errors and events used
// across all domain packages.
package shared

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// EventType represents the type of domain event.
type EventType string

// Domain event types. Each event represents something significant that
// happened in the domain.
const (
	// Member events
	EventMemberInitialized EventType = "member.initialized"
	EventMemberLeveledUp   EventType = "member.leveled_up"
	EventMemberReset       EventType = "member.reset"
	EventMemberDeleted     EventType = "member.deleted"
)

// Event is the base interface for all domain events.
type Event interface {
	// EventID returns the unique identifier of this event instance.
	EventID() string

	// EventType returns the type of the event.
	EventType() EventType

	// OccurredAt returns when the event occurred.
	OccurredAt() time.Time

	// AggregateID returns the ID of the aggregate that produced this event.
	AggregateID() string

	// Payload returns the event data as a map for serialization.
	Payload() map[string]interface{}
}

// BaseEvent provides common event functionality.
type BaseEvent struct {
	ID          string    `json:"id"`
	Type        EventType `json:"type"`
	Timestamp   time.Time `json:"timestamp"`
	AggregateId string    `json:"aggregate_id"`
	Version     int       `json:"version"`
}

// EventID implements Event interface.
func (e BaseEvent) EventID() string {
	return e.ID
}

// EventType implements Event interface.
func (e BaseEvent) EventType() EventType {
	return e.Type
}

// OccurredAt implements Event interface.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID implements Event interface.
func (e BaseEvent) AggregateID() string {
	return e.AggregateId
}

// NewBaseEvent creates a new base event.
func NewBaseEvent(eventType EventType, aggregateID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		AggregateId: aggregateID,
		Version:     1,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Member Events
// ═══════════════════════════════════════════════════════════════════════════

// MemberLeveledUpEvent is emitted when a member crosses a level threshold.
type MemberLeveledUpEvent struct {
	BaseEvent
	MemberID int64 `json:"member_id"`
	ChatID   int64 `json:"chat_id"`
	NewLevel int   `json:"new_level"`
	XPAfter  int   `json:"xp_after"`
}

// Payload implements Event interface.
func (e MemberLeveledUpEvent) Payload() map[string]interface{} {
	return map[string]interface{}{
		"member_id": e.MemberID,
		"chat_id":   e.ChatID,
		"new_level": e.NewLevel,
		"xp_after":  e.XPAfter,
	}
}

// NewMemberLeveledUpEvent creates a new MemberLeveledUpEvent.
func NewMemberLeveledUpEvent(memberID, chatID int64, newLevel, xpAfter int) MemberLeveledUpEvent {
	return MemberLeveledUpEvent{
		BaseEvent: NewBaseEvent(EventMemberLeveledUp, fmt.Sprintf("%d", memberID)),
		MemberID:  memberID,
		ChatID:    chatID,
		NewLevel:  newLevel,
		XPAfter:   xpAfter,
	}
}

// MemberResetEvent is emitted when a member's counters are reset by an admin.
type MemberResetEvent struct {
	BaseEvent
	MemberID int64 `json:"member_id"`
}

// Payload implements Event interface.
func (e MemberResetEvent) Payload() map[string]interface{} {
	return map[string]interface{}{"member_id": e.MemberID}
}

// NewMemberResetEvent creates a new MemberResetEvent.
func NewMemberResetEvent(memberID int64) MemberResetEvent {
	return MemberResetEvent{
		BaseEvent: NewBaseEvent(EventMemberReset, fmt.Sprintf("%d", memberID)),
		MemberID:  memberID,
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Event Bus Contracts
// ═══════════════════════════════════════════════════════════════════════════

// EventHandler is a function that handles an event.
type EventHandler func(event Event) error

// EventPublisher defines the interface for publishing events.
type EventPublisher interface {
	// Publish delivers the event to all subscribed handlers.
	Publish(event Event) error
}

// EventSubscriber defines the interface for subscribing to events.
type EventSubscriber interface {
	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType EventType, handler EventHandler) error
}

// EventBus combines publishing and subscribing.
type EventBus interface {
	EventPublisher
	EventSubscriber
}
