// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"fmt"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
	"github.com/aura-hub/aura-levels-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROCESS MESSAGE COMMAND
// Converts one inbound "member sent a message" event into store mutations
// and, on a level threshold crossing, a member.leveled_up event.
// ══════════════════════════════════════════════════════════════════════════════

// ProcessMessageCommand contains the data of one inbound message event.
type ProcessMessageCommand struct {
	// MemberID is the sender's ID.
	MemberID member.MemberID

	// ChatID is the chat the message was sent in. Carried through to the
	// level-up event so the announcement lands in the right chat.
	ChatID int64

	// MessageID is the platform-assigned message ID. Together with
	// MemberID it seeds the deterministic XP award.
	MessageID int

	// FromChannelAlias is true when the message was sent on behalf of a
	// channel rather than a person.
	FromChannelAlias bool

	// Edited is true when the event is an edit of a prior message.
	Edited bool
}

// Validate validates the command.
func (c ProcessMessageCommand) Validate() error {
	if !c.MemberID.IsValid() {
		return shared.ErrInvalidMemberID
	}
	if c.MessageID <= 0 {
		return shared.NewDomainError("member", "ProcessMessage", shared.ErrInvalidInput, "message ID must be positive")
	}
	return nil
}

// ProcessMessageResult contains the result of processing one message event.
type ProcessMessageResult struct {
	// Processed is false when the event was discarded (channel alias or
	// edited message). Discarded events mutate nothing.
	Processed bool

	// XPGained is the XP awarded for the message itself (1-3).
	XPGained member.XP

	// LeveledUp indicates a level threshold was crossed by this event.
	LeveledUp bool

	// Level is the member's level after processing.
	Level member.Level

	// XP is the member's XP after processing, including the level-up
	// bonus when one was awarded.
	XP member.XP

	// Messages is the member's message count after processing.
	Messages int
}

// ProcessMessageHandler handles the ProcessMessageCommand.
type ProcessMessageHandler struct {
	repo member.Repository
	bus  shared.EventPublisher
	log  *logger.Logger
}

// NewProcessMessageHandler creates a new ProcessMessageHandler.
func NewProcessMessageHandler(repo member.Repository, bus shared.EventPublisher, log *logger.Logger) *ProcessMessageHandler {
	return &ProcessMessageHandler{
		repo: repo,
		bus:  bus,
		log:  log,
	}
}

// Handle executes the process message command.
//
// The mutation order mirrors the read-time semantics: increment messages,
// award message XP, then re-read current state and run the level check.
// There is no cross-field transaction; a crash between increments leaves
// counters transiently diverged and the next event reconciles the level
// from current stored state.
func (h *ProcessMessageHandler) Handle(ctx context.Context, cmd ProcessMessageCommand) (*ProcessMessageResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("process_message: validation failed: %w", err)
	}

	// Messages sent on behalf of a channel, or edits of prior messages,
	// never award XP. State before == state after.
	if cmd.FromChannelAlias || cmd.Edited {
		return &ProcessMessageResult{Processed: false}, nil
	}

	messages, err := h.repo.IncrementMessages(ctx, cmd.MemberID, 1)
	if err != nil {
		return nil, fmt.Errorf("process_message: increment messages: %w", err)
	}

	gain := member.XPGainForMessage(cmd.MemberID, cmd.MessageID)
	if _, err := h.repo.IncrementXP(ctx, cmd.MemberID, gain); err != nil {
		return nil, fmt.Errorf("process_message: increment xp: %w", err)
	}

	// Read back through the store; the store is the sole authority and
	// concurrent workers may have advanced the counters in between.
	rec, err := h.repo.Get(ctx, cmd.MemberID)
	if err != nil {
		return nil, fmt.Errorf("process_message: read record: %w", err)
	}

	result := &ProcessMessageResult{
		Processed: true,
		XPGained:  gain,
		Level:     rec.Level,
		XP:        rec.XP,
		Messages:  messages,
	}

	newLevel, leveledUp := member.CheckLevelUp(rec.XP, rec.Level)
	if !leveledUp {
		return result, nil
	}

	if err := h.repo.SetLevel(ctx, cmd.MemberID, newLevel); err != nil {
		return nil, fmt.Errorf("process_message: set level: %w", err)
	}

	xpAfter, err := h.repo.IncrementXP(ctx, cmd.MemberID, member.LevelUpBonus())
	if err != nil {
		return nil, fmt.Errorf("process_message: award level-up bonus: %w", err)
	}

	result.LeveledUp = true
	result.Level = newLevel
	result.XP = xpAfter

	event := shared.NewMemberLeveledUpEvent(int64(cmd.MemberID), cmd.ChatID, int(newLevel), int(xpAfter))
	if err := h.bus.Publish(event); err != nil {
		// The mutation already succeeded; a lost notification must not
		// fail the event.
		h.log.Warn("level-up event publish failed",
			logger.Int64("member_id", int64(cmd.MemberID)),
			logger.Err(err))
	}

	h.log.Info("member leveled up",
		logger.Int64("member_id", int64(cmd.MemberID)),
		logger.Int("new_level", int(newLevel)),
		logger.Int("xp", int(xpAfter)))

	return result, nil
}
