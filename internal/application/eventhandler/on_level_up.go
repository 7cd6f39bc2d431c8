// Package eventhandler contains reactions to domain events.
// Handlers are side-effect only: they never mutate member counters.
package eventhandler

import (
	"context"
	"time"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
	"github.com/aura-hub/aura-levels-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ON LEVEL UP
// Reacts to member.leveled_up: announces the level-up in the originating
// chat and, when history is enabled, appends it to the level-up history.
// Both effects are best-effort; a failed side effect never propagates
// back into message processing.
// ══════════════════════════════════════════════════════════════════════════════

// Announcer renders a level-up notification to the chat platform.
// Implemented by the Telegram interface layer.
type Announcer interface {
	AnnounceLevelUp(ctx context.Context, chatID int64, memberID member.MemberID, newLevel member.Level) error
}

// OnLevelUp handles member.leveled_up events.
type OnLevelUp struct {
	announcer Announcer
	history   member.HistoryRepository // nil when history is disabled
	log       *logger.Logger
	timeout   time.Duration
}

// NewOnLevelUp creates a new OnLevelUp handler.
// history may be nil; announcements still work without it.
func NewOnLevelUp(announcer Announcer, history member.HistoryRepository, log *logger.Logger) *OnLevelUp {
	return &OnLevelUp{
		announcer: announcer,
		history:   history,
		log:       log,
		timeout:   10 * time.Second,
	}
}

// Handle implements shared.EventHandler.
func (h *OnLevelUp) Handle(event shared.Event) error {
	levelUp, ok := event.(shared.MemberLeveledUpEvent)
	if !ok {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	if err := h.announcer.AnnounceLevelUp(ctx, levelUp.ChatID, member.MemberID(levelUp.MemberID), member.Level(levelUp.NewLevel)); err != nil {
		h.log.Warn("level-up announcement failed",
			logger.String("event_id", event.EventID()),
			logger.Int64("member_id", levelUp.MemberID),
			logger.Err(err))
	}

	if h.history == nil {
		return nil
	}

	record := member.LevelUp{
		MemberID:   member.MemberID(levelUp.MemberID),
		NewLevel:   member.Level(levelUp.NewLevel),
		XPAfter:    member.XP(levelUp.XPAfter),
		OccurredAt: event.OccurredAt(),
	}
	if err := h.history.Save(ctx, record); err != nil {
		h.log.Warn("level-up history write failed",
			logger.String("event_id", event.EventID()),
			logger.Int64("member_id", levelUp.MemberID),
			logger.Err(err))
	}

	return nil
}
