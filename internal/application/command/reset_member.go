package command

import (
	"context"
	"fmt"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
	"github.com/aura-hub/aura-levels-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RESET MEMBER COMMAND
// Administrative: sets xp=0, level=1, messages=0 regardless of prior state.
// ══════════════════════════════════════════════════════════════════════════════

// ResetMemberCommand contains the data to reset a member's counters.
type ResetMemberCommand struct {
	// MemberID is the member to reset.
	MemberID member.MemberID

	// RequestedBy is the admin issuing the reset, for the audit log line.
	RequestedBy member.MemberID
}

// Validate validates the command.
func (c ResetMemberCommand) Validate() error {
	if !c.MemberID.IsValid() {
		return shared.ErrInvalidMemberID
	}
	return nil
}

// ResetMemberHandler handles the ResetMemberCommand.
type ResetMemberHandler struct {
	repo member.Repository
	bus  shared.EventPublisher
	log  *logger.Logger
}

// NewResetMemberHandler creates a new ResetMemberHandler.
func NewResetMemberHandler(repo member.Repository, bus shared.EventPublisher, log *logger.Logger) *ResetMemberHandler {
	return &ResetMemberHandler{repo: repo, bus: bus, log: log}
}

// Handle executes the reset member command.
func (h *ResetMemberHandler) Handle(ctx context.Context, cmd ResetMemberCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("reset_member: validation failed: %w", err)
	}

	if err := h.repo.Reset(ctx, cmd.MemberID); err != nil {
		return fmt.Errorf("reset_member: %w", err)
	}

	_ = h.bus.Publish(shared.NewMemberResetEvent(int64(cmd.MemberID)))

	h.log.Info("member reset",
		logger.Int64("member_id", int64(cmd.MemberID)),
		logger.Int64("requested_by", int64(cmd.RequestedBy)))

	return nil
}
