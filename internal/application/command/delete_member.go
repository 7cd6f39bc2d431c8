package command

import (
	"context"
	"fmt"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
	"github.com/aura-hub/aura-levels-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// DELETE MEMBER COMMAND
// Administrative: removes the record entirely. A subsequent read returns
// default values, not stale ones.
// ══════════════════════════════════════════════════════════════════════════════

// DeleteMemberCommand contains the data to delete a member record.
type DeleteMemberCommand struct {
	// MemberID is the member to delete.
	MemberID member.MemberID

	// RequestedBy is the admin issuing the deletion.
	RequestedBy member.MemberID
}

// Validate validates the command.
func (c DeleteMemberCommand) Validate() error {
	if !c.MemberID.IsValid() {
		return shared.ErrInvalidMemberID
	}
	return nil
}

// DeleteMemberHandler handles the DeleteMemberCommand.
type DeleteMemberHandler struct {
	repo member.Repository
	log  *logger.Logger
}

// NewDeleteMemberHandler creates a new DeleteMemberHandler.
func NewDeleteMemberHandler(repo member.Repository, log *logger.Logger) *DeleteMemberHandler {
	return &DeleteMemberHandler{repo: repo, log: log}
}

// Handle executes the delete member command.
func (h *DeleteMemberHandler) Handle(ctx context.Context, cmd DeleteMemberCommand) error {
	if err := cmd.Validate(); err != nil {
		return fmt.Errorf("delete_member: validation failed: %w", err)
	}

	if err := h.repo.Delete(ctx, cmd.MemberID); err != nil {
		return fmt.Errorf("delete_member: %w", err)
	}

	h.log.Info("member deleted",
		logger.Int64("member_id", int64(cmd.MemberID)),
		logger.Int64("requested_by", int64(cmd.RequestedBy)))

	return nil
}
