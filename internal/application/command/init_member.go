package command

import (
	"context"
	"fmt"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// INIT MEMBER COMMAND
// Seeds a default record on /start. Idempotent: an existing record is
// never touched, only absent fields are created.
// ══════════════════════════════════════════════════════════════════════════════

// InitMemberCommand contains the data to initialize a member record.
type InitMemberCommand struct {
	// MemberID is the member to initialize.
	MemberID member.MemberID
}

// Validate validates the command.
func (c InitMemberCommand) Validate() error {
	if !c.MemberID.IsValid() {
		return shared.ErrInvalidMemberID
	}
	return nil
}

// InitMemberResult contains the result of the initialization.
type InitMemberResult struct {
	// Created is true when the record did not exist before this call.
	Created bool
}

// InitMemberHandler handles the InitMemberCommand.
type InitMemberHandler struct {
	repo member.Repository
}

// NewInitMemberHandler creates a new InitMemberHandler.
func NewInitMemberHandler(repo member.Repository) *InitMemberHandler {
	return &InitMemberHandler{repo: repo}
}

// Handle executes the init member command.
func (h *InitMemberHandler) Handle(ctx context.Context, cmd InitMemberCommand) (*InitMemberResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("init_member: validation failed: %w", err)
	}

	created, err := h.repo.InitIfAbsent(ctx, cmd.MemberID)
	if err != nil {
		return nil, fmt.Errorf("init_member: %w", err)
	}

	return &InitMemberResult{Created: created}, nil
}
