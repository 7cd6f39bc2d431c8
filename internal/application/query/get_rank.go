// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
package query

import (
	"context"
	"fmt"

	"github.com/aura-hub/aura-levels-bot/internal/domain/leaderboard"
	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET RANK QUERY
// Получает прогресс участника: уровень, XP, порог следующего уровня,
// процент прогресса и позицию в рейтинге. Ключевой запрос команды /rank.
// ══════════════════════════════════════════════════════════════════════════════

// GetRankQuery содержит параметры запроса прогресса участника.
type GetRankQuery struct {
	// MemberID - идентификатор участника.
	MemberID member.MemberID

	// IncludePosition - вычислять ли позицию в общем рейтинге.
	// Требует полного перечисления записей, поэтому опционально.
	IncludePosition bool
}

// Validate проверяет корректность параметров запроса.
func (q *GetRankQuery) Validate() error {
	if !q.MemberID.IsValid() {
		return shared.ErrInvalidMemberID
	}
	return nil
}

// RankDTO - прогресс участника для слоя представления.
type RankDTO struct {
	// MemberID - идентификатор участника.
	MemberID member.MemberID `json:"member_id"`

	// Level - текущий уровень.
	Level int `json:"level"`

	// XP - текущее количество очков опыта.
	XP int `json:"xp"`

	// XPNeeded - порог XP для следующего уровня.
	XPNeeded int `json:"xp_needed"`

	// ProgressPercent - прогресс до следующего уровня, 0-100.
	ProgressPercent int `json:"progress_percent"`

	// Messages - количество отправленных сообщений.
	Messages int `json:"messages"`

	// Position - позиция в рейтинге (0, если не запрашивалась
	// или участник не в рейтинге).
	Position int `json:"position,omitempty"`

	// TotalMembers - общее количество участников рейтинга
	// (0, если позиция не запрашивалась).
	TotalMembers int `json:"total_members,omitempty"`
}

// GetRankHandler обрабатывает GetRankQuery.
type GetRankHandler struct {
	repo member.Repository
}

// NewGetRankHandler создаёт новый GetRankHandler.
func NewGetRankHandler(repo member.Repository) *GetRankHandler {
	return &GetRankHandler{repo: repo}
}

// Handle выполняет запрос прогресса участника.
func (h *GetRankHandler) Handle(ctx context.Context, q GetRankQuery) (*RankDTO, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_rank: validation failed: %w", err)
	}

	rec, err := h.repo.Get(ctx, q.MemberID)
	if err != nil {
		return nil, fmt.Errorf("get_rank: %w", err)
	}

	dto := &RankDTO{
		MemberID:        rec.ID,
		Level:           int(rec.Level),
		XP:              int(rec.XP),
		XPNeeded:        int(member.XPRequiredForLevel(rec.Level)),
		ProgressPercent: member.ProgressPercent(rec.XP, rec.Level),
		Messages:        rec.Messages,
	}

	if q.IncludePosition {
		records, err := h.repo.All(ctx)
		if err != nil {
			return nil, fmt.Errorf("get_rank: enumerate records: %w", err)
		}
		dto.Position, dto.TotalMembers = leaderboard.PositionOf(records, q.MemberID)
	}

	return dto, nil
}
