package query

import (
	"context"
	"fmt"

	"github.com/aura-hub/aura-levels-bot/internal/domain/leaderboard"
	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// Получает топ-N участников по композитному ключу (level desc, xp desc).
// Полное сканирование хранилища и сортировка в памяти на каждый вызов:
// O(U log U) по числу участников, приемлемо для масштаба одного бота.
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery содержит параметры запроса лидерборда.
type GetLeaderboardQuery struct {
	// Limit - количество записей (по умолчанию 10, максимум 100).
	Limit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetLeaderboardQuery) Validate() error {
	if q.Limit < 0 {
		return shared.ErrInvalidLimit
	}
	if q.Limit == 0 {
		q.Limit = leaderboard.DefaultLimit
	}
	if q.Limit > leaderboard.MaxLimit {
		q.Limit = leaderboard.MaxLimit
	}
	return nil
}

// GetLeaderboardResult содержит результат запроса лидерборда.
type GetLeaderboardResult struct {
	// Entries - записи лидерборда, отсортированные по рангу.
	Entries []leaderboard.Entry `json:"entries"`

	// TotalMembers - общее количество участников рейтинга.
	TotalMembers int `json:"total_members"`
}

// GetLeaderboardHandler обрабатывает GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	repo member.Repository
}

// NewGetLeaderboardHandler создаёт новый GetLeaderboardHandler.
func NewGetLeaderboardHandler(repo member.Repository) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{repo: repo}
}

// Handle выполняет запрос лидерборда.
// Снимок не изолирован от конкурентных записей: рейтинг консультативный,
// слегка устаревшие значения допустимы.
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_leaderboard: validation failed: %w", err)
	}

	records, err := h.repo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: enumerate records: %w", err)
	}

	entries := leaderboard.Rank(records, q.Limit)

	total := 0
	for _, rec := range records {
		if rec.Level > 0 {
			total++
		}
	}

	return &GetLeaderboardResult{
		Entries:      entries,
		TotalMembers: total,
	}, nil
}
