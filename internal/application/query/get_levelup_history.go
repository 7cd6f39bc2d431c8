package query

import (
	"context"
	"fmt"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEVEL-UP HISTORY QUERY
// Получает последние повышения уровня из опционального хранилища истории.
// Доступен только когда настроена база истории (DATABASE_URL).
// ══════════════════════════════════════════════════════════════════════════════

// DefaultHistoryLimit - количество записей истории по умолчанию.
const DefaultHistoryLimit = 10

// GetLevelUpHistoryQuery содержит параметры запроса истории.
type GetLevelUpHistoryQuery struct {
	// Limit - количество записей (по умолчанию 10, максимум 50).
	Limit int
}

// Validate проверяет корректность параметров запроса.
func (q *GetLevelUpHistoryQuery) Validate() error {
	if q.Limit < 0 {
		return shared.ErrInvalidLimit
	}
	if q.Limit == 0 {
		q.Limit = DefaultHistoryLimit
	}
	if q.Limit > 50 {
		q.Limit = 50
	}
	return nil
}

// GetLevelUpHistoryHandler обрабатывает GetLevelUpHistoryQuery.
type GetLevelUpHistoryHandler struct {
	history member.HistoryRepository
}

// NewGetLevelUpHistoryHandler создаёт новый GetLevelUpHistoryHandler.
func NewGetLevelUpHistoryHandler(history member.HistoryRepository) *GetLevelUpHistoryHandler {
	return &GetLevelUpHistoryHandler{history: history}
}

// Handle выполняет запрос истории повышений.
func (h *GetLevelUpHistoryHandler) Handle(ctx context.Context, q GetLevelUpHistoryQuery) ([]member.LevelUp, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("get_levelup_history: validation failed: %w", err)
	}

	levelUps, err := h.history.Recent(ctx, q.Limit)
	if err != nil {
		return nil, fmt.Errorf("get_levelup_history: %w", err)
	}

	return levelUps, nil
}
