package member

import (
	"context"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY CONTRACTS
// ══════════════════════════════════════════════════════════════════════════════

// Repository - контракт хранилища записей участников.
//
// Инкременты атомарны по каждому полю (increment-by-delta на стороне
// хранилища, не read-modify-write на стороне вызывающего). Транзакций
// между полями нет: messages, xp и level мутируются независимо, и при
// сбое между инкрементами поля могут временно разойтись. Это допустимо,
// потому что каждое поле участвует только в вычислениях на чтении, а
// следующее событие заново выполняет проверку уровня по текущему
// состоянию хранилища.
type Repository interface {
	// Get возвращает запись участника. Отсутствующая запись читается
	// как запись по умолчанию (xp=0, level=1, messages=0), не ошибка.
	Get(ctx context.Context, id MemberID) (Record, error)

	// All перечисляет все записи хранилища. Порядок не определён.
	All(ctx context.Context) ([]Record, error)

	// IncrementXP атомарно прибавляет delta к XP и возвращает новое значение.
	IncrementXP(ctx context.Context, id MemberID, delta XP) (XP, error)

	// IncrementMessages атомарно прибавляет delta к счётчику сообщений
	// и возвращает новое значение.
	IncrementMessages(ctx context.Context, id MemberID, delta int) (int, error)

	// SetLevel устанавливает уровень участника.
	SetLevel(ctx context.Context, id MemberID, level Level) error

	// InitIfAbsent создаёт запись по умолчанию, если её ещё нет.
	// Возвращает true, если запись была создана этим вызовом.
	InitIfAbsent(ctx context.Context, id MemberID) (bool, error)

	// Reset сбрасывает счётчики к значениям по умолчанию независимо
	// от прежнего состояния.
	Reset(ctx context.Context, id MemberID) error

	// Delete удаляет запись. Последующее чтение возвращает значения
	// по умолчанию, не устаревшие данные.
	Delete(ctx context.Context, id MemberID) error
}

// ══════════════════════════════════════════════════════════════════════════════
// LEVEL-UP HISTORY
// ══════════════════════════════════════════════════════════════════════════════

// LevelUp - одна запись истории повышений уровня.
type LevelUp struct {
	// MemberID - участник, повысивший уровень.
	MemberID MemberID

	// NewLevel - уровень после повышения.
	NewLevel Level

	// XPAfter - XP после начисления бонуса.
	XPAfter XP

	// OccurredAt - момент повышения.
	OccurredAt time.Time
}

// HistoryRepository - опциональное хранилище истории повышений.
// Пишется обработчиком события member.leveled_up; чтение используется
// командой /history.
type HistoryRepository interface {
	// Save добавляет запись в историю (append-only).
	Save(ctx context.Context, levelUp LevelUp) error

	// Recent возвращает последние limit записей, от новых к старым.
	Recent(ctx context.Context, limit int) ([]LevelUp, error)
}
