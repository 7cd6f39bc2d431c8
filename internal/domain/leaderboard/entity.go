// Package leaderboard содержит доменную модель рейтинга участников:
// композитный порядок (level desc, xp desc) и выборку топ-N.
package leaderboard

import (
	"sort"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
)

// DefaultLimit - размер лидерборда по умолчанию.
const DefaultLimit = 10

// MaxLimit - верхняя граница размера лидерборда.
const MaxLimit = 100

// Entry - одна строка лидерборда.
type Entry struct {
	// Rank - позиция в рейтинге (начиная с 1).
	Rank int

	// MemberID - идентификатор участника.
	MemberID member.MemberID

	// Level - уровень участника.
	Level member.Level

	// XP - очки опыта участника.
	XP member.XP
}

// Rank строит лидерборд из записей хранилища.
//
// Записи с level <= 0 исключаются: по инварианту домена такого быть не
// должно, фильтр защищает от повреждённых записей. Сортировка по
// композитному ключу (level desc, xp desc); порядок при полном равенстве
// ключа не специфицирован и наследует порядок перечисления хранилища.
// Возвращает первые limit записей; пустой срез, а не ошибку, когда
// подходящих участников нет.
func Rank(records []member.Record, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultLimit
	}

	qualified := make([]member.Record, 0, len(records))
	for _, rec := range records {
		if rec.Level > 0 {
			qualified = append(qualified, rec)
		}
	}

	sort.SliceStable(qualified, func(i, j int) bool {
		if qualified[i].Level != qualified[j].Level {
			return qualified[i].Level > qualified[j].Level
		}
		return qualified[i].XP > qualified[j].XP
	})

	if len(qualified) > limit {
		qualified = qualified[:limit]
	}

	entries := make([]Entry, 0, len(qualified))
	for i, rec := range qualified {
		entries = append(entries, Entry{
			Rank:     i + 1,
			MemberID: rec.ID,
			Level:    rec.Level,
			XP:       rec.XP,
		})
	}
	return entries
}

// PositionOf возвращает позицию участника (начиная с 1) среди всех записей
// по тому же композитному ключу и общее число участников рейтинга.
// Возвращает 0, если участника нет среди записей с level > 0.
func PositionOf(records []member.Record, id member.MemberID) (int, int) {
	full := Rank(records, len(records))
	for _, entry := range full {
		if entry.MemberID == id {
			return entry.Rank, len(full)
		}
	}
	return 0, len(full)
}
