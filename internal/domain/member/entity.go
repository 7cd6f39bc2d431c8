// Package member содержит доменную модель участника чата.
// Это ядро бизнес-логики - здесь нет внешних зависимостей.
package member

import (
	"fmt"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// MemberID представляет уникальный идентификатор участника.
// Присваивается платформой чата (Telegram user ID) и неизменен.
type MemberID int64

// IsValid проверяет, что MemberID положительный.
func (m MemberID) IsValid() bool {
	return m > 0
}

// String возвращает строковое представление идентификатора.
func (m MemberID) String() string {
	return fmt.Sprintf("%d", m)
}

// XP представляет очки опыта участника.
type XP int

// IsValid проверяет, что XP неотрицательный.
func (x XP) IsValid() bool {
	return x >= 0
}

// Add складывает XP.
func (x XP) Add(delta XP) XP {
	return x + delta
}

// Level представляет уровень участника, вычисляемый из XP.
// Уровень всегда >= 1 и никогда не убывает, кроме явного сброса.
type Level int

// IsValid проверяет, что уровень положительный.
func (l Level) IsValid() bool {
	return l >= 1
}

// ══════════════════════════════════════════════════════════════════════════════
// RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Значения по умолчанию для отсутствующей или повреждённой записи.
// Запись, которой нет в хранилище, читается как новая запись с этими полями.
const (
	DefaultXP       XP    = 0
	DefaultLevel    Level = 1
	DefaultMessages int   = 0
)

// Record представляет счётчики одного участника.
// Хранилище - единственный владелец данных: компоненты не кешируют Record
// между вызовами, каждое чтение и мутация проходят через хранилище.
type Record struct {
	// ID - идентификатор участника.
	ID MemberID

	// XP - накопленные очки опыта.
	XP XP

	// Level - текущий уровень (>= 1).
	Level Level

	// Messages - количество обработанных сообщений.
	Messages int
}

// NewRecord создаёт запись с значениями по умолчанию.
func NewRecord(id MemberID) Record {
	return Record{
		ID:       id,
		XP:       DefaultXP,
		Level:    DefaultLevel,
		Messages: DefaultMessages,
	}
}

// IsZero возвращает true, если запись совпадает с записью по умолчанию.
func (r Record) IsZero() bool {
	return r.XP == DefaultXP && r.Level == DefaultLevel && r.Messages == DefaultMessages
}
