package member

import (
	"fmt"
	"hash/fnv"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEVELING ENGINE
// Чистые функции без побочных эффектов: пороги уровней, начисление XP за
// сообщение, бонус за повышение уровня, прогресс до следующего уровня.
// ══════════════════════════════════════════════════════════════════════════════

const (
	// baseXPPerLevel - константа квадратичной формулы порога.
	// Рост умышленно квадратичный, а не линейный: поздние уровни
	// требуют непропорционально больше сообщений.
	baseXPPerLevel = 100

	// levelUpBonusXP - фиксированный бонус, начисляемый в момент
	// повышения уровня поверх XP самого сообщения.
	levelUpBonusXP = 10

	// minMessageXP и maxMessageXP ограничивают награду за одно сообщение.
	minMessageXP = 1
	maxMessageXP = 3
)

// XPRequiredForLevel возвращает порог XP для перехода с уровня level
// на level+1. Формула: 100 * level². Константа и степень фиксированы,
// чтобы семантика лидерборда воспроизводилась между реализациями.
func XPRequiredForLevel(level Level) XP {
	if level < 1 {
		return 0
	}
	return XP(baseXPPerLevel * int(level) * int(level))
}

// XPGainForMessage возвращает детерминированную псевдослучайную награду
// в диапазоне [1,3] за одно сообщение.
//
// Смешивание явное и документированное: FNV-1a 64 поверх строки
// "<memberID>:<messageID>". Один и тот же идентификатор сообщения всегда
// даёт одну и ту же награду, поэтому повторная обработка сообщения
// (доставка at-least-once) идемпотентна по величине награды. Результат
// не зависит от времени и от хеш-функций языка.
func XPGainForMessage(memberID MemberID, messageID int) XP {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d:%d", memberID, messageID)
	return XP(minMessageXP + int(h.Sum64()%uint64(maxMessageXP-minMessageXP+1)))
}

// LevelUpBonus возвращает фиксированный бонус XP за повышение уровня.
func LevelUpBonus() XP {
	return levelUpBonusXP
}

// CheckLevelUp проверяет, достигнут ли порог текущего уровня.
// Возвращает новый уровень и признак повышения.
//
// За одно событие уровень повышается максимум на один шаг, даже если XP
// пересекает сразу несколько порогов. Это политика оригинального дизайна;
// следующее обработанное сообщение применит отложенное повышение.
func CheckLevelUp(currentXP XP, currentLevel Level) (Level, bool) {
	if currentXP >= XPRequiredForLevel(currentLevel) {
		return currentLevel + 1, true
	}
	return currentLevel, false
}

// ProgressPercent возвращает прогресс до следующего уровня в процентах,
// ограниченный диапазоном [0,100]. При нулевом пороге возвращает 0.
func ProgressPercent(xp XP, level Level) int {
	needed := XPRequiredForLevel(level)
	if needed <= 0 {
		return 0
	}
	progress := int(100 * xp / needed)
	if progress > 100 {
		return 100
	}
	if progress < 0 {
		return 0
	}
	return progress
}
