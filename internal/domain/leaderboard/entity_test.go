package leaderboard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
)

func records() []member.Record {
	return []member.Record{
		{ID: 1, XP: 120, Level: 2, Messages: 40},
		{ID: 2, XP: 950, Level: 3, Messages: 300},
		{ID: 3, XP: 10, Level: 1, Messages: 5},
		{ID: 4, XP: 400, Level: 2, Messages: 90},
		{ID: 5, XP: 0, Level: 1, Messages: 0},
	}
}

func TestRank_Ordering(t *testing.T) {
	entries := Rank(records(), 10)

	assert.Len(t, entries, 5)
	for i := 1; i < len(entries); i++ {
		prev, cur := entries[i-1], entries[i]
		betterLevel := prev.Level > cur.Level
		sameLevelBetterXP := prev.Level == cur.Level && prev.XP >= cur.XP
		assert.True(t, betterLevel || sameLevelBetterXP,
			"entry %d must not outrank entry %d", i, i-1)
	}

	assert.Equal(t, member.MemberID(2), entries[0].MemberID)
	assert.Equal(t, member.MemberID(4), entries[1].MemberID)
	assert.Equal(t, member.MemberID(1), entries[2].MemberID)
}

func TestRank_PositionsAreOneBased(t *testing.T) {
	entries := Rank(records(), 10)
	for i, entry := range entries {
		assert.Equal(t, i+1, entry.Rank)
	}
}

func TestRank_RespectsLimit(t *testing.T) {
	entries := Rank(records(), 2)
	assert.Len(t, entries, 2)
	assert.Equal(t, member.MemberID(2), entries[0].MemberID)
}

func TestRank_DefaultLimit(t *testing.T) {
	many := make([]member.Record, 0, 15)
	for i := 1; i <= 15; i++ {
		many = append(many, member.Record{ID: member.MemberID(i), XP: member.XP(i), Level: 1})
	}

	entries := Rank(many, 0)
	assert.Len(t, entries, DefaultLimit)
}

func TestRank_ExcludesNonPositiveLevels(t *testing.T) {
	corrupted := append(records(), member.Record{ID: 6, XP: 9999, Level: 0})

	entries := Rank(corrupted, 10)
	assert.Len(t, entries, 5)
	for _, entry := range entries {
		assert.NotEqual(t, member.MemberID(6), entry.MemberID)
	}
}

func TestRank_EmptyInput(t *testing.T) {
	entries := Rank(nil, 10)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestPositionOf(t *testing.T) {
	position, total := PositionOf(records(), 4)
	assert.Equal(t, 2, position)
	assert.Equal(t, 5, total)

	position, total = PositionOf(records(), 99)
	assert.Equal(t, 0, position)
	assert.Equal(t, 5, total)
}
