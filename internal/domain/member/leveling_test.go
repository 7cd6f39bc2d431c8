package member

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPRequiredForLevel_QuadraticGrowth(t *testing.T) {
	assert.Equal(t, XP(100), XPRequiredForLevel(1))
	assert.Equal(t, XP(400), XPRequiredForLevel(2))
	assert.Equal(t, XP(900), XPRequiredForLevel(3))
	assert.Equal(t, XP(1000000), XPRequiredForLevel(100))
}

func TestXPRequiredForLevel_StrictlyIncreasing(t *testing.T) {
	for level := Level(1); level < 50; level++ {
		assert.Less(t, XPRequiredForLevel(level), XPRequiredForLevel(level+1))
	}
}

func TestXPRequiredForLevel_InvalidLevel(t *testing.T) {
	assert.Equal(t, XP(0), XPRequiredForLevel(0))
	assert.Equal(t, XP(0), XPRequiredForLevel(-3))
}

func TestXPGainForMessage_Range(t *testing.T) {
	seen := make(map[XP]bool)
	for messageID := 1; messageID <= 300; messageID++ {
		gain := XPGainForMessage(MemberID(42), messageID)
		assert.GreaterOrEqual(t, gain, XP(1))
		assert.LessOrEqual(t, gain, XP(3))
		seen[gain] = true
	}
	// The mix must actually vary the award, not return a constant.
	assert.GreaterOrEqual(t, len(seen), 2)
}

func TestXPGainForMessage_Deterministic(t *testing.T) {
	first := XPGainForMessage(MemberID(7), 1234)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, XPGainForMessage(MemberID(7), 1234))
	}

	// Different members hashing the same message ID are independent seeds.
	other := XPGainForMessage(MemberID(8), 1234)
	assert.GreaterOrEqual(t, other, XP(1))
	assert.LessOrEqual(t, other, XP(3))
}

func TestCheckLevelUp_AtThreshold(t *testing.T) {
	newLevel, leveledUp := CheckLevelUp(100, 1)
	assert.True(t, leveledUp)
	assert.Equal(t, Level(2), newLevel)
}

func TestCheckLevelUp_BelowThreshold(t *testing.T) {
	newLevel, leveledUp := CheckLevelUp(99, 1)
	assert.False(t, leveledUp)
	assert.Equal(t, Level(1), newLevel)
}

func TestCheckLevelUp_SingleStepOnly(t *testing.T) {
	// 500 XP exceeds the level-2 threshold of 400 as well, but one event
	// advances at most one level.
	newLevel, leveledUp := CheckLevelUp(500, 1)
	assert.True(t, leveledUp)
	assert.Equal(t, Level(2), newLevel)
}

func TestLevelUpBonus(t *testing.T) {
	assert.Equal(t, XP(10), LevelUpBonus())
}

func TestProgressPercent(t *testing.T) {
	assert.Equal(t, 50, ProgressPercent(50, 1))
	assert.Equal(t, 0, ProgressPercent(0, 1))
	assert.Equal(t, 100, ProgressPercent(1000, 1), "progress is capped at 100")
	assert.Equal(t, 27, ProgressPercent(250, 3), "floor of 250/900")
}

func TestProgressPercent_ZeroThresholdGuard(t *testing.T) {
	assert.Equal(t, 0, ProgressPercent(50, 0))
	assert.Equal(t, 0, ProgressPercent(50, -1))
}
