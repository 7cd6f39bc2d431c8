package redis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
)

func TestMemberKey(t *testing.T) {
	assert.Equal(t, "member:42", memberKey(42))
}

func TestRecordFromFields(t *testing.T) {
	rec := recordFromFields(42, map[string]string{
		"xp":       "250",
		"level":    "2",
		"messages": "80",
	})

	assert.Equal(t, member.MemberID(42), rec.ID)
	assert.Equal(t, member.XP(250), rec.XP)
	assert.Equal(t, member.Level(2), rec.Level)
	assert.Equal(t, 80, rec.Messages)
}

func TestRecordFromFields_EmptyHashReadsAsDefaults(t *testing.T) {
	rec := recordFromFields(42, map[string]string{})

	assert.Equal(t, member.DefaultXP, rec.XP)
	assert.Equal(t, member.DefaultLevel, rec.Level)
	assert.Equal(t, member.DefaultMessages, rec.Messages)
}

func TestRecordFromFields_MalformedFieldsFallBackPerField(t *testing.T) {
	rec := recordFromFields(42, map[string]string{
		"xp":       "not-a-number",
		"level":    "3",
		"messages": "",
	})

	assert.Equal(t, member.DefaultXP, rec.XP)
	assert.Equal(t, member.Level(3), rec.Level, "valid fields survive a malformed sibling")
	assert.Equal(t, member.DefaultMessages, rec.Messages)
}

func TestRecordFromFields_KeepsNumericValuesVerbatim(t *testing.T) {
	// Negative levels are preserved here so the leaderboard can apply its
	// own corrupted-record filter on read.
	rec := recordFromFields(42, map[string]string{"level": "-1"})
	assert.Equal(t, member.Level(-1), rec.Level)
}
