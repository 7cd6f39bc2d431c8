package presenter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aura-hub/aura-levels-bot/internal/application/query"
	"github.com/aura-hub/aura-levels-bot/internal/domain/leaderboard"
	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
)

func TestProgressBar(t *testing.T) {
	assert.Equal(t, `\[░░░░░░░░░░\]`, ProgressBar(0))
	assert.Equal(t, `\[██░░░░░░░░\]`, ProgressBar(27))
	assert.Equal(t, `\[█████░░░░░\]`, ProgressBar(50))
	assert.Equal(t, `\[██████████\]`, ProgressBar(100))
}

func TestProgressBar_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, ProgressBar(0), ProgressBar(-20))
	assert.Equal(t, ProgressBar(100), ProgressBar(250))
}

func TestMention_EscapesDisplayName(t *testing.T) {
	got := Mention(42, "Ann_Lee (QA)")
	assert.Equal(t, `[Ann\_Lee \(QA\)](tg://user?id=42)`, got)
}

func TestFallbackName(t *testing.T) {
	assert.Equal(t, "User #42", FallbackName(42))
}

func TestRankCard(t *testing.T) {
	card := RankCard(Mention(42, "Ann"), &query.RankDTO{
		MemberID:        42,
		Level:           2,
		XP:              250,
		XPNeeded:        400,
		ProgressPercent: 62,
		Messages:        80,
	})

	assert.Contains(t, card, "*Level:* 2")
	assert.Contains(t, card, "*XP:* 250/400")
	assert.Contains(t, card, "62%")
	assert.Contains(t, card, "*Messages sent:* 80")
	assert.NotContains(t, card, "Position", "position line is omitted when not requested")
}

func TestRankCard_WithPosition(t *testing.T) {
	card := RankCard(Mention(42, "Ann"), &query.RankDTO{
		MemberID: 42, Level: 2, XP: 250, XPNeeded: 400,
		ProgressPercent: 62, Messages: 80,
		Position: 3, TotalMembers: 12,
	})

	assert.Contains(t, card, "*Position:* 3 of 12")
}

func TestLeaderboard_Empty(t *testing.T) {
	got := Leaderboard(nil, nil)
	assert.Equal(t, `No users on the leaderboard yet\. Start chatting\!`, got)
}

func TestLeaderboard_FallsBackForUnresolvedNames(t *testing.T) {
	entries := []leaderboard.Entry{
		{Rank: 1, MemberID: 1, Level: 3, XP: 950},
		{Rank: 2, MemberID: 2, Level: 2, XP: 400},
	}
	names := map[member.MemberID]string{
		1: Mention(1, "Ann"),
	}

	got := Leaderboard(entries, names)
	lines := strings.Split(strings.TrimSpace(got), "\n")

	assert.Contains(t, lines[len(lines)-2], "Ann")
	assert.Contains(t, lines[len(lines)-1], `User \#2`)
	assert.Contains(t, got, `1\.`)
	assert.Contains(t, got, "Level 3")
}

func TestLevelUp(t *testing.T) {
	got := LevelUp(Mention(42, "Ann"), 5)
	assert.Contains(t, got, "*Level 5*")
	assert.Contains(t, got, "[Ann](tg://user?id=42)")
}

func TestHistory_Empty(t *testing.T) {
	got := History(nil)
	assert.Equal(t, `No level\-ups recorded yet\.`, got)
}

func TestHistory(t *testing.T) {
	got := History([]member.LevelUp{
		{MemberID: 42, NewLevel: 3, XPAfter: 910},
	})
	assert.Contains(t, got, `User \#42`)
	assert.Contains(t, got, "Level 3")
}
