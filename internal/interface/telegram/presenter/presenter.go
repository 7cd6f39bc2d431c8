// Package presenter renders query results into Telegram MarkdownV2 text.
// Pure formatting: no store access, no network calls.
package presenter

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aura-hub/aura-levels-bot/internal/application/query"
	"github.com/aura-hub/aura-levels-bot/internal/domain/leaderboard"
	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
)

// progressBarSegments is the fixed width of the progress bar.
const progressBarSegments = 10

// Escape escapes text for MarkdownV2.
func Escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdownV2, s)
}

// Mention renders a clickable user mention. The display name is escaped
// for MarkdownV2.
func Mention(id member.MemberID, displayName string) string {
	return fmt.Sprintf("[%s](tg://user?id=%d)", Escape(displayName), int64(id))
}

// FallbackName is the label used when a display name cannot be resolved.
// A failed lookup must never abort rendering for other entries.
func FallbackName(id member.MemberID) string {
	return fmt.Sprintf("User #%d", int64(id))
}

// ProgressBar renders a fixed-width 10-segment bar for a progress in
// [0,100]: filled = progress/10 segments.
func ProgressBar(progress int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	filled := progress / progressBarSegments
	return "\\[" +
		strings.Repeat("█", filled) +
		strings.Repeat("░", progressBarSegments-filled) +
		"\\]"
}

// Welcome renders the /start greeting.
func Welcome(mention string) string {
	return fmt.Sprintf(
		"Hi %s\\! Welcome to Aura Levels Bot\\! "+
			"I track your activity and award you with levels and XP\\. "+
			"Use /rank to check your level or /leaderboard to see top users\\.",
		mention)
}

// RankCard renders the /rank progress card.
func RankCard(mention string, rank *query.RankDTO) string {
	var b strings.Builder

	fmt.Fprintf(&b, "🏆 *Rank for %s*\n\n", mention)
	fmt.Fprintf(&b, "📊 *Level:* %d\n", rank.Level)
	fmt.Fprintf(&b, "✨ *XP:* %d/%d\n", rank.XP, rank.XPNeeded)
	fmt.Fprintf(&b, "%s %d%%\n", ProgressBar(rank.ProgressPercent), rank.ProgressPercent)
	fmt.Fprintf(&b, "💬 *Messages sent:* %d\n", rank.Messages)
	if rank.Position > 0 {
		fmt.Fprintf(&b, "🏅 *Position:* %d of %d\n", rank.Position, rank.TotalMembers)
	}
	b.WriteString("\nKeep chatting to level up\\!")

	return b.String()
}

// Leaderboard renders the top-N list. names maps member IDs to resolved
// display mentions; absent entries fall back to a generic label.
func Leaderboard(entries []leaderboard.Entry, names map[member.MemberID]string) string {
	if len(entries) == 0 {
		return Escape("No users on the leaderboard yet. Start chatting!")
	}

	var b strings.Builder
	b.WriteString("🏆 *Top Users Leaderboard* 🏆\n\n")
	for _, entry := range entries {
		name, ok := names[entry.MemberID]
		if !ok {
			name = Escape(FallbackName(entry.MemberID))
		}
		fmt.Fprintf(&b, "%d\\. %s \\- Level %d \\(✨%d XP\\)\n",
			entry.Rank, name, int(entry.Level), int(entry.XP))
	}
	return b.String()
}

// LevelUp renders the level-up announcement.
func LevelUp(mention string, newLevel member.Level) string {
	return fmt.Sprintf(
		"🎉 Congratulations %s\\! You've leveled up to *Level %d*\\! 🎉",
		mention, int(newLevel))
}

// History renders the recent level-up history.
func History(levelUps []member.LevelUp) string {
	if len(levelUps) == 0 {
		return Escape("No level-ups recorded yet.")
	}

	var b strings.Builder
	b.WriteString("🕑 *Recent level\\-ups*\n\n")
	for _, lu := range levelUps {
		fmt.Fprintf(&b, "• %s reached Level %d \\(✨%d XP\\)\n",
			Escape(FallbackName(lu.MemberID)), int(lu.NewLevel), int(lu.XPAfter))
	}
	return b.String()
}

// Help renders the /help text.
func Help() string {
	return "🤖 *Aura Levels Bot Help*\n\n" +
		Escape("This bot tracks your activity in chats and awards you with XP and levels.") + "\n\n" +
		"📌 *Commands:*\n" +
		Escape("/start - Start using the bot\n"+
			"/rank - Check your current level and XP\n"+
			"/leaderboard - Show top users\n"+
			"/history - Show recent level-ups\n"+
			"/help - Show this help message") + "\n\n" +
		"💡 *How it works:*\n" +
		Escape("- You earn 1-3 XP for each message you send\n"+
			"- Level up requires more XP as you progress\n"+
			"- Leveling up gives you bonus XP") + "\n\n" +
		Escape("Keep chatting to climb the leaderboard!")
}
