package telegram

import (
	"context"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aura-hub/aura-levels-bot/config"
	"github.com/aura-hub/aura-levels-bot/internal/application/command"
	"github.com/aura-hub/aura-levels-bot/internal/application/query"
	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/interface/telegram/presenter"
	"github.com/aura-hub/aura-levels-bot/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROUTER
// Maps normalized Telegram updates onto application commands and queries.
// All domain decisions live in the application layer; the router only
// extracts identities and flags and renders replies.
// ══════════════════════════════════════════════════════════════════════════════

// callbackRefreshLeaderboard is the callback data of the refresh button.
const callbackRefreshLeaderboard = "refresh_leaderboard"

// Dependencies contains the application handlers the router dispatches to.
type Dependencies struct {
	ProcessMessage *command.ProcessMessageHandler
	InitMember     *command.InitMemberHandler
	ResetMember    *command.ResetMemberHandler
	DeleteMember   *command.DeleteMemberHandler
	GetRank        *query.GetRankHandler
	GetLeaderboard *query.GetLeaderboardHandler

	// GetHistory is nil when the level-up history is disabled.
	GetHistory *query.GetLevelUpHistoryHandler
}

// Router routes updates to handlers and renders replies.
type Router struct {
	api              *tgbotapi.BotAPI
	deps             Dependencies
	telegramCfg      config.TelegramConfig
	leaderboardLimit int
	log              *logger.Logger
}

// NewRouter creates a new Router.
func NewRouter(api *tgbotapi.BotAPI, deps Dependencies, telegramCfg config.TelegramConfig, leaderboardLimit int, log *logger.Logger) *Router {
	return &Router{
		api:              api,
		deps:             deps,
		telegramCfg:      telegramCfg,
		leaderboardLimit: leaderboardLimit,
		log:              log,
	}
}

// HandleUpdate dispatches one update.
func (r *Router) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		r.handleCallback(ctx, update.CallbackQuery)
	case update.EditedMessage != nil:
		r.handleMessage(ctx, update.EditedMessage, true)
	case update.Message != nil && update.Message.IsCommand():
		r.handleCommand(ctx, update.Message)
	case update.Message != nil:
		r.handleMessage(ctx, update.Message, false)
	}
}

// handleMessage converts a plain chat message into a ProcessMessageCommand.
func (r *Router) handleMessage(ctx context.Context, msg *tgbotapi.Message, edited bool) {
	if msg.From == nil || msg.Text == "" {
		return
	}

	cmd := command.ProcessMessageCommand{
		MemberID:         member.MemberID(msg.From.ID),
		ChatID:           msg.Chat.ID,
		MessageID:        msg.MessageID,
		FromChannelAlias: msg.SenderChat != nil,
		Edited:           edited,
	}

	result, err := r.deps.ProcessMessage.Handle(ctx, cmd)
	if err != nil {
		// A store failure drops this single event; the next message
		// re-evaluates from current stored state.
		r.log.Error("message processing failed",
			logger.Int64("member_id", msg.From.ID),
			logger.Err(err))
		return
	}

	if result.Processed {
		r.log.Debug("message processed",
			logger.Int64("member_id", msg.From.ID),
			logger.Int("xp_gained", int(result.XPGained)),
			logger.Int("level", int(result.Level)))
	}
}

// handleCommand dispatches a slash command.
func (r *Router) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	switch msg.Command() {
	case "start":
		r.handleStart(ctx, msg)
	case "rank":
		r.handleRank(ctx, msg)
	case "leaderboard":
		r.handleLeaderboard(ctx, msg)
	case "history":
		r.handleHistory(ctx, msg)
	case "help":
		r.reply(msg.Chat.ID, presenter.Help())
	case "reset":
		r.handleReset(ctx, msg)
	case "wipe":
		r.handleWipe(ctx, msg)
	}
}

func (r *Router) handleStart(ctx context.Context, msg *tgbotapi.Message) {
	memberID := member.MemberID(msg.From.ID)

	if _, err := r.deps.InitMember.Handle(ctx, command.InitMemberCommand{MemberID: memberID}); err != nil {
		r.log.Error("member init failed", logger.Int64("member_id", msg.From.ID), logger.Err(err))
		r.replyPlain(msg.Chat.ID, "An error occurred. Please try again later.")
		return
	}

	r.reply(msg.Chat.ID, presenter.Welcome(r.mention(msg.Chat.ID, memberID)))
}

func (r *Router) handleRank(ctx context.Context, msg *tgbotapi.Message) {
	memberID := member.MemberID(msg.From.ID)

	rank, err := r.deps.GetRank.Handle(ctx, query.GetRankQuery{
		MemberID:        memberID,
		IncludePosition: true,
	})
	if err != nil {
		r.log.Error("rank query failed", logger.Int64("member_id", msg.From.ID), logger.Err(err))
		r.replyPlain(msg.Chat.ID, "An error occurred. Please try again later.")
		return
	}

	r.reply(msg.Chat.ID, presenter.RankCard(r.mention(msg.Chat.ID, memberID), rank))
}

func (r *Router) handleLeaderboard(ctx context.Context, msg *tgbotapi.Message) {
	text, err := r.renderLeaderboard(ctx, msg.Chat.ID)
	if err != nil {
		r.log.Error("leaderboard query failed", logger.Err(err))
		r.replyPlain(msg.Chat.ID, "An error occurred. Please try again later.")
		return
	}

	out := tgbotapi.NewMessage(msg.Chat.ID, text)
	out.ParseMode = tgbotapi.ModeMarkdownV2
	out.ReplyMarkup = refreshKeyboard()
	r.send(out)
}

func (r *Router) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	if r.deps.GetHistory == nil {
		r.replyPlain(msg.Chat.ID, "Level-up history is not enabled.")
		return
	}

	levelUps, err := r.deps.GetHistory.Handle(ctx, query.GetLevelUpHistoryQuery{})
	if err != nil {
		r.log.Error("history query failed", logger.Err(err))
		r.replyPlain(msg.Chat.ID, "An error occurred. Please try again later.")
		return
	}

	r.reply(msg.Chat.ID, presenter.History(levelUps))
}

func (r *Router) handleReset(ctx context.Context, msg *tgbotapi.Message) {
	target, ok := r.adminTarget(msg, "/reset")
	if !ok {
		return
	}

	err := r.deps.ResetMember.Handle(ctx, command.ResetMemberCommand{
		MemberID:    target,
		RequestedBy: member.MemberID(msg.From.ID),
	})
	if err != nil {
		r.log.Error("member reset failed", logger.Int64("member_id", int64(target)), logger.Err(err))
		r.replyPlain(msg.Chat.ID, "An error occurred. Please try again later.")
		return
	}

	r.replyPlain(msg.Chat.ID, "Counters reset for "+presenter.FallbackName(target)+".")
}

func (r *Router) handleWipe(ctx context.Context, msg *tgbotapi.Message) {
	target, ok := r.adminTarget(msg, "/wipe")
	if !ok {
		return
	}

	err := r.deps.DeleteMember.Handle(ctx, command.DeleteMemberCommand{
		MemberID:    target,
		RequestedBy: member.MemberID(msg.From.ID),
	})
	if err != nil {
		r.log.Error("member delete failed", logger.Int64("member_id", int64(target)), logger.Err(err))
		r.replyPlain(msg.Chat.ID, "An error occurred. Please try again later.")
		return
	}

	r.replyPlain(msg.Chat.ID, "Record removed for "+presenter.FallbackName(target)+".")
}

// adminTarget gates admin commands and extracts the target member: the
// first numeric argument, or the sender of the replied-to message.
func (r *Router) adminTarget(msg *tgbotapi.Message, usage string) (member.MemberID, bool) {
	if !r.telegramCfg.IsAdmin(msg.From.ID) {
		r.replyPlain(msg.Chat.ID, "This command is for admins only.")
		return 0, false
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) > 0 {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err == nil && id > 0 {
			return member.MemberID(id), true
		}
	}
	if msg.ReplyToMessage != nil && msg.ReplyToMessage.From != nil {
		return member.MemberID(msg.ReplyToMessage.From.ID), true
	}

	r.replyPlain(msg.Chat.ID, "Usage: "+usage+" <user_id>, or reply to the user's message.")
	return 0, false
}

// handleCallback handles inline button presses.
func (r *Router) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	// Always answer, even on failure paths, so the button stops spinning.
	if _, err := r.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		r.log.Warn("callback answer failed", logger.Err(err))
	}

	if cb.Data != callbackRefreshLeaderboard || cb.Message == nil {
		return
	}

	text, err := r.renderLeaderboard(ctx, cb.Message.Chat.ID)
	if err != nil {
		r.log.Error("leaderboard refresh failed", logger.Err(err))
		return
	}

	edit := tgbotapi.NewEditMessageTextAndMarkup(cb.Message.Chat.ID, cb.Message.MessageID, text, refreshKeyboard())
	edit.ParseMode = tgbotapi.ModeMarkdownV2
	if _, err := r.api.Send(edit); err != nil {
		// Telegram rejects edits when the content did not change; that
		// is the expected outcome of refreshing an up-to-date board.
		r.log.Debug("leaderboard edit skipped", logger.Err(err))
	}
}

// renderLeaderboard runs the query and resolves display names.
func (r *Router) renderLeaderboard(ctx context.Context, chatID int64) (string, error) {
	result, err := r.deps.GetLeaderboard.Handle(ctx, query.GetLeaderboardQuery{Limit: r.leaderboardLimit})
	if err != nil {
		return "", err
	}

	names := make(map[member.MemberID]string, len(result.Entries))
	for _, entry := range result.Entries {
		names[entry.MemberID] = r.mention(chatID, entry.MemberID)
	}

	return presenter.Leaderboard(result.Entries, names), nil
}

// mention resolves a member's display name through the chat platform and
// renders a mention. Lookup failures degrade to a generic label; they are
// non-fatal by contract.
func (r *Router) mention(chatID int64, id member.MemberID) string {
	chatMember, err := r.api.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			ChatID: chatID,
			UserID: int64(id),
		},
	})
	if err != nil || chatMember.User == nil {
		return presenter.Escape(presenter.FallbackName(id))
	}

	name := strings.TrimSpace(chatMember.User.FirstName + " " + chatMember.User.LastName)
	if name == "" {
		name = chatMember.User.UserName
	}
	if name == "" {
		return presenter.Escape(presenter.FallbackName(id))
	}
	return presenter.Mention(id, name)
}

// reply sends a MarkdownV2 message.
func (r *Router) reply(chatID int64, text string) {
	out := tgbotapi.NewMessage(chatID, text)
	out.ParseMode = tgbotapi.ModeMarkdownV2
	r.send(out)
}

// replyPlain sends a plain-text message.
func (r *Router) replyPlain(chatID int64, text string) {
	r.send(tgbotapi.NewMessage(chatID, text))
}

func (r *Router) send(msg tgbotapi.MessageConfig) {
	if _, err := r.api.Send(msg); err != nil {
		r.log.Warn("telegram send failed",
			logger.Int64("chat_id", msg.ChatID),
			logger.Err(err))
	}
}

// refreshKeyboard is the inline keyboard attached to leaderboard messages.
func refreshKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔄 Refresh", callbackRefreshLeaderboard),
		),
	)
}
