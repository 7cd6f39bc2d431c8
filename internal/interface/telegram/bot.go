// Package telegram implements the Telegram Bot interface for the Aura
// levels bot. It is the entry point for all chat interactions: receiving
// updates over long polling, routing them to application handlers, and
// sending announcements back.
package telegram

import (
	"context"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/interface/telegram/presenter"
	"github.com/aura-hub/aura-levels-bot/pkg/logger"
	"github.com/aura-hub/aura-levels-bot/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// BOT
// ══════════════════════════════════════════════════════════════════════════════

// BotConfig contains configuration for the Telegram bot.
type BotConfig struct {
	// Token is the Telegram Bot API token.
	Token string

	// PollingTimeout is the timeout for long polling, in seconds.
	PollingTimeout int

	// MaxConcurrentUpdates limits concurrent update processing. Counter
	// mutations are atomic at the store level, so updates may be handled
	// in parallel.
	MaxConcurrentUpdates int

	// Debug enables Telegram API debug logging.
	Debug bool
}

// DefaultBotConfig returns sensible defaults.
func DefaultBotConfig(token string) BotConfig {
	return BotConfig{
		Token:                token,
		PollingTimeout:       30,
		MaxConcurrentUpdates: 16,
	}
}

// Bot owns the Telegram API connection and the update loop.
type Bot struct {
	api    *tgbotapi.BotAPI
	router *Router
	cfg    BotConfig
	log    *logger.Logger
}

// NewBot connects to the Telegram Bot API.
// The router is attached separately via SetRouter because the router
// needs the API client for name resolution and replies.
func NewBot(cfg BotConfig, log *logger.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	api.Debug = cfg.Debug

	if cfg.PollingTimeout <= 0 {
		cfg.PollingTimeout = 30
	}
	if cfg.MaxConcurrentUpdates <= 0 {
		cfg.MaxConcurrentUpdates = 16
	}

	log.Info("telegram bot authorized", logger.String("username", api.Self.UserName))

	return &Bot{api: api, cfg: cfg, log: log}, nil
}

// API returns the underlying Bot API client.
func (b *Bot) API() *tgbotapi.BotAPI {
	return b.api
}

// SetRouter attaches the update router.
func (b *Bot) SetRouter(router *Router) {
	b.router = router
}

// Run receives updates over long polling until ctx is cancelled.
// Updates are processed concurrently up to MaxConcurrentUpdates.
func (b *Bot) Run(ctx context.Context) error {
	if b.router == nil {
		return fmt.Errorf("telegram: router not attached")
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.cfg.PollingTimeout
	u.AllowedUpdates = []string{"message", "edited_message", "callback_query"}

	updates := b.api.GetUpdatesChan(u)
	sem := make(chan struct{}, b.cfg.MaxConcurrentUpdates)

	var wg sync.WaitGroup
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			wg.Wait()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				wg.Wait()
				return nil
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(update tgbotapi.Update) {
				defer wg.Done()
				defer func() { <-sem }()
				b.handleUpdate(ctx, update)
			}(update)
		}
	}
}

// handleUpdate routes one update with panic recovery: a malformed update
// must never take the polling loop down.
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("update handler panicked",
				logger.Int("update_id", update.UpdateID),
				logger.Err(fmt.Errorf("%v", r)))
		}
	}()

	b.router.HandleUpdate(ctx, update)
}

// AnnounceLevelUp sends the level-up congratulation to the chat the
// triggering message was sent in. Implements eventhandler.Announcer.
// Sends are retried with backoff; this is transport policy, not core
// policy.
func (b *Bot) AnnounceLevelUp(ctx context.Context, chatID int64, memberID member.MemberID, newLevel member.Level) error {
	mention := b.router.mention(chatID, memberID)
	text := presenter.LevelUp(mention, newLevel)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdownV2

	return retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
		_, err := b.api.Send(msg)
		return err
	})
}
