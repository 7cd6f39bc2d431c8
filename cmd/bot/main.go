// Package main - точка входа для Telegram-бота Aura Levels.
//
// Бот наблюдает за сообщениями в групповом чате, начисляет XP за каждое
// сообщение, вычисляет прогресс уровней и отвечает на запросы /rank и
// /leaderboard.
//
// Архитектура следует принципам Clean Architecture:
// - Domain: чистая бизнес-логика (leveling engine, порядок рейтинга)
// - Application: use cases (Commands/Queries) и обработчики событий
// - Infrastructure: Redis-хранилище записей, Postgres-история, event bus
// - Interface: Telegram Bot handlers
//
// Хранилище - явная зависимость: клиент создаётся здесь один раз,
// передаётся компонентам и закрывается при остановке. Глобального
// состояния нет.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/aura-hub/aura-levels-bot/config"
	"github.com/aura-hub/aura-levels-bot/internal/application/command"
	"github.com/aura-hub/aura-levels-bot/internal/application/eventhandler"
	"github.com/aura-hub/aura-levels-bot/internal/application/query"
	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
	"github.com/aura-hub/aura-levels-bot/internal/infrastructure/messaging"
	"github.com/aura-hub/aura-levels-bot/internal/infrastructure/persistence/memory"
	"github.com/aura-hub/aura-levels-bot/internal/infrastructure/persistence/postgres"
	redisstore "github.com/aura-hub/aura-levels-bot/internal/infrastructure/persistence/redis"
	"github.com/aura-hub/aura-levels-bot/internal/interface/telegram"
	"github.com/aura-hub/aura-levels-bot/pkg/logger"
)

func main() {
	// .env удобен в разработке; в продакшене переменные приходят из
	// окружения процесса.
	_ = godotenv.Load()

	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Output:    os.Stdout,
		Level:     logger.ParseLevel(cfg.App.LogLevel),
		AddCaller: cfg.App.Debug,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Хранилище записей участников ─────────────────────────────────────────
	var (
		store   member.Repository
		cleanup []func()
	)
	if cfg.Redis.Enabled {
		redisCfg := redisstore.DefaultConfig()
		redisCfg.URL = cfg.Redis.URL

		client, err := redisstore.NewClient(ctx, redisCfg)
		if err != nil {
			return err
		}
		cleanup = append(cleanup, func() { _ = client.Close() })
		store = redisstore.NewMemberStore(client)

		log.Info("using redis member store")
	} else {
		store = memory.NewMemberStore()
		log.Warn("using in-memory member store, records will not survive a restart")
	}

	// ── Опциональная история повышений ───────────────────────────────────────
	var history member.HistoryRepository
	if cfg.Database.Enabled() {
		pgCfg := postgres.DefaultConfig()
		pgCfg.URL = cfg.Database.URL

		conn, err := postgres.Connect(ctx, pgCfg)
		if err != nil {
			return err
		}
		cleanup = append(cleanup, conn.Close)
		history = postgres.NewLevelUpRepository(conn)

		log.Info("level-up history enabled")
	}

	// ── Event bus и side effects ─────────────────────────────────────────────
	bus := messaging.NewInMemoryEventBus(messaging.InMemoryEventBusConfig{Logger: log})

	// ── Telegram ─────────────────────────────────────────────────────────────
	botCfg := telegram.DefaultBotConfig(cfg.Telegram.Token)
	botCfg.PollingTimeout = cfg.Telegram.PollingTimeout
	botCfg.Debug = cfg.App.Debug

	bot, err := telegram.NewBot(botCfg, log)
	if err != nil {
		return err
	}

	onLevelUp := eventhandler.NewOnLevelUp(bot, history, log)
	if err := bus.Subscribe(shared.EventMemberLeveledUp, onLevelUp.Handle); err != nil {
		return err
	}

	deps := telegram.Dependencies{
		ProcessMessage: command.NewProcessMessageHandler(store, bus, log),
		InitMember:     command.NewInitMemberHandler(store),
		ResetMember:    command.NewResetMemberHandler(store, bus, log),
		DeleteMember:   command.NewDeleteMemberHandler(store, log),
		GetRank:        query.NewGetRankHandler(store),
		GetLeaderboard: query.NewGetLeaderboardHandler(store),
	}
	if history != nil {
		deps.GetHistory = query.NewGetLevelUpHistoryHandler(history)
	}

	bot.SetRouter(telegram.NewRouter(bot.API(), deps, cfg.Telegram, cfg.Leaderboard.Limit, log))

	// ── Запуск и graceful shutdown ───────────────────────────────────────────
	log.Info("starting bot",
		logger.String("environment", string(cfg.App.Environment)),
		logger.Int("leaderboard_limit", cfg.Leaderboard.Limit))

	runErr := bot.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()

	done := make(chan struct{})
	go func() {
		bus.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		log.Warn("shutdown timeout exceeded, abandoning in-flight handlers")
	}

	for i := len(cleanup) - 1; i >= 0; i-- {
		cleanup[i]()
	}

	log.Info("bot stopped", logger.Duration("shutdown_timeout", cfg.App.ShutdownTimeout))
	return runErr
}
