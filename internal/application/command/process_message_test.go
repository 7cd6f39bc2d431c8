package command

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-hub/aura-levels-bot/internal/domain/member"
	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
	"github.com/aura-hub/aura-levels-bot/internal/infrastructure/persistence/memory"
	"github.com/aura-hub/aura-levels-bot/pkg/logger"
)

// captureBus records published events synchronously.
type captureBus struct {
	mu     sync.Mutex
	events []shared.Event
}

func (b *captureBus) Publish(event shared.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, event)
	return nil
}

func (b *captureBus) published() []shared.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]shared.Event(nil), b.events...)
}

func newProcessFixture() (*ProcessMessageHandler, *memory.MemberStore, *captureBus) {
	store := memory.NewMemberStore()
	bus := &captureBus{}
	handler := NewProcessMessageHandler(store, bus, logger.Default())
	return handler, store, bus
}

func TestProcessMessage_FirstMessage(t *testing.T) {
	handler, store, bus := newProcessFixture()
	ctx := context.Background()

	result, err := handler.Handle(ctx, ProcessMessageCommand{
		MemberID:  42,
		ChatID:    -100,
		MessageID: 1,
	})
	require.NoError(t, err)

	assert.True(t, result.Processed)
	assert.False(t, result.LeveledUp)
	assert.Equal(t, member.Level(1), result.Level)
	assert.Equal(t, 1, result.Messages)
	assert.GreaterOrEqual(t, result.XPGained, member.XP(1))
	assert.LessOrEqual(t, result.XPGained, member.XP(3))

	rec, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, result.XPGained, rec.XP)
	assert.Equal(t, member.Level(1), rec.Level)
	assert.Equal(t, 1, rec.Messages)

	assert.Empty(t, bus.published())
}

func TestProcessMessage_DiscardsChannelAlias(t *testing.T) {
	handler, store, _ := newProcessFixture()
	ctx := context.Background()

	result, err := handler.Handle(ctx, ProcessMessageCommand{
		MemberID:         42,
		MessageID:        1,
		FromChannelAlias: true,
	})
	require.NoError(t, err)
	assert.False(t, result.Processed)

	rec, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.True(t, rec.IsZero(), "a discarded event must leave all counters unchanged")
}

func TestProcessMessage_DiscardsEdits(t *testing.T) {
	handler, store, _ := newProcessFixture()
	ctx := context.Background()

	result, err := handler.Handle(ctx, ProcessMessageCommand{
		MemberID:  42,
		MessageID: 1,
		Edited:    true,
	})
	require.NoError(t, err)
	assert.False(t, result.Processed)

	rec, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.True(t, rec.IsZero())
}

func TestProcessMessage_LevelUpAwardsBonusAndPublishes(t *testing.T) {
	handler, store, bus := newProcessFixture()
	ctx := context.Background()

	store.Put(member.Record{ID: 42, XP: 99, Level: 1, Messages: 50})

	gain := member.XPGainForMessage(42, 777)
	result, err := handler.Handle(ctx, ProcessMessageCommand{
		MemberID:  42,
		ChatID:    -100,
		MessageID: 777,
	})
	require.NoError(t, err)

	assert.True(t, result.LeveledUp)
	assert.Equal(t, member.Level(2), result.Level)
	assert.Equal(t, member.XP(99)+gain+member.LevelUpBonus(), result.XP)
	assert.Equal(t, 51, result.Messages)

	rec, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, member.Level(2), rec.Level)
	assert.Equal(t, result.XP, rec.XP)

	events := bus.published()
	require.Len(t, events, 1)
	levelUp, ok := events[0].(shared.MemberLeveledUpEvent)
	require.True(t, ok)
	assert.Equal(t, int64(42), levelUp.MemberID)
	assert.Equal(t, int64(-100), levelUp.ChatID)
	assert.Equal(t, 2, levelUp.NewLevel)
	assert.Equal(t, int(result.XP), levelUp.XPAfter)
}

func TestProcessMessage_SingleLevelPerEvent(t *testing.T) {
	handler, store, _ := newProcessFixture()
	ctx := context.Background()

	// Far beyond the level-2 threshold as well; only one level advances.
	store.Put(member.Record{ID: 42, XP: 5000, Level: 1, Messages: 1})

	result, err := handler.Handle(ctx, ProcessMessageCommand{
		MemberID:  42,
		MessageID: 2,
	})
	require.NoError(t, err)
	assert.True(t, result.LeveledUp)
	assert.Equal(t, member.Level(2), result.Level)
}

func TestProcessMessage_DeferredLevelUpAppliesOnNextEvent(t *testing.T) {
	handler, store, _ := newProcessFixture()
	ctx := context.Background()

	store.Put(member.Record{ID: 42, XP: 5000, Level: 1, Messages: 1})

	for messageID := 10; messageID < 13; messageID++ {
		_, err := handler.Handle(ctx, ProcessMessageCommand{MemberID: 42, MessageID: messageID})
		require.NoError(t, err)
	}

	rec, err := store.Get(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, member.Level(4), rec.Level, "each event advances one deferred level")
}

func TestProcessMessage_Validation(t *testing.T) {
	handler, _, _ := newProcessFixture()
	ctx := context.Background()

	_, err := handler.Handle(ctx, ProcessMessageCommand{MemberID: 0, MessageID: 1})
	assert.ErrorIs(t, err, shared.ErrInvalidID)

	_, err = handler.Handle(ctx, ProcessMessageCommand{MemberID: 42, MessageID: 0})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

// failingRepo simulates an unreachable store.
type failingRepo struct {
	*memory.MemberStore
}

func (f *failingRepo) IncrementMessages(ctx context.Context, id member.MemberID, delta int) (int, error) {
	return 0, shared.WrapError("member", "IncrementMessages", shared.ErrServiceUnavailable, "store down", errors.New("connection refused"))
}

func TestProcessMessage_StoreUnavailable(t *testing.T) {
	repo := &failingRepo{MemberStore: memory.NewMemberStore()}
	handler := NewProcessMessageHandler(repo, &captureBus{}, logger.Default())

	_, err := handler.Handle(context.Background(), ProcessMessageCommand{MemberID: 42, MessageID: 1})
	assert.ErrorIs(t, err, shared.ErrServiceUnavailable)
}
