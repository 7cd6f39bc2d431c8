package messaging

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aura-hub/aura-levels-bot/internal/domain/shared"
)

func TestEventBus_DeliversToSubscribedType(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	var mu sync.Mutex
	var got []shared.Event
	err := bus.Subscribe(shared.EventMemberLeveledUp, func(e shared.Event) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, e)
		return nil
	})
	require.NoError(t, err)

	event := shared.NewMemberLeveledUpEvent(42, -100, 2, 110)
	require.NoError(t, bus.Publish(event))

	// Close waits for in-flight handlers, so delivery is observable after it.
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 1)
	assert.Equal(t, event.EventID(), got[0].EventID())
}

func TestEventBus_IgnoresOtherTypes(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	var mu sync.Mutex
	delivered := 0
	require.NoError(t, bus.Subscribe(shared.EventMemberReset, func(e shared.Event) error {
		mu.Lock()
		defer mu.Unlock()
		delivered++
		return nil
	}))

	require.NoError(t, bus.Publish(shared.NewMemberLeveledUpEvent(42, -100, 2, 110)))
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Zero(t, delivered)
}

func TestEventBus_MultipleHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{WorkerPoolSize: 2})

	var mu sync.Mutex
	delivered := 0
	handler := func(e shared.Event) error {
		mu.Lock()
		defer mu.Unlock()
		delivered++
		return nil
	}
	require.NoError(t, bus.Subscribe(shared.EventMemberLeveledUp, handler))
	require.NoError(t, bus.Subscribe(shared.EventMemberLeveledUp, handler))

	require.NoError(t, bus.Publish(shared.NewMemberLeveledUpEvent(42, -100, 2, 110)))
	bus.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 2, delivered)
}

func TestEventBus_RecoversHandlerPanic(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	require.NoError(t, bus.Subscribe(shared.EventMemberLeveledUp, func(e shared.Event) error {
		panic("handler bug")
	}))

	assert.NotPanics(t, func() {
		require.NoError(t, bus.Publish(shared.NewMemberLeveledUpEvent(42, -100, 2, 110)))
		bus.Close()
	})
}

func TestEventBus_HandlerErrorDoesNotPropagate(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})

	require.NoError(t, bus.Subscribe(shared.EventMemberLeveledUp, func(e shared.Event) error {
		return errors.New("send failed")
	}))

	assert.NoError(t, bus.Publish(shared.NewMemberLeveledUpEvent(42, -100, 2, 110)))
	bus.Close()
}

func TestEventBus_ClosedRejectsPublishAndSubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})
	bus.Close()

	err := bus.Publish(shared.NewMemberLeveledUpEvent(42, -100, 2, 110))
	assert.ErrorIs(t, err, ErrEventBusClosed)

	err = bus.Subscribe(shared.EventMemberLeveledUp, func(e shared.Event) error { return nil })
	assert.ErrorIs(t, err, ErrEventBusClosed)
}

func TestEventBus_NilArguments(t *testing.T) {
	bus := NewInMemoryEventBus(InMemoryEventBusConfig{})
	defer bus.Close()

	assert.Error(t, bus.Publish(nil))
	assert.Error(t, bus.Subscribe(shared.EventMemberLeveledUp, nil))
}
