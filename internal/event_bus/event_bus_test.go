package event_bus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBus_PublishToTypedSubscriber(t *testing.T) {
	bus := NewEventBus()
	var received []SettingsUpdated
	SubscribeTyped(bus, SettingsUpdatedType, func(e EventT[SettingsUpdated]) error {
		received = append(received, e.Data)
		return nil
	})

	err := bus.Publish(NewEvent(context.Background(), SettingsUpdatedType, SettingsUpdated{NonWorkingWeekdays: []int{3, 6, 7}}))

	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, []int{3, 6, 7}, received[0].NonWorkingWeekdays)
}

func TestEventBus_TypedSubscriberIgnoresOtherPayloads(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	SubscribeTyped(bus, SettingsUpdatedType, func(e EventT[SettingsUpdated]) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), SettingsUpdatedType, "not settings")))
	require.NoError(t, bus.Publish(NewEvent(context.Background(), SettingsUpdatedType, nil)))

	assert.Equal(t, 0, calls)
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	unsubscribe := bus.Subscribe(SettingsUpdatedType, func(e Event) error {
		calls++
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), SettingsUpdatedType, SettingsUpdated{})))
	unsubscribe()
	require.NoError(t, bus.Publish(NewEvent(context.Background(), SettingsUpdatedType, SettingsUpdated{})))

	assert.Equal(t, 1, calls)
}

func TestEventBus_CollectsHandlerErrorsAndPanics(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe(SettingsUpdatedType, func(e Event) error {
		return errors.New("boom")
	})
	bus.Subscribe(SettingsUpdatedType, func(e Event) error {
		panic("kaboom")
	})

	err := bus.Publish(NewEvent(context.Background(), SettingsUpdatedType, SettingsUpdated{}))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 handler(s) failed")
}

func TestEventBus_CancelledContext(t *testing.T) {
	bus := NewEventBus()
	calls := 0
	bus.Subscribe(SettingsUpdatedType, func(e Event) error {
		calls++
		return nil
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := bus.Publish(NewEvent(ctx, SettingsUpdatedType, SettingsUpdated{}))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, calls)
}

func TestEventBus_HandlersRunInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()
	var order []int
	for i := 1; i <= 5; i++ {
		bus.Subscribe(SettingsUpdatedType, func(e Event) error {
			order = append(order, i)
			return nil
		})
	}
	bus.Subscribe("other", func(e Event) error {
		order = append(order, -1)
		return nil
	})

	require.NoError(t, bus.Publish(NewEvent(context.Background(), SettingsUpdatedType, SettingsUpdated{})))

	assert.Equal(t, []int{1, 2, 3, 4, 5}, order)
}
