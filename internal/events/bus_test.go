package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusDeliversToSubscribers(t *testing.T) {
	bus := NewBus()

	var received []*Event
	bus.Subscribe(ExperimentCompleted, func(e *Event) {
		received = append(received, e)
	})

	bus.Publish(ExperimentCompleted, "experiments", map[string]any{"kind": "bell"})
	bus.Publish(SessionCreated, "evolution", nil) // different type, not delivered

	require.Len(t, received, 1)
	assert.Equal(t, ExperimentCompleted, received[0].Type)
	assert.Equal(t, "experiments", received[0].Module)
	assert.Equal(t, "bell", received[0].Data["kind"])
	assert.False(t, received[0].Timestamp.IsZero())
}

func TestBusMultipleSubscribers(t *testing.T) {
	bus := NewBus()
	count := 0
	bus.Subscribe(SessionDeleted, func(*Event) { count++ })
	bus.Subscribe(SessionDeleted, func(*Event) { count++ })
	bus.Publish(SessionDeleted, "evolution", nil)
	assert.Equal(t, 2, count)
}

func TestBusPublishWithoutSubscribersIsSafe(t *testing.T) {
	bus := NewBus()
	assert.NotPanics(t, func() {
		bus.Publish(HistoryPruned, "scheduler", map[string]any{"deleted": 3})
	})
}
