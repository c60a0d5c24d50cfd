package event_bus

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/reelay/reelay/pkg/events"
	"github.com/reelay/reelay/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBus() EventBus {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})

	return NewWatermillEventBus(pubSub, pubSub)
}

func TestEventBusRoundTrip(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	received := make(chan events.Event, 1)

	err := bus.Subscribe(t.Context(), func(_ context.Context, event events.Event) error {
		received <- event

		return nil
	})
	require.NoError(t, err)

	event := events.RunStarted{
		BaseEvent:    events.NewBaseEvent(events.RunStartedEvent, "wf-1"),
		RunID:        "run-1",
		WorkflowName: "Morning videos",
		Initiator:    "scheduler",
	}
	require.NoError(t, bus.Publish(t.Context(), event))

	select {
	case got := <-received:
		started, ok := got.(*events.RunStarted)
		require.True(t, ok)
		assert.Equal(t, "run-1", started.RunID)
		assert.Equal(t, "wf-1", started.WorkflowID)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestLogSinkPersistsRunFailure(t *testing.T) {
	bus := newTestBus()
	defer bus.Close()

	store := file.NewPersistence(t.TempDir())
	sink := NewLogSink(store.Logs(), slog.Default())
	require.NoError(t, sink.Start(t.Context(), bus))

	event := events.RunFailed{
		BaseEvent: events.NewBaseEvent(events.RunFailedEvent, "wf-1"),
		RunID:     "run-1",
		Stage:     "video_generation",
		Error:     "generation timed out",
	}
	require.NoError(t, bus.Publish(t.Context(), event))

	require.Eventually(t, func() bool {
		entries, err := store.Logs().Recent(t.Context(), 10, "")
		return err == nil && len(entries) == 1
	}, 2*time.Second, 10*time.Millisecond)

	entries, err := store.Logs().Recent(t.Context(), 10, "error")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Message, "video_generation")
}
