package cmd

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"github.com/reelay/reelay/pkg/event_bus"
)

// NewEventBus builds the in-process event bus shared by the runner,
// the log sink, and the API.
func NewEventBus(logger *slog.Logger) event_bus.EventBus {
	channel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: 64},
		watermill.NewSlogLogger(logger),
	)

	return event_bus.NewWatermillEventBus(channel, channel)
}
