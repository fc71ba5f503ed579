package elcomponents

import (
	"time"

	"github.com/exograd/go-eventline/internal/endpoints"
	"github.com/exograd/go-eventline/internal/eventwatch"
	"github.com/exograd/go-eventline/subsystems"
)

// DefaultInitialReconnectDelay is the default value for
// StreamingEventsBuilder.InitialReconnectDelay.
const DefaultInitialReconnectDelay = time.Second

// StreamingEventsBuilder provides methods for configuring the streaming event watcher.
//
// See StreamingEvents for usage.
type StreamingEventsBuilder struct {
	initialReconnectDelay time.Duration
}

// StreamingEvents returns a configurable factory for watching events over a streaming connection.
//
// Streaming is the default way to watch events, so you only need this builder if you want to
// customize its behavior. Set its properties with the StreamingEventsBuilder methods and pass the
// builder to Client.WatchEvents:
//
//	stream, err := client.WatchEvents(
//	    elcomponents.StreamingEvents().InitialReconnectDelay(500*time.Millisecond),
//	    5*time.Second,
//	)
func StreamingEvents() *StreamingEventsBuilder {
	return &StreamingEventsBuilder{
		initialReconnectDelay: DefaultInitialReconnectDelay,
	}
}

// InitialReconnectDelay sets the initial reconnect delay for the streaming connection.
//
// The streaming watcher uses a backoff algorithm (with jitter) every time the connection needs to
// be reestablished. The delay for the first reconnection will start near this value, and then
// increase exponentially for any subsequent connection failures.
//
// The default value is DefaultInitialReconnectDelay; values of zero or less revert to the default.
func (b *StreamingEventsBuilder) InitialReconnectDelay(
	initialReconnectDelay time.Duration,
) *StreamingEventsBuilder {
	if initialReconnectDelay <= 0 {
		b.initialReconnectDelay = DefaultInitialReconnectDelay
	} else {
		b.initialReconnectDelay = initialReconnectDelay
	}
	return b
}

// Build is called internally by the client to create the event watcher instance.
func (b *StreamingEventsBuilder) Build(context subsystems.ClientContext) (subsystems.EventWatcher, error) {
	configuredBaseURI := endpoints.SelectBaseURI(
		context.GetServiceEndpoints(),
		endpoints.StreamingService,
		"",
		context.GetLogging().Loggers,
	)
	cfg := eventwatch.StreamConfig{
		URI:                   configuredBaseURI,
		InitialReconnectDelay: b.initialReconnectDelay,
	}
	return eventwatch.NewStreamProcessor(context, context.GetEventSink(), cfg), nil
}
