package elcomponents

import (
	"time"

	"github.com/exograd/go-eventline/internal/endpoints"
	"github.com/exograd/go-eventline/internal/eventwatch"
	"github.com/exograd/go-eventline/subsystems"
)

// DefaultPollInterval is the default value for PollingEventsBuilder.PollInterval. This is also
// the minimum value.
const DefaultPollInterval = 30 * time.Second

// PollingEventsBuilder provides methods for configuring the polling event watcher.
//
// See PollingEvents for usage.
type PollingEventsBuilder struct {
	pollInterval time.Duration
	limit        int
}

// PollingEvents returns a configurable factory for watching events by polling.
//
// Polling is not the default behavior; normally EventStream maintains a streaming connection to
// receive events as they occur. In polling mode, the watcher instead requests any new events at
// regular intervals. HTTP caching allows it to avoid redundantly downloading data if there have
// been no changes, but polling still delivers events with more latency than streaming, so it
// should only be used when a streaming connection is not possible.
//
// To use polling mode, create a builder with PollingEvents(), set its properties with the methods
// of PollingEventsBuilder, and pass it to Client.WatchEvents:
//
//	stream, err := client.WatchEvents(
//	    elcomponents.PollingEvents().PollInterval(45*time.Second),
//	    5*time.Second,
//	)
func PollingEvents() *PollingEventsBuilder {
	return &PollingEventsBuilder{
		pollInterval: DefaultPollInterval,
	}
}

// PollInterval sets the interval at which the watcher will poll for new events.
//
// The default and minimum value is DefaultPollInterval. Values less than this will be set to the
// default.
func (b *PollingEventsBuilder) PollInterval(pollInterval time.Duration) *PollingEventsBuilder {
	if pollInterval < DefaultPollInterval {
		b.pollInterval = DefaultPollInterval
	} else {
		b.pollInterval = pollInterval
	}
	return b
}

// Used in tests to skip parameter validation.
//
//nolint:unused // it is used in tests
func (b *PollingEventsBuilder) forcePollInterval(
	pollInterval time.Duration,
) *PollingEventsBuilder {
	b.pollInterval = pollInterval
	return b
}

// Limit sets the maximum number of events requested per page when polling. The default is zero,
// which lets the service choose the page size. When a poll finds more than one page of new
// events, the watcher keeps requesting pages until it has caught up.
func (b *PollingEventsBuilder) Limit(limit int) *PollingEventsBuilder {
	if limit < 0 {
		b.limit = 0
	} else {
		b.limit = limit
	}
	return b
}

// Build is called internally by the client to create the event watcher instance.
func (b *PollingEventsBuilder) Build(context subsystems.ClientContext) (subsystems.EventWatcher, error) {
	context.GetLogging().Loggers.Warn(
		"Polling mode delivers events with more latency than a streaming connection")
	configuredBaseURI := endpoints.SelectBaseURI(
		context.GetServiceEndpoints(),
		endpoints.APIService,
		"",
		context.GetLogging().Loggers,
	)
	cfg := eventwatch.PollingConfig{
		BaseURI:      configuredBaseURI,
		PollInterval: b.pollInterval,
		Limit:        b.limit,
	}
	return eventwatch.NewPollingProcessor(context, context.GetEventSink(), cfg), nil
}
