package eventline

import (
	"context"
	"sync"
	"time"

	"github.com/exograd/go-eventline/elcomponents"
	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/interfaces"
	"github.com/exograd/go-eventline/internal/eventwatch"
	"github.com/exograd/go-eventline/subsystems"

	"golang.org/x/exp/maps"
)

// EventStream is a continuous subscription to the events of the project, created with
// Client.WatchEvents.
//
// Events are delivered on the channel returned by Events. The stream tries to stay connected
// until it is closed: transient failures are retried, and the current connection state is
// available from Status or, as a change feed, from AddStatusListener.
type EventStream struct {
	client    *Client
	watcher   subsystems.EventWatcher
	sink      *eventwatch.EventSinkImpl
	closeOnce sync.Once
}

// WatchEvents starts a subscription to the events of the project the client is scoped to.
//
// The configurer determines how events are received: elcomponents.StreamingEvents() (the default
// if nil) holds a streaming connection open, while elcomponents.PollingEvents() checks for new
// events at a fixed interval.
//
// If waitFor is greater than zero, WatchEvents blocks until the subscription is ready, and gives
// up after that duration. Reaching the timeout is not an error as long as the watcher is still
// retrying: the stream is returned and keeps connecting in the background. A failure the watcher
// cannot recover from, such as a rejected API key, returns the stream together with
// ErrEventStreamInitializationFailed.
func (c *Client) WatchEvents(
	configurer subsystems.ComponentConfigurer[subsystems.EventWatcher],
	waitFor time.Duration,
) (*EventStream, error) {
	if c.closed.Get() {
		return nil, ErrClientClosed
	}
	projectID, err := c.scopedProjectID(context.Background())
	if err != nil {
		return nil, err
	}
	if configurer == nil {
		configurer = elcomponents.StreamingEvents()
	}

	sink := eventwatch.NewEventSinkImpl(c.loggers)

	watcherContext := *c.clientContext
	watcherContext.ProjectID = projectID
	watcherContext.EventSink = sink
	if projectID != "" && watcherContext.HTTP.DefaultHeaders != nil {
		headers := maps.Clone(watcherContext.HTTP.DefaultHeaders)
		headers.Set(projectIDHeader, projectID)
		watcherContext.HTTP.DefaultHeaders = headers
	}

	watcher, err := configurer.Build(&watcherContext)
	if err != nil {
		sink.Close()
		return nil, err
	}

	stream := &EventStream{
		client:  c,
		watcher: watcher,
		sink:    sink,
	}

	c.lock.Lock()
	if c.streams == nil {
		// the client was closed while we were setting up
		c.lock.Unlock()
		_ = watcher.Close()
		sink.Close()
		return nil, ErrClientClosed
	}
	c.streams[stream] = struct{}{}
	c.lock.Unlock()

	closeWhenReady := make(chan struct{})
	watcher.Start(closeWhenReady)

	if waitFor > 0 {
		c.loggers.Infof("Waiting up to %d milliseconds for the event stream to start...",
			waitFor/time.Millisecond)

		timeout := time.After(waitFor)
		select {
		case <-closeWhenReady:
			if !watcher.IsInitialized() {
				c.loggers.Warn("Event stream failed to start")
				return stream, ErrEventStreamInitializationFailed
			}
			c.loggers.Info("Event stream started")
			return stream, nil
		case <-timeout:
			c.loggers.Warn("Timeout encountered waiting for the event stream to start")
		}
	}
	go func() { <-closeWhenReady }() // Don't block the closeWhenReady channel even though we won't be using it
	return stream, nil
}

func (c *Client) removeStream(stream *EventStream) {
	c.lock.Lock()
	delete(c.streams, stream)
	c.lock.Unlock()
}

// Events returns the channel on which the stream delivers events.
//
// The channel is buffered; if the application does not consume events as fast as they arrive,
// the oldest buffered events are kept and later ones are dropped. Closing the stream closes the
// channel after any remaining buffered events have been read.
func (s *EventStream) Events() <-chan elmodel.Event {
	return s.sink.Events()
}

// Status returns the current status of the stream's connection to the service.
func (s *EventStream) Status() interfaces.EventWatcherStatus {
	return s.sink.GetLastStatus()
}

// AddStatusListener subscribes to notifications of status changes. The returned channel delivers
// the new status whenever it changes, until RemoveStatusListener is called with that channel or
// the stream is closed.
//
// It is the caller's responsibility to consume from the channel. Allowing the channel to fill up
// will cause the stream to block while broadcasting a change.
func (s *EventStream) AddStatusListener() <-chan interfaces.EventWatcherStatus {
	return s.sink.GetStatusBroadcaster().AddListener()
}

// RemoveStatusListener unsubscribes a channel previously returned by AddStatusListener, and
// closes it.
func (s *EventStream) RemoveStatusListener(listener <-chan interfaces.EventWatcherStatus) {
	s.sink.GetStatusBroadcaster().RemoveListener(listener)
}

// WaitForStatus blocks until the stream's status has the given state, and returns true if it was
// reached before the timeout. It returns false immediately if the state becomes
// EventWatcherStateOff, since no other state can be reached after that.
func (s *EventStream) WaitForStatus(desiredState interfaces.EventWatcherState, timeout time.Duration) bool {
	return s.sink.WaitFor(desiredState, timeout)
}

// IsInitialized returns true if the stream has successfully connected at some point. Once it
// returns true, it keeps returning true even if the connection is interrupted later.
func (s *EventStream) IsInitialized() bool {
	return s.watcher.IsInitialized()
}

// Close ends the subscription. The events channel is closed once any remaining buffered events
// have been read, status listener channels are closed, and the status becomes
// EventWatcherStateOff.
func (s *EventStream) Close() error {
	s.closeOnce.Do(func() {
		_ = s.watcher.Close()
		s.sink.Close()
		s.client.removeStream(s)
	})
	return nil
}
