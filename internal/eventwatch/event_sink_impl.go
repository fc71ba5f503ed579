package eventwatch

import (
	"sync"
	"time"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/interfaces"
	"github.com/exograd/go-eventline/internal"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// Capacity of the delivery channel. The watcher blocks only briefly on a full channel: if the
// application stops reading EventStream.Events, further events are dropped with a warning rather
// than stalling the watcher.
const eventChannelCapacity = 1000

// EventSinkImpl is the internal implementation of EventSink. It accumulates events from a watcher
// for delivery on a channel, and maintains the watcher status that the EventStream reports. It is
// exported because the actual implementation type, rather than the interface, is required as a
// dependency of other SDK components.
type EventSinkImpl struct {
	events            chan elmodel.Event
	statusBroadcaster *internal.Broadcaster[interfaces.EventWatcherStatus]
	currentStatus     interfaces.EventWatcherStatus
	loggers           ldlog.Loggers
	warnedDropped     bool
	closed            bool
	lock              sync.Mutex
}

// NewEventSinkImpl creates the internal implementation of EventSink.
func NewEventSinkImpl(loggers ldlog.Loggers) *EventSinkImpl {
	return &EventSinkImpl{
		events:            make(chan elmodel.Event, eventChannelCapacity),
		statusBroadcaster: internal.NewBroadcaster[interfaces.EventWatcherStatus](),
		loggers:           loggers,
		currentStatus: interfaces.EventWatcherStatus{
			State:      interfaces.EventWatcherStateInitializing,
			StateSince: time.Now(),
		},
	}
}

// Publish is a standard method of EventSink.
func (s *EventSinkImpl) Publish(events []elmodel.Event) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if s.closed {
		return
	}
	for _, e := range events {
		select {
		case s.events <- e:
		default:
			if !s.warnedDropped {
				s.loggers.Warn("Events are arriving faster than the application is consuming them; some events will be dropped")
				s.warnedDropped = true
			}
		}
	}
}

// UpdateStatus is a standard method of EventSink.
func (s *EventSinkImpl) UpdateStatus(
	newState interfaces.EventWatcherState,
	newError interfaces.EventWatcherErrorInfo,
) {
	if newState == "" {
		return
	}
	if statusToBroadcast, changed := s.maybeUpdateStatus(newState, newError); changed {
		s.statusBroadcaster.Broadcast(statusToBroadcast)
	}
}

func (s *EventSinkImpl) maybeUpdateStatus(
	newState interfaces.EventWatcherState,
	newError interfaces.EventWatcherErrorInfo,
) (interfaces.EventWatcherStatus, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()

	oldStatus := s.currentStatus

	if newState == interfaces.EventWatcherStateInterrupted && oldStatus.State == interfaces.EventWatcherStateInitializing {
		newState = interfaces.EventWatcherStateInitializing // see comment on EventSink.UpdateStatus
	}

	if newState == oldStatus.State && newError.Kind == "" {
		return interfaces.EventWatcherStatus{}, false
	}

	stateSince := oldStatus.StateSince
	if newState != oldStatus.State {
		stateSince = time.Now()
	}
	lastError := oldStatus.LastError
	if newError.Kind != "" {
		lastError = newError
	}
	s.currentStatus = interfaces.EventWatcherStatus{
		State:      newState,
		StateSince: stateSince,
		LastError:  lastError,
	}
	return s.currentStatus, true
}

// Events returns the channel that delivers watched events to the application.
func (s *EventSinkImpl) Events() <-chan elmodel.Event {
	return s.events
}

// GetLastStatus returns the most recent watcher status.
func (s *EventSinkImpl) GetLastStatus() interfaces.EventWatcherStatus {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.currentStatus
}

// GetStatusBroadcaster returns the broadcaster used for watcher status subscriptions.
func (s *EventSinkImpl) GetStatusBroadcaster() *internal.Broadcaster[interfaces.EventWatcherStatus] {
	return s.statusBroadcaster
}

// WaitFor blocks until the watcher reaches the desired state, or permanently fails, or the timeout
// expires. A timeout of zero or less means no timeout.
func (s *EventSinkImpl) WaitFor(desiredState interfaces.EventWatcherState, timeout time.Duration) bool {
	s.lock.Lock()
	if s.currentStatus.State == desiredState {
		s.lock.Unlock()
		return true
	}
	if s.currentStatus.State == interfaces.EventWatcherStateOff {
		s.lock.Unlock()
		return false
	}

	statusCh := s.statusBroadcaster.AddListener()
	defer s.statusBroadcaster.RemoveListener(statusCh)
	s.lock.Unlock()

	var deadline <-chan time.Time
	if timeout > 0 {
		deadline = time.After(timeout)
	}

	for {
		select {
		case newStatus, ok := <-statusCh:
			if !ok { // channel was closed, the sink is being shut down
				return false
			}
			if newStatus.State == desiredState {
				return true
			}
			if newStatus.State == interfaces.EventWatcherStateOff {
				return false
			}
		case <-deadline:
			return false
		}
	}
}

// Close shuts down event delivery: the events channel is closed and all status subscriptions are
// released. The watcher that feeds the sink must be closed first.
func (s *EventSinkImpl) Close() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if !s.closed {
		s.closed = true
		close(s.events)
		s.statusBroadcaster.Close()
	}
}
