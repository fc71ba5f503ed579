package sharedtest

import (
	"sync"
	"testing"
	"time"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/interfaces"

	th "github.com/launchdarkly/go-test-helpers/v3"

	"github.com/stretchr/testify/assert"
)

// MockEventSink is a mock implementation of EventSink for testing event watchers.
type MockEventSink struct {
	Payloads   chan []elmodel.Event
	Statuses   chan interfaces.EventWatcherStatus
	lastStatus interfaces.EventWatcherStatus
	lock       sync.Mutex
}

// NewMockEventSink creates an instance of MockEventSink.
func NewMockEventSink() *MockEventSink {
	return &MockEventSink{
		Payloads: make(chan []elmodel.Event, 10),
		Statuses: make(chan interfaces.EventWatcherStatus, 10),
	}
}

// Publish in this test implementation, pushes the batch onto the Payloads channel.
func (s *MockEventSink) Publish(events []elmodel.Event) {
	s.Payloads <- events
}

// UpdateStatus in this test implementation, pushes a value onto the Statuses channel.
func (s *MockEventSink) UpdateStatus(
	newState interfaces.EventWatcherState,
	newError interfaces.EventWatcherErrorInfo,
) {
	s.lock.Lock()
	defer s.lock.Unlock()
	if newState != s.lastStatus.State || newError.Kind != "" {
		s.lastStatus = interfaces.EventWatcherStatus{State: newState, LastError: newError}
		s.Statuses <- s.lastStatus
	}
}

// RequireStatusOf blocks until a new watcher status is available, and verifies its state.
func (s *MockEventSink) RequireStatusOf(
	t *testing.T,
	newState interfaces.EventWatcherState,
) interfaces.EventWatcherStatus {
	status := s.RequireStatus(t)
	assert.Equal(t, string(newState), string(status.State))
	// string conversion is due to a bug in assert with type aliases
	return status
}

// RequireStatus blocks until a new watcher status is available.
func (s *MockEventSink) RequireStatus(t *testing.T) interfaces.EventWatcherStatus {
	return th.RequireValue(t, s.Statuses, time.Second, "timed out waiting for new watcher status")
}

// RequireEvents blocks until a batch of events has been published.
func (s *MockEventSink) RequireEvents(t *testing.T) []elmodel.Event {
	return th.RequireValue(t, s.Payloads, time.Second, "timed out waiting for events to be published")
}
