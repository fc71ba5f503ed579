package subsystems

import (
	"io"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/interfaces"
)

// EventWatcher describes the interface for an object that receives events from Eventline, either
// over a streaming connection or by polling. The built-in implementations are configured with
// elcomponents.StreamingEvents() and elcomponents.PollingEvents().
type EventWatcher interface {
	io.Closer

	// IsInitialized returns true if the watcher has successfully connected at some point.
	//
	// Once this is true, it should remain true even if a problem occurs later.
	IsInitialized() bool

	// Start tells the watcher to begin. It should not try to make any connections or do any other
	// significant activity until Start is called.
	//
	// The watcher should close the closeWhenReady channel if and when it has either successfully
	// connected for the first time, or determined that it can never succeed.
	Start(closeWhenReady chan<- struct{})
}

// EventSink is the interface that EventWatcher implementations use to deliver events and status
// updates to the client.
//
// Applications never need to implement this interface; the client provides its own implementation
// when it creates an EventWatcher.
type EventSink interface {
	// Publish delivers a batch of events, in the order the watcher received them.
	Publish(events []elmodel.Event)

	// UpdateStatus informs the client of a change in the watcher's status.
	//
	// Watcher implementations should use this method if they have any concept of being in a valid
	// state, a temporarily disconnected state, or a permanently stopped state.
	//
	// If newState is different from the previous state, and/or newError is non-empty, the client
	// will start returning the new status (adding a timestamp for the change) from
	// EventStream.Status(), and will trigger status change events to any registered listeners.
	//
	// A special case is that if newState is EventWatcherStateInterrupted, but the previous state
	// was EventWatcherStateInitializing, the state will remain at Initializing because Interrupted
	// is only meaningful after a successful startup.
	UpdateStatus(newState interfaces.EventWatcherState, newError interfaces.EventWatcherErrorInfo)
}
