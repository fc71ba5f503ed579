package interfaces

import (
	"fmt"
	"strconv"
	"time"
)

// EventWatcherStatus is information about the event watcher's status and the last status change.
//
// The event watcher is the component that receives events from Eventline, such as
// StreamingEventsBuilder or PollingEventsBuilder. An EventStream created with
// Client.WatchEvents reports its current status with this type; see EventStream.Status and
// EventStream.AddStatusListener.
type EventWatcherStatus struct {
	// State represents the overall current state of the watcher. It will always be one of the
	// EventWatcherState constants such as EventWatcherStateActive.
	State EventWatcherState

	// StateSince is the date/time that the value of State most recently changed.
	//
	// The meaning of this depends on the current State. For EventWatcherStateInitializing, it is
	// the time that the watcher started attempting to retrieve events. For EventWatcherStateActive,
	// it is the time that the watcher most recently entered a valid state after previously having
	// been either Initializing or Interrupted. For EventWatcherStateInterrupted, it is the time
	// that the watcher most recently entered an error state after previously having been Active.
	// For EventWatcherStateOff, it is the time that the watcher encountered an unrecoverable error
	// or was explicitly shut down.
	StateSince time.Time

	// LastError is information about the last error that the watcher encountered, if any.
	//
	// This property should be updated whenever the watcher encounters a problem, even if it does
	// not cause State to change. For instance, if a stream connection fails and the state changes
	// to EventWatcherStateInterrupted, and then subsequent attempts to restart the connection also
	// fail, the state will remain Interrupted but the error information will be updated each time--
	// and the last error will still be reported in this property even if the state later becomes
	// Active.
	//
	// If no error has ever occurred, this field will be an empty EventWatcherErrorInfo{}.
	LastError EventWatcherErrorInfo
}

// String returns a simple string representation of the status.
func (e EventWatcherStatus) String() string {
	return fmt.Sprintf("Status(%s,%s,%s)",
		e.State,
		e.StateSince.Format(time.RFC3339),
		e.LastError.String())
}

// EventWatcherState is any of the allowable values for EventWatcherStatus.State.
type EventWatcherState string

const (
	// EventWatcherStateInitializing is the initial state of the event watcher when the client is
	// being created. If it encounters an error that requires it to retry initialization, the state
	// will remain at Initializing until it either succeeds and becomes EventWatcherStateActive, or
	// permanently fails and becomes EventWatcherStateOff.
	EventWatcherStateInitializing EventWatcherState = "INITIALIZING"

	// EventWatcherStateActive indicates that the event watcher is currently operational and has
	// not had any problems since the last time it received events.
	//
	// In streaming mode, this means that there is currently an open stream connection. In polling
	// mode, it means that the last poll request succeeded.
	EventWatcherStateActive EventWatcherState = "ACTIVE"

	// EventWatcherStateInterrupted indicates that the event watcher encountered an error that it
	// will attempt to recover from.
	//
	// In streaming mode, this means that the stream connection failed, or had to be dropped due to
	// some other error, and will be retried after a backoff delay. In polling mode, it means that
	// the last poll request failed, and a new poll request will be made after the configured
	// polling interval.
	EventWatcherStateInterrupted EventWatcherState = "INTERRUPTED"

	// EventWatcherStateOff indicates that the event watcher has been permanently shut down.
	//
	// This could be because it encountered an unrecoverable error (for instance, the API key is
	// invalid), or because the EventStream was closed.
	EventWatcherStateOff EventWatcherState = "OFF"
)

// EventWatcherErrorInfo is a description of an error condition that the event watcher encountered.
//
// See EventWatcherStatus.LastError.
type EventWatcherErrorInfo struct {
	// Kind is the general category of the error. It will always be one of the
	// EventWatcherErrorKind constants such as EventWatcherErrorKindNetworkError, or "" if there
	// have not been any errors.
	Kind EventWatcherErrorKind

	// StatusCode is the HTTP status code if the error was EventWatcherErrorKindErrorResponse, or
	// zero otherwise.
	StatusCode int

	// Message is any any additional human-readable information relevant to the error. The format
	// of this message is subject to change and should not be relied on programmatically.
	Message string

	// Time is the date/time that the error occurred.
	Time time.Time
}

// String returns a simple string representation of the error description.
func (e EventWatcherErrorInfo) String() string {
	ret := string(e.Kind)
	if e.StatusCode > 0 || e.Message != "" {
		ret += "("
		if e.StatusCode > 0 {
			ret += strconv.Itoa(e.StatusCode)
		}
		if e.Message != "" {
			if e.StatusCode > 0 {
				ret += ","
			}
			ret += e.Message
		}
		ret += ")"
	}
	if !e.Time.IsZero() {
		ret += "@" + e.Time.Format(time.RFC3339)
	}
	return ret
}

// EventWatcherErrorKind is any of the allowable values for EventWatcherErrorInfo.Kind.
type EventWatcherErrorKind string

const (
	// EventWatcherErrorKindUnknown indicates an unexpected error, such as an uncaught exception.
	EventWatcherErrorKindUnknown EventWatcherErrorKind = "UNKNOWN"

	// EventWatcherErrorKindNetworkError represents an I/O error such as a dropped connection.
	EventWatcherErrorKindNetworkError EventWatcherErrorKind = "NETWORK_ERROR"

	// EventWatcherErrorKindErrorResponse means the Eventline service returned an HTTP response
	// with an error status.
	EventWatcherErrorKindErrorResponse EventWatcherErrorKind = "ERROR_RESPONSE"

	// EventWatcherErrorKindInvalidData means the watcher received malformed data, such as a JSON
	// payload that could not be parsed as an event.
	EventWatcherErrorKindInvalidData EventWatcherErrorKind = "INVALID_DATA"
)
