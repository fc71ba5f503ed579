package eventwatch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/interfaces"
	"github.com/exograd/go-eventline/internal/sharedtest"
	"github.com/exograd/go-eventline/subsystems"
	"github.com/exograd/go-eventline/testhelpers/elservices"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"

	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/stretchr/testify/assert"
)

const (
	briefDelay                     = time.Millisecond * 50
	streamProcessorTestHeaderName  = "my-header"
	streamProcessorTestHeaderValue = "my-value"
)

type streamingTestParams struct {
	sink        *sharedtest.MockEventSink
	stream      httphelpers.SSEStreamControl
	extraStream httphelpers.SSEStreamControl
	requests    <-chan httphelpers.HTTPRequestInfo
	mockLog     *ldlogtest.MockLog
}

func runStreamingTest(
	t *testing.T,
	test func(streamingTestParams),
) {
	streamHandler, stream := elservices.EventStreamServiceHandler()

	// We provide a second stream handler so that if the first stream gets explicitly closed by a
	// test, we'll be able to reconnect (a closed stream handler can't be reused)
	extraStreamHandler, extraStream := elservices.EventStreamServiceHandler()

	handler, requestsCh := httphelpers.RecordingHandler(
		httphelpers.SequentialHandler(streamHandler, extraStreamHandler),
	)

	headers := make(http.Header)
	headers.Set(streamProcessorTestHeaderName, streamProcessorTestHeaderValue)
	mockLog := ldlogtest.NewMockLog()
	mockLog.Loggers.SetMinLevel(ldlog.Debug)
	context := sharedtest.NewTestContext(testAPIKey,
		&subsystems.HTTPConfiguration{DefaultHeaders: headers},
		&subsystems.LoggingConfiguration{Loggers: mockLog.Loggers})

	httphelpers.WithServer(handler, func(streamServer *httptest.Server) {
		withMockEventSink(func(sink *sharedtest.MockEventSink) {
			sp := NewStreamProcessor(
				context,
				sink,
				StreamConfig{
					URI:                   streamServer.URL,
					InitialReconnectDelay: briefDelay,
				},
			)
			defer sp.Close()

			closeWhenReady := make(chan struct{})

			sp.Start(closeWhenReady)

			select {
			case <-closeWhenReady:
			case <-time.After(time.Second):
				assert.Fail(t, "start timeout")
				return
			}

			params := streamingTestParams{sink, stream, extraStream, requestsCh, mockLog}
			test(params)
		})
	})
}

func TestStreamProcessor(t *testing.T) {
	t.Parallel()

	t.Run("configured headers are passed in request", func(t *testing.T) {
		runStreamingTest(t, func(p streamingTestParams) {
			r := <-p.requests
			assert.Equal(t, streamProcessorTestHeaderValue, r.Request.Header.Get(streamProcessorTestHeaderName))
			assert.Equal(t, elservices.EventsStreamingPath, r.Request.URL.Path)
		})
	})

	t.Run("connecting makes the watcher active", func(t *testing.T) {
		runStreamingTest(t, func(p streamingTestParams) {
			p.sink.RequireStatusOf(t, interfaces.EventWatcherStateActive)
		})
	})

	t.Run("events are published", func(t *testing.T) {
		event := elservices.NewTestEvent("evt-1")
		runStreamingTest(t, func(p streamingTestParams) {
			p.stream.Send(elservices.EventSSEMessage(event))

			assert.Equal(t, []elmodel.Event{event}, p.sink.RequireEvents(t))
		})
	})

	t.Run("events are published in the order they occur", func(t *testing.T) {
		event1 := elservices.NewTestEvent("evt-1")
		event2 := elservices.NewTestEvent("evt-2")
		runStreamingTest(t, func(p streamingTestParams) {
			p.stream.Send(elservices.EventSSEMessage(event1))
			p.stream.Send(elservices.EventSSEMessage(event2))

			assert.Equal(t, []elmodel.Event{event1}, p.sink.RequireEvents(t))
			assert.Equal(t, []elmodel.Event{event2}, p.sink.RequireEvents(t))
		})
	})
}

func TestStreamProcessorRecoverableErrorsCauseStreamRestart(t *testing.T) {
	t.Parallel()

	expectRestart := func(t *testing.T, p streamingTestParams) {
		<-p.requests // ignore initial HTTP request
		select {
		case <-p.requests:
			break
		case <-time.After(time.Millisecond * 300):
			assert.Fail(t, "expected stream restart, did not see one")
			return
		}
		p.sink.RequireStatusOf(t, interfaces.EventWatcherStateActive)      // the initial connection
		p.sink.RequireStatusOf(t, interfaces.EventWatcherStateInterrupted) // the error
	}

	for _, status := range []int{400, 500} {
		t.Run(fmt.Sprintf("HTTP status %d", status), func(t *testing.T) {
			testStreamProcessorRecoverableHTTPError(t, status)
		})
	}

	t.Run("dropped connection", func(t *testing.T) {
		runStreamingTest(t, func(p streamingTestParams) {
			p.stream.EndAll()
			<-time.After(300 * time.Millisecond)
			expectRestart(t, p)
			p.mockLog.AssertMessageMatch(t, true, ldlog.Warn, ".*Error in stream connection")

			// There is no initial payload on a stream connection, so the watcher becomes active
			// again when events flow on the new connection.
			event := elservices.NewTestEvent("evt-after-restart")
			p.extraStream.Enqueue(elservices.EventSSEMessage(event))
			assert.Equal(t, []elmodel.Event{event}, p.sink.RequireEvents(t))
			p.sink.RequireStatusOf(t, interfaces.EventWatcherStateActive)
		})
	})

	t.Run("event with malformed JSON", func(t *testing.T) {
		runStreamingTest(t, func(p streamingTestParams) {
			p.stream.Send(httphelpers.SSEEvent{Event: eventNotificationName, Data: `{"id": }"`})
			expectRestart(t, p)
			p.mockLog.AssertMessageMatch(t, true, ldlog.Error, ".*malformed JSON data.*will restart")
		})
	})

	t.Run("event with well-formed JSON but missing required fields", func(t *testing.T) {
		runStreamingTest(t, func(p streamingTestParams) {
			p.stream.Send(httphelpers.SSEEvent{Event: eventNotificationName, Data: `{"id": "evt-1"}`})
			expectRestart(t, p)
			p.mockLog.AssertMessageMatch(t, true, ldlog.Error, ".*malformed JSON data.*will restart")
		})
	})
}

func TestStreamProcessorUnrecoverableErrorsCauseStreamShutdown(t *testing.T) {
	for _, status := range []int{401, 403} {
		t.Run(fmt.Sprintf("HTTP status %d", status), func(t *testing.T) {
			testStreamProcessorUnrecoverableHTTPError(t, status)
		})
	}
}

func TestStreamProcessorUnrecognizedDataIsIgnored(t *testing.T) {
	t.Parallel()

	expectNoRestart := func(t *testing.T, p streamingTestParams) {
		<-p.requests // ignore initial HTTP request

		select {
		case <-p.requests:
			assert.Fail(t, "stream restarted unexpectedly")
		case <-time.After(time.Millisecond * 100):
		}

		assert.Len(t, p.mockLog.GetOutput(ldlog.Error), 0)

		p.sink.RequireStatusOf(t, interfaces.EventWatcherStateActive) // the initial connection
		select {
		case status := <-p.sink.Statuses:
			assert.Fail(t, "unexpected watcher status change", "new status: %+v", status)
		case <-time.After(time.Millisecond * 100):
		}
	}

	t.Run("unknown message type", func(t *testing.T) {
		runStreamingTest(t, func(p streamingTestParams) {
			p.stream.Send(httphelpers.SSEEvent{Event: "weird-event", Data: `x`})
			expectNoRestart(t, p)
		})
	})
}

func testStreamProcessorUnrecoverableHTTPError(t *testing.T, statusCode int) {
	httphelpers.WithServer(httphelpers.HandlerWithStatus(statusCode), func(ts *httptest.Server) {
		withMockEventSink(func(sink *sharedtest.MockEventSink) {
			sp := NewStreamProcessor(basicClientContext(), sink, StreamConfig{
				URI:                   ts.URL,
				InitialReconnectDelay: time.Second,
			})
			defer sp.Close()

			closeWhenReady := make(chan struct{})

			sp.Start(closeWhenReady)

			select {
			case <-closeWhenReady:
				assert.False(t, sp.IsInitialized())
			case <-time.After(time.Second * 3):
				assert.Fail(t, "Initialization shouldn't block after this error")
			}

			status := sink.RequireStatusOf(t, interfaces.EventWatcherStateOff)
			assert.Equal(t, interfaces.EventWatcherErrorKindErrorResponse, status.LastError.Kind)
			assert.Equal(t, statusCode, status.LastError.StatusCode)
		})
	})
}

func testStreamProcessorRecoverableHTTPError(t *testing.T, statusCode int) {
	streamHandler, _ := elservices.EventStreamServiceHandler()
	sequentialHandler := httphelpers.SequentialHandler(
		httphelpers.HandlerWithStatus(statusCode), // fails the first time
		streamHandler, // then gets a valid stream
	)
	httphelpers.WithServer(sequentialHandler, func(ts *httptest.Server) {
		withMockEventSink(func(sink *sharedtest.MockEventSink) {
			sp := NewStreamProcessor(basicClientContext(), sink, StreamConfig{
				URI:                   ts.URL,
				InitialReconnectDelay: briefDelay,
			})
			defer sp.Close()

			closeWhenReady := make(chan struct{})
			sp.Start(closeWhenReady)

			select {
			case <-closeWhenReady:
				assert.True(t, sp.IsInitialized())
			case <-time.After(time.Second * 3):
				assert.Fail(t, "Should have successfully retried before now")
			}

			// should have gotten two status updates: first for the error, then the success
			status1 := sink.RequireStatusOf(t, interfaces.EventWatcherStateInterrupted)
			assert.Equal(t, interfaces.EventWatcherErrorKindErrorResponse, status1.LastError.Kind)
			assert.Equal(t, statusCode, status1.LastError.StatusCode)
			_ = sink.RequireStatusOf(t, interfaces.EventWatcherStateActive)
		})
	})
}
