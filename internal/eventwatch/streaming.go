package eventwatch

import (
	"net/http"
	"sync"
	"time"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/interfaces"
	"github.com/exograd/go-eventline/internal"
	"github.com/exograd/go-eventline/internal/endpoints"
	"github.com/exograd/go-eventline/subsystems"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	es "github.com/launchdarkly/eventsource"

	"golang.org/x/exp/maps"
)

// Implementation of the streaming event watcher, not including the lower-level SSE implementation
// which is in the eventsource package.
//
// Error handling works as follows:
// 1. If any event payload is malformed, we may have lost data, so we set the watcher state to
// INTERRUPTED with an error kind of INVALID_DATA and restart the stream.
// 2. If we receive an unrecoverable error like HTTP 401, we close the stream and don't retry, and
// set the state to OFF. Any other HTTP error or network error causes a retry with backoff, with a
// state of INTERRUPTED.
// 3. Once the first connection has either succeeded or permanently failed, we notify the channel
// returned by start() so that client initialization logic can stop waiting. Otherwise, the client
// initialization method may time out but we will still be retrying in the background, and if we
// succeed then the client can detect that we're initialized now by calling our IsInitialized
// method.

const (
	eventNotificationName = "event"

	streamReadTimeout        = 5 * time.Minute // the Eventline stream sends a heartbeat comment between events
	streamMaxRetryDelay      = 30 * time.Second
	streamRetryResetInterval = 60 * time.Second
	streamJitterRatio        = 0.5
	defaultStreamRetryDelay  = 1 * time.Second

	streamingErrorContext     = "in stream connection"
	streamingWillRetryMessage = "will retry"
)

// StreamConfig describes the configuration for a streaming event watcher. It is exported so that
// it can be used in the StreamingEventsBuilder.
type StreamConfig struct {
	URI                   string
	InitialReconnectDelay time.Duration
}

// StreamProcessor is the internal implementation of the streaming event watcher.
//
// This type is exported from internal so that the StreamingEventsBuilder tests can verify its
// configuration. All other code outside of this package should interact with it only via the
// EventWatcher interface.
type StreamProcessor struct {
	cfg           StreamConfig
	sink          subsystems.EventSink
	client        *http.Client
	headers       http.Header
	loggers       ldlog.Loggers
	isInitialized internal.AtomicBoolean
	halt          chan struct{}
	readyOnce     sync.Once
	closeOnce     sync.Once
}

// NewStreamProcessor creates the internal implementation of the streaming event watcher.
func NewStreamProcessor(
	context subsystems.ClientContext,
	sink subsystems.EventSink,
	cfg StreamConfig,
) *StreamProcessor {
	sp := &StreamProcessor{
		sink:    sink,
		headers: context.GetHTTP().DefaultHeaders,
		loggers: context.GetLogging().Loggers,
		halt:    make(chan struct{}),
		cfg:     cfg,
	}

	sp.client = context.GetHTTP().CreateHTTPClient()
	// Client.Timeout isn't just a connect timeout, it will break the connection if a full response
	// isn't received within that time (which, with the stream, it never will be), so we must make
	// sure it's zero and not the usual configured default. What we do want is a *connection* timeout,
	// which is a property of the transport's Dialer.
	sp.client.Timeout = 0

	return sp
}

//nolint:revive // no doc comment for standard method
func (sp *StreamProcessor) IsInitialized() bool {
	return sp.isInitialized.Get()
}

//nolint:revive // no doc comment for standard method
func (sp *StreamProcessor) Start(closeWhenReady chan<- struct{}) {
	sp.loggers.Info("Starting Eventline streaming connection")
	go sp.subscribe(closeWhenReady)
}

func (sp *StreamProcessor) consumeStream(stream *es.Stream, closeWhenReady chan<- struct{}) {
	// Consume remaining Events and Errors so we can garbage collect
	defer func() {
		for range stream.Events {
		} // COVERAGE: no way to cause this condition in unit tests
		if stream.Errors != nil {
			for range stream.Errors { // COVERAGE: no way to cause this condition in unit tests
			}
		}
	}()

	for {
		select {
		case event, ok := <-stream.Events:
			if !ok {
				// COVERAGE: stream.Events is only closed if the EventSource has been closed. However, that
				// only happens when we have received from sp.halt, in which case we return immediately
				// after calling stream.Close(), terminating the for loop-- so we should not actually reach
				// this point. Still, in case the channel is somehow closed unexpectedly, we do want to
				// terminate the loop.
				return
			}

			processedEvent := true
			shouldRestart := false

			gotMalformedEvent := func(event es.Event, err error) {
				sp.loggers.Errorf(
					"Received streaming \"%s\" event with malformed JSON data (%s); will restart stream",
					event.Event(),
					err,
				)

				errorInfo := interfaces.EventWatcherErrorInfo{
					Kind:    interfaces.EventWatcherErrorKindInvalidData,
					Message: err.Error(),
					Time:    time.Now(),
				}
				sp.sink.UpdateStatus(interfaces.EventWatcherStateInterrupted, errorInfo)

				shouldRestart = true // scenario 1 in error handling comments at top of file
				processedEvent = false
			}

			switch event.Event() {
			case eventNotificationName:
				ev, err := parseEventData([]byte(event.Data()))
				if err != nil {
					gotMalformedEvent(event, err)
					break
				}
				sp.sink.Publish([]elmodel.Event{ev})

			default:
				sp.loggers.Infof("Unexpected event found in stream: %s", event.Event())
			}

			if processedEvent {
				sp.sink.UpdateStatus(interfaces.EventWatcherStateActive, interfaces.EventWatcherErrorInfo{})
			}
			if shouldRestart {
				stream.Restart()
			}

		case <-sp.halt:
			stream.Close()
			return
		}
	}
}

func (sp *StreamProcessor) subscribe(closeWhenReady chan<- struct{}) {
	req, reqErr := http.NewRequest("GET", endpoints.AddPath(sp.cfg.URI, endpoints.EventsStreamRequestPath), nil)
	if reqErr != nil {
		sp.loggers.Errorf(
			"Unable to create a stream request; this is not a network problem, most likely a bad base URI: %s",
			reqErr,
		)
		sp.sink.UpdateStatus(interfaces.EventWatcherStateOff, interfaces.EventWatcherErrorInfo{
			Kind:    interfaces.EventWatcherErrorKindUnknown,
			Message: reqErr.Error(),
			Time:    time.Now(),
		})
		close(closeWhenReady)
		return
	}
	if sp.headers != nil {
		req.Header = maps.Clone(sp.headers)
	}
	sp.loggers.Info("Connecting to Eventline event stream")

	initialRetryDelay := sp.cfg.InitialReconnectDelay
	if initialRetryDelay <= 0 { // COVERAGE: can't cause this condition in unit tests
		initialRetryDelay = defaultStreamRetryDelay
	}

	errorHandler := func(err error) es.StreamErrorHandlerResult {
		if se, ok := err.(es.SubscriptionError); ok {
			errorInfo := interfaces.EventWatcherErrorInfo{
				Kind:       interfaces.EventWatcherErrorKindErrorResponse,
				StatusCode: se.Code,
				Time:       time.Now(),
			}
			recoverable := checkIfErrorIsRecoverableAndLog(
				sp.loggers,
				httpErrorDescription(se.Code),
				streamingErrorContext,
				se.Code,
				streamingWillRetryMessage,
			)
			if recoverable {
				sp.sink.UpdateStatus(interfaces.EventWatcherStateInterrupted, errorInfo)
				return es.StreamErrorHandlerResult{CloseNow: false}
			}
			sp.sink.UpdateStatus(interfaces.EventWatcherStateOff, errorInfo)
			return es.StreamErrorHandlerResult{CloseNow: true}
		}

		checkIfErrorIsRecoverableAndLog(
			sp.loggers,
			err.Error(),
			streamingErrorContext,
			0,
			streamingWillRetryMessage,
		)
		errorInfo := interfaces.EventWatcherErrorInfo{
			Kind:    interfaces.EventWatcherErrorKindNetworkError,
			Message: err.Error(),
			Time:    time.Now(),
		}
		sp.sink.UpdateStatus(interfaces.EventWatcherStateInterrupted, errorInfo)
		return es.StreamErrorHandlerResult{CloseNow: false}
	}

	stream, err := es.SubscribeWithRequestAndOptions(req,
		es.StreamOptionHTTPClient(sp.client),
		es.StreamOptionReadTimeout(streamReadTimeout),
		es.StreamOptionInitialRetry(initialRetryDelay),
		es.StreamOptionUseBackoff(streamMaxRetryDelay),
		es.StreamOptionUseJitter(streamJitterRatio),
		es.StreamOptionRetryResetInterval(streamRetryResetInterval),
		es.StreamOptionErrorHandler(errorHandler),
		es.StreamOptionCanRetryFirstConnection(-1),
		es.StreamOptionLogger(sp.loggers.ForLevel(ldlog.Info)),
	)

	if err != nil {
		close(closeWhenReady)
		return
	}

	// Unlike a change-feed stream, the event stream has no initial payload: a successfully
	// established connection is what makes the watcher operational.
	sp.sink.UpdateStatus(interfaces.EventWatcherStateActive, interfaces.EventWatcherErrorInfo{})
	sp.setInitializedAndNotifyClient(closeWhenReady)

	sp.consumeStream(stream, closeWhenReady)
}

func (sp *StreamProcessor) setInitializedAndNotifyClient(closeWhenReady chan<- struct{}) {
	wasAlreadyInitialized := sp.isInitialized.GetAndSet(true)
	if !wasAlreadyInitialized {
		sp.loggers.Info("Eventline event streaming is active")
	}
	sp.readyOnce.Do(func() {
		close(closeWhenReady)
	})
}

//nolint:revive // no doc comment for standard method
func (sp *StreamProcessor) Close() error {
	sp.closeOnce.Do(func() {
		close(sp.halt)
		sp.sink.UpdateStatus(interfaces.EventWatcherStateOff, interfaces.EventWatcherErrorInfo{})
	})
	return nil
}

// GetBaseURI returns the configured streaming base URI, for testing.
func (sp *StreamProcessor) GetBaseURI() string {
	return sp.cfg.URI
}

// GetInitialReconnectDelay returns the configured reconnect delay, for testing.
func (sp *StreamProcessor) GetInitialReconnectDelay() time.Duration {
	return sp.cfg.InitialReconnectDelay
}

func parseEventData(data []byte) (elmodel.Event, error) {
	var ev elmodel.Event
	r := jreader.NewReader(data)
	ev.ReadFromJSONReader(&r)
	return ev, r.Error()
}
