package eventwatch

import (
	"sync"
	"time"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/interfaces"
	"github.com/exograd/go-eventline/internal"
	"github.com/exograd/go-eventline/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const (
	pollingErrorContext     = "on polling request"
	pollingWillRetryMessage = "will retry at next scheduled poll interval"
)

// PollingConfig describes the configuration for a polling event watcher. It is exported so that
// it can be used in the PollingEventsBuilder.
type PollingConfig struct {
	BaseURI      string
	PollInterval time.Duration
	Limit        int
}

// Requester allows PollingProcessor to delegate fetching events to another component.
// This is useful for testing the PollingProcessor without needing to set up a test HTTP server.
type Requester interface {
	Request(cursor elmodel.Cursor) (page elmodel.Page[elmodel.Event], cached bool, err error)
	BaseURI() string
}

// PollingProcessor is the internal implementation of the polling event watcher.
//
// The first successful poll only establishes a baseline: the ID of the newest event that already
// exists. Subsequent polls ask for everything after the baseline, publish what they get, and move
// the baseline forward. This way the watcher delivers only events that occur after it was started,
// which is the same behavior as the streaming watcher.
//
// This type is exported from internal so that the PollingEventsBuilder tests can verify its
// configuration. All other code outside of this package should interact with it only via the
// EventWatcher interface.
type PollingProcessor struct {
	sink               subsystems.EventSink
	requester          Requester
	pollInterval       time.Duration
	limit              int
	afterID            string
	baselined          bool
	loggers            ldlog.Loggers
	setInitializedOnce sync.Once
	isInitialized      internal.AtomicBoolean
	quit               chan struct{}
	closeOnce          sync.Once
}

// NewPollingProcessor creates the internal implementation of the polling event watcher.
func NewPollingProcessor(
	context subsystems.ClientContext,
	sink subsystems.EventSink,
	cfg PollingConfig,
) *PollingProcessor {
	httpRequester := newPollingRequester(context, context.GetHTTP().CreateHTTPClient(), cfg.BaseURI)
	return newPollingProcessor(context, sink, httpRequester, cfg.PollInterval, cfg.Limit)
}

func newPollingProcessor(
	context subsystems.ClientContext,
	sink subsystems.EventSink,
	requester Requester,
	pollInterval time.Duration,
	limit int,
) *PollingProcessor {
	pp := &PollingProcessor{
		sink:         sink,
		requester:    requester,
		pollInterval: pollInterval,
		limit:        limit,
		loggers:      context.GetLogging().Loggers,
		quit:         make(chan struct{}),
	}
	return pp
}

//nolint:revive // no doc comment for standard method
func (pp *PollingProcessor) Start(closeWhenReady chan<- struct{}) {
	pp.loggers.Infof("Starting Eventline event polling with interval: %+v", pp.pollInterval)

	ticker := internal.NewTickerWithInitialTick(pp.pollInterval)

	go func() {
		defer ticker.Stop()

		var readyOnce sync.Once
		notifyReady := func() {
			readyOnce.Do(func() {
				close(closeWhenReady)
			})
		}
		// Ensure we stop waiting for initialization if we exit, even if initialization fails
		defer notifyReady()

		for {
			select {
			case <-pp.quit:
				return
			case <-ticker.C:
				if err := pp.poll(); err != nil {
					if hse, ok := err.(httpStatusError); ok {
						errorInfo := interfaces.EventWatcherErrorInfo{
							Kind:       interfaces.EventWatcherErrorKindErrorResponse,
							StatusCode: hse.Code,
							Time:       time.Now(),
						}
						recoverable := checkIfErrorIsRecoverableAndLog(
							pp.loggers,
							httpErrorDescription(hse.Code),
							pollingErrorContext,
							hse.Code,
							pollingWillRetryMessage,
						)
						if recoverable {
							pp.sink.UpdateStatus(interfaces.EventWatcherStateInterrupted, errorInfo)
						} else {
							pp.sink.UpdateStatus(interfaces.EventWatcherStateOff, errorInfo)
							notifyReady()
							return
						}
					} else {
						errorInfo := interfaces.EventWatcherErrorInfo{
							Kind:    interfaces.EventWatcherErrorKindNetworkError,
							Message: err.Error(),
							Time:    time.Now(),
						}
						if _, ok := err.(malformedJSONError); ok {
							errorInfo.Kind = interfaces.EventWatcherErrorKindInvalidData
						}
						checkIfErrorIsRecoverableAndLog(pp.loggers, err.Error(), pollingErrorContext, 0, pollingWillRetryMessage)
						pp.sink.UpdateStatus(interfaces.EventWatcherStateInterrupted, errorInfo)
					}
					continue
				}
				pp.sink.UpdateStatus(interfaces.EventWatcherStateActive, interfaces.EventWatcherErrorInfo{})
				pp.setInitializedOnce.Do(func() {
					pp.isInitialized.Set(true)
					pp.loggers.Info("First polling request successful")
					notifyReady()
				})
			}
		}
	}()
}

func (pp *PollingProcessor) poll() error {
	if !pp.baselined {
		// The newest existing event becomes the starting point; nothing is published for it.
		page, _, err := pp.requester.Request(elmodel.Cursor{Size: 1, Order: elmodel.OrderDesc})
		if err != nil {
			return err
		}
		pp.baselined = true
		if len(page.Elements) > 0 {
			pp.afterID = page.Elements[0].ID
		}
		return nil
	}

	for {
		cursor := elmodel.Cursor{After: pp.afterID, Size: pp.limit, Order: elmodel.OrderAsc}
		page, cached, err := pp.requester.Request(cursor)
		if err != nil {
			return err
		}
		// A cached response means the service still reports the same data as last time, so there
		// is nothing new to publish.
		if cached || len(page.Elements) == 0 {
			return nil
		}
		pp.sink.Publish(page.Elements)
		pp.afterID = page.Elements[len(page.Elements)-1].ID
		if !page.HasNext() {
			return nil
		}
	}
}

//nolint:revive // no doc comment for standard method
func (pp *PollingProcessor) Close() error {
	pp.closeOnce.Do(func() {
		close(pp.quit)
		pp.sink.UpdateStatus(interfaces.EventWatcherStateOff, interfaces.EventWatcherErrorInfo{})
	})
	return nil
}

//nolint:revive // no doc comment for standard method
func (pp *PollingProcessor) IsInitialized() bool {
	return pp.isInitialized.Get()
}

// GetBaseURI returns the configured polling base URI, for testing.
func (pp *PollingProcessor) GetBaseURI() string {
	return pp.requester.BaseURI()
}

// GetPollInterval returns the configured polling interval, for testing.
func (pp *PollingProcessor) GetPollInterval() time.Duration {
	return pp.pollInterval
}

// GetLimit returns the configured page size limit, for testing.
func (pp *PollingProcessor) GetLimit() int {
	return pp.limit
}
