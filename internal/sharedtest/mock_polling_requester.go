package sharedtest

import "github.com/exograd/go-eventline/elmodel"

// MockPollingRequester is a mock used in polling watcher tests, to satisfy the
// eventwatch.Requester interface (used by PollingProcessor).
// Its purpose is to allow the PollingProcessor to be tested without involving actual HTTP
// operations.
type MockPollingRequester struct {
	RequestRespCh chan PollingRequestResponse
	PollsCh       chan elmodel.Cursor
	CloserCh      chan struct{}
}

// PollingRequestResponse is used to inject custom responses into the MockPollingRequester,
// which will subsequently return them to the object under test.
type PollingRequestResponse struct {
	Page   elmodel.Page[elmodel.Event]
	Cached bool
	Err    error
}

// NewMockPollingRequester constructs a MockPollingRequester.
func NewMockPollingRequester() *MockPollingRequester {
	return &MockPollingRequester{
		RequestRespCh: make(chan PollingRequestResponse, 100),
		PollsCh:       make(chan elmodel.Cursor, 100),
		CloserCh:      make(chan struct{}),
	}
}

// Close closes the MockPollingRequester's CloserCh.
func (r *MockPollingRequester) Close() {
	close(r.CloserCh)
}

// BaseURI exists to fulfil the eventwatch.Requester interface; here it returns an empty string.
func (r *MockPollingRequester) BaseURI() string {
	return ""
}

// Request blocks until a mock response is available on the RequestRespCh, or until closing via
// Close(). The cursor of each poll is pushed onto PollsCh so that tests can verify it.
func (r *MockPollingRequester) Request(cursor elmodel.Cursor) (elmodel.Page[elmodel.Event], bool, error) {
	select {
	case resp := <-r.RequestRespCh:
		r.PollsCh <- cursor
		return resp.Page, resp.Cached, resp.Err
	case <-r.CloserCh:
		return elmodel.Page[elmodel.Event]{}, false, nil
	}
}
