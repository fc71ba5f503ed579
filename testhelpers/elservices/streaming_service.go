package elservices

import (
	"net/http"

	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"
)

// EventsStreamingPath is the expected request path for event stream requests.
const EventsStreamingPath = "/events/stream"

// EventStreamServiceHandler creates an HTTP handler to mimic the Eventline event stream endpoint.
// It uses httphelpers.SSEHandler(), while also enforcing that the request path is
// EventsStreamingPath and that the method is GET.
//
// The stream starts out empty, since an Eventline stream only carries events as they occur.
//
//	handler, stream := elservices.EventStreamServiceHandler()
//	server := httptest.NewServer(handler)
//	stream.Enqueue(elservices.EventSSEMessage(event)) // push an event
//	stream.Close() // force any current stream connections to be closed
func EventStreamServiceHandler() (http.Handler, httphelpers.SSEStreamControl) {
	handler, stream := httphelpers.SSEHandler(nil)
	return httphelpers.HandlerForPath(EventsStreamingPath, httphelpers.HandlerForMethod("GET", handler, nil), nil),
		stream
}
