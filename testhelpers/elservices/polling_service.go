package elservices

import (
	"encoding/json"
	"net/http"

	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"
)

// EventsPollingPath is the expected request path for event polling requests.
const EventsPollingPath = "/events"

// EventPollingServiceHandler creates an HTTP handler to mimic the Eventline event listing endpoint.
// It returns a 200 response with the JSON encoding of data for all GET requests to
// EventsPollingPath; any other path returns a 404 and any other method a 405.
//
// The data is marshalled again for each request, so tests can mutate a fixture between polls.
//
//	data := elservices.NewEventPageData(event1, event2)
//	handler := elservices.EventPollingServiceHandler(data)
func EventPollingServiceHandler(data interface{}) http.Handler {
	jsonHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bytes, _ := json.Marshal(data)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(bytes)
	})
	return httphelpers.HandlerForPath(EventsPollingPath,
		httphelpers.HandlerForMethod("GET", jsonHandler, nil), nil)
}
