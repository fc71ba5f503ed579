package eventwatch

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/exograd/go-eventline/internal/sharedtest"
	"github.com/exograd/go-eventline/subsystems"
)

const testAPIKey = "test-api-key"

func basicClientContext() subsystems.ClientContext {
	return sharedtest.NewSimpleTestContext(testAPIKey)
}

func withMockEventSink(action func(*sharedtest.MockEventSink)) {
	s := sharedtest.NewMockEventSink()
	// currently don't need to defer any cleanup actions
	action(s)
}

func waitForReadyWithTimeout(t *testing.T, closeWhenReady <-chan struct{}, timeout time.Duration) {
	select {
	case <-closeWhenReady:
		return
	case <-time.After(timeout):
		require.Fail(t, "timed out waiting for event watcher to finish starting")
	}
}

type urlAppendingHTTPTransport string

func urlAppendingHTTPClientFactory(suffix string) func() *http.Client {
	return func() *http.Client {
		return &http.Client{Transport: urlAppendingHTTPTransport(suffix)}
	}
}

func (t urlAppendingHTTPTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	req := *r
	req.URL.Path = req.URL.Path + string(t)
	return http.DefaultTransport.RoundTrip(&req)
}
