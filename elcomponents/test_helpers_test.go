package elcomponents

import (
	"github.com/exograd/go-eventline/internal/sharedtest"
	"github.com/exograd/go-eventline/subsystems"
)

const testAPIKey = "test-api-key"

func basicClientContext() subsystems.ClientContext {
	return sharedtest.NewSimpleTestContext(testAPIKey)
}

// Returns a basic context where all of the service endpoints point to the specified URI, with a
// mock sink installed so that event watcher factories can be exercised.
func makeTestContextWithBaseURIs(uri string) subsystems.BasicClientContext {
	context := sharedtest.NewTestContext(testAPIKey, nil, nil)
	context.ServiceEndpoints = SelfHostedEndpoints(uri)
	context.EventSink = sharedtest.NewMockEventSink()
	return context
}
