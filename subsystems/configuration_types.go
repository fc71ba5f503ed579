package subsystems

import (
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// HTTPConfiguration is the internal representation of the HTTP parameters produced by the builder
// in elcomponents.HTTPConfiguration(). All client components that make HTTP requests use it.
type HTTPConfiguration struct {
	// DefaultHeaders contains the basic headers that should be added to all HTTP requests from
	// client components to Eventline services, based on the current configuration. This includes
	// the Authorization header when an API key is set.
	DefaultHeaders http.Header

	// CreateHTTPClient is a function that returns a new HTTP client instance based on the
	// configuration.
	//
	// The client creates an http.Client instance when it is initialized, and components like the
	// event watcher may create additional instances of their own.
	CreateHTTPClient func() *http.Client
}

// LoggingConfiguration is the internal representation of the logging parameters produced by the
// builder in elcomponents.Logging().
type LoggingConfiguration struct {
	// Loggers is the configured ldlog.Loggers instance.
	Loggers ldlog.Loggers
}
