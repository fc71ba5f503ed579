package subsystems

import (
	"net/http"

	"github.com/exograd/go-eventline/interfaces"
)

// ClientContext provides context information from the client when creating other components.
//
// This is passed as a parameter to the Build methods of ComponentConfigurer implementations. The
// actual implementation type may contain other properties that are only relevant to the built-in
// client components and are therefore not part of the public interface; this allows the client to
// add its own context information as needed without disturbing the public API. However, for test
// purposes you may use the simple struct type BasicClientContext.
type ClientContext interface {
	// GetAPIKey returns the configured Eventline API key.
	GetAPIKey() string

	// GetHTTP returns the configured HTTPConfiguration.
	GetHTTP() HTTPConfiguration

	// GetLogging returns the configured LoggingConfiguration.
	GetLogging() LoggingConfiguration

	// GetServiceEndpoints returns the configuration for service URIs.
	GetServiceEndpoints() interfaces.ServiceEndpoints

	// GetProjectID returns the identifier of the project the client is scoped to, or "" if the
	// client has no project scope. If the client was configured with a project name, the name has
	// already been resolved to an identifier by the time components are built.
	GetProjectID() string

	// GetEventSink returns the component that EventWatcher implementations use to deliver events
	// and status updates to the client.
	//
	// This component is only available when the client is creating an EventWatcher. Otherwise the
	// method returns nil.
	GetEventSink() EventSink
}

// BasicClientContext is the basic implementation of the ClientContext interface, not including any
// private fields that the client may use for implementation details.
type BasicClientContext struct {
	APIKey           string
	HTTP             HTTPConfiguration
	Logging          LoggingConfiguration
	ServiceEndpoints interfaces.ServiceEndpoints
	ProjectID        string
	EventSink        EventSink
}

func (b BasicClientContext) GetAPIKey() string { return b.APIKey } //nolint:revive

func (b BasicClientContext) GetHTTP() HTTPConfiguration { //nolint:revive
	ret := b.HTTP
	if ret.CreateHTTPClient == nil {
		ret.CreateHTTPClient = func() *http.Client {
			client := *http.DefaultClient
			return &client
		}
	}
	return ret
}

func (b BasicClientContext) GetLogging() LoggingConfiguration { return b.Logging } //nolint:revive

func (b BasicClientContext) GetServiceEndpoints() interfaces.ServiceEndpoints { //nolint:revive
	return b.ServiceEndpoints
}

func (b BasicClientContext) GetProjectID() string { return b.ProjectID } //nolint:revive

func (b BasicClientContext) GetEventSink() EventSink { return b.EventSink } //nolint:revive
