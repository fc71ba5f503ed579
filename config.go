package eventline

import (
	"github.com/exograd/go-eventline/interfaces"
	"github.com/exograd/go-eventline/subsystems"
)

// Config exposes advanced configuration options for the Eventline client.
//
// All of these settings are optional, so an empty Config struct is always valid. See the
// description of each field for the default behavior if it is not set.
//
// Some of the Config fields are factories for subcomponents of the client. The types of these
// fields are interfaces; the actual implementation types, which have methods for configuring that
// subcomponent, are normally provided by corresponding functions in the elcomponents package
// (https://pkg.go.dev/github.com/exograd/go-eventline/elcomponents). For instance, to set the HTTP
// field to a configuration in which requests time out after 5 seconds:
//
//	var config eventline.Config
//	config.HTTP = elcomponents.HTTPConfiguration().ConnectTimeout(time.Second * 5)
//
// The interfaces are defined separately from the built-in component implementations because you
// could also define your own implementation, for custom integrations.
type Config struct {
	// Provides configuration of the client's network connection behavior.
	//
	// If nil, the default is elcomponents.HTTPConfiguration(); see that method for an explanation
	// of how to further configure these options.
	//
	//	// example: set connection timeout to 8 seconds and use a proxy server
	//	config.HTTP = elcomponents.HTTPConfiguration().ConnectTimeout(8 * time.Second).ProxyURL(myProxyURL)
	HTTP subsystems.ComponentConfigurer[subsystems.HTTPConfiguration]

	// Provides configuration of the client's logging behavior.
	//
	// If nil, the default is elcomponents.Logging(); see that method for an explanation of how to
	// further configure logging behavior. The other option is elcomponents.NoLogging().
	//
	// This example sets the minimum logging level to Warn, so Debug and Info messages will not be
	// logged:
	//
	//	// example: enable logging only for Warn level and above
	//	// (note: ldlog is github.com/launchdarkly/go-sdk-common/v3/ldlog)
	//	config.Logging = elcomponents.Logging().MinLevel(ldlog.Warn)
	Logging subsystems.ComponentConfigurer[subsystems.LoggingConfiguration]

	// Provides configuration of custom service base URIs.
	//
	// Set this field only if you want to specify non-default values for any of the URIs. You may
	// set individual values such as API, or use the helper method
	// elcomponents.SelfHostedEndpoints().
	//
	// The default behavior, if you do not set any of these values, is that the client will connect
	// to the standard endpoints of the hosted Eventline service. The most common reason for
	// changing them is that you are running your own Eventline installation:
	//
	//	config := eventline.Config{
	//	    ServiceEndpoints: elcomponents.SelfHostedEndpoints("https://eventline.example.com/v0"),
	//	}
	//
	// If none of the fields are set, the EVENTLINE_API_URI environment variable is also honored as
	// a self-hosted base URI.
	ServiceEndpoints interfaces.ServiceEndpoints

	// ProjectID is the identifier of the project that API requests are scoped to.
	//
	// Most of the Eventline API operates on the resources of a single project, identified by a
	// request header. If ProjectID and ProjectName are both empty, the client falls back to the
	// EVENTLINE_PROJECT_ID and EVENTLINE_PROJECT environment variables; if no project scope is
	// configured at all, requests are sent without the header and the service will reject
	// operations that require one.
	ProjectID string

	// ProjectName is the name of the project that API requests are scoped to. It is ignored if
	// ProjectID is set.
	//
	// The client resolves the name to a project identifier on demand, and caches the resolution
	// for a short time.
	ProjectName string
}
