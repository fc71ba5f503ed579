package elcomponents

import "github.com/exograd/go-eventline/interfaces"

// SelfHostedEndpoints specifies a single base URI for a self-hosted Eventline installation,
// telling the client to use it for all services.
//
// A self-hosted installation serves the regular API and the event stream from the same host, so
// the client only needs to know one base URI.
//
// Store this value in the ServiceEndpoints field of your client configuration. For example:
//
//	baseURI := "http://my-eventline-hostname:8085/v0"
//	config := eventline.Config{
//	    ServiceEndpoints: elcomponents.SelfHostedEndpoints(baseURI),
//	}
//
// If the event stream is served from a different host, set the fields of
// interfaces.ServiceEndpoints individually instead.
//
// See Config.ServiceEndpoints for more details.
func SelfHostedEndpoints(baseURI string) interfaces.ServiceEndpoints {
	return interfaces.ServiceEndpoints{
		API:       baseURI,
		Streaming: baseURI,
	}
}
