package endpoints

const (
	// DefaultAPIBaseURI is the default base URI of the Eventline API service.
	DefaultAPIBaseURI = "https://api.eventline.net/v0"

	// DefaultStreamingBaseURI is the default base URI of the event streaming service. Eventline
	// serves the SSE stream from the same host as the regular API.
	DefaultStreamingBaseURI = DefaultAPIBaseURI

	// EventsStreamRequestPath is the URL path for the event streaming endpoint.
	EventsStreamRequestPath = "/events/stream"

	// EventsPollRequestPath is the URL path for the event polling endpoint.
	EventsPollRequestPath = "/events"
)
