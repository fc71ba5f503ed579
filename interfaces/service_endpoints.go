package interfaces

// ServiceEndpoints allow configuration of custom service URIs.
//
// If you want to set non-default values for any of these fields, set the ServiceEndpoints field
// in the client's Config struct. Most applications only ever set API, for instance to talk to an
// on-premises Eventline installation; Streaming only needs to be set if the SSE event stream is
// served from a different host than the regular API.
//
// See Config.ServiceEndpoints for more details.
type ServiceEndpoints struct {
	API       string
	Streaming string
}
