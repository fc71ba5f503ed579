package internal

// SDKVersion is the version of the go-eventline module. It is reported to the Eventline
// service in the User-Agent header of every request.
const SDKVersion = "1.0.0" // {{ x-release-please-version }}

// UserAgentHeaderValue is the complete User-Agent string sent by SDK components.
const UserAgentHeaderValue = "EventlineGoClient/" + SDKVersion
