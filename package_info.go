// Package eventline is the main package for the Eventline client SDK.
//
// This package contains the types and methods for the API client ([Client]) and its overall
// configuration ([Config]).
//
// Subpackages in the same repository provide additional functionality for specific features of the
// client. Most applications that need to change any configuration settings will use the package
// [github.com/exograd/go-eventline/elcomponents].
//
// API resources such as jobs, events and identities are represented by the types in the elmodel
// package ([github.com/exograd/go-eventline/elmodel]). Free-form JSON values in those resources,
// for instance event payloads and job parameters, use the ldvalue package
// ([github.com/launchdarkly/go-sdk-common/v3/ldvalue]).
//
// For more information about the Eventline platform, see https://www.eventline.net.
package eventline
