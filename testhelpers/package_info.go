// Package testhelpers contains types and functions that may be useful in testing SDK functionality or
// custom integrations.
//
// It contains the subpackage elservices, which provides HTTP handlers that simulate the Eventline
// service endpoints.
//
// The APIs in this package and its subpackages are supported as part of the SDK.
package testhelpers

// Implementation note: the types and functions in this package are mainly meant for external use, but may
// be useful in SDK tests. Anything that is *only* for SDK tests should be in internal/sharedtest instead.
// Avoid putting anything here that depends on the main package, since then it could not be used in the
// main package's own tests without causing a cyclic reference (that's why elservices is a separate
// package).
