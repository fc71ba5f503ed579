// Package elservices provides HTTP handlers that simulate the behavior of Eventline service endpoints.
//
// This is mainly intended for use in the SDK's unit tests, but it could be useful in testing other
// applications that use the SDK if it is desirable to use real HTTP rather than other kinds of test
// fixtures.
package elservices
