// Package sharedtest holds test fixtures and mock components used by the unit
// tests of multiple go-eventline packages.
//
// Being under internal/, nothing here is visible to application code, so it can
// change freely without affecting public APIs. Helpers meant for applications
// belong in testhelpers/ instead.
//
// Non-test code must never import this package, so that it is never compiled
// into applications as a transitive dependency. It also must not import the
// "internal" package itself: internal's tests use these helpers, and that
// would be a circular reference.
package sharedtest
