// Package projectcache is the internal component that resolves project names to project
// identifiers, caching the results.
package projectcache
