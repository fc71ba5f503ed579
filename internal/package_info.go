// Package internal contains SDK implementation details that are shared between packages,
// but are not exposed to application code. The eventwatch and projectcache subpackages
// contain implementation components specific to their areas of functionality.
package internal
