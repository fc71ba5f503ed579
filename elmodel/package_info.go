// Package elmodel contains the data model types exposed by the Eventline API, such as projects,
// jobs, executions, and events, along with their JSON encodings.
//
// All types in this package are plain data containers. They are safe to copy and to share between
// goroutines as long as they are not modified concurrently.
package elmodel
