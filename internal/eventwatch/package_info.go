// Package eventwatch contains the client's event watcher implementations: the SSE streaming
// watcher, the polling watcher, and the sink that delivers watcher output to the rest of the SDK.
package eventwatch
