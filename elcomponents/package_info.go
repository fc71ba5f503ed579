// Package elcomponents provides the configuration builders for the configurable components of the
// Eventline client.
//
// Some of the configuration options in eventline.Config are plain values, but for the HTTP,
// logging, and event watching components you use a builder from this package and store it in the
// corresponding Config field, as described on each builder.
package elcomponents
