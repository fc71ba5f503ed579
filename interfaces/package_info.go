// Package interfaces contains types that are shared between the main Eventline client API
// and lower-level component interfaces.
//
// These types are defined here, instead of in the main package or in subsystems, so that
// application code and component implementations can both refer to them without import cycles.
package interfaces
