// Package subsystems contains interfaces for implementation of custom Eventline client components.
//
// Most applications will not need to refer to these types. You will use them if you are creating a
// custom component, such as an alternative event watcher, or a test fixture. They are also used as
// interfaces for the built-in client components, so that custom components can be used
// interchangeably with those: for instance, Config.HTTP uses the type
// subsystems.ComponentConfigurer[subsystems.HTTPConfiguration] as an abstraction for the HTTP
// configuration.
//
// The package also includes concrete types that are used as parameters within these interfaces.
package subsystems
