package testhelpers

import (
	"github.com/exograd/go-eventline/elcomponents"
	"github.com/exograd/go-eventline/interfaces"
	"github.com/exograd/go-eventline/subsystems"
)

// SimpleClientContext is a reference implementation of subsystems.ClientContext for test code.
//
// The SDK uses the ClientContext interface to pass its configuration to subcomponents. Its standard
// implementation also contains other information that is only relevant to built-in SDK code.
// SimpleClientContext may be useful for external code to test a custom component.
type SimpleClientContext struct {
	apiKey  string
	http    subsystems.HTTPConfiguration
	logging subsystems.LoggingConfiguration
}

// NewSimpleClientContext creates a SimpleClientContext instance, with the default HTTP and logging
// configurations.
func NewSimpleClientContext(apiKey string) SimpleClientContext {
	ret := SimpleClientContext{apiKey: apiKey}
	ret.http, _ = elcomponents.HTTPConfiguration().Build(subsystems.BasicClientContext{APIKey: apiKey})
	ret.logging, _ = elcomponents.Logging().Build(subsystems.BasicClientContext{APIKey: apiKey})
	return ret
}

func (s SimpleClientContext) GetAPIKey() string { return s.apiKey } //nolint:revive

func (s SimpleClientContext) GetHTTP() subsystems.HTTPConfiguration { return s.http } //nolint:revive

func (s SimpleClientContext) GetLogging() subsystems.LoggingConfiguration { //nolint:revive
	return s.logging
}

func (s SimpleClientContext) GetServiceEndpoints() interfaces.ServiceEndpoints { //nolint:revive
	return interfaces.ServiceEndpoints{}
}

func (s SimpleClientContext) GetProjectID() string { return "" } //nolint:revive

func (s SimpleClientContext) GetEventSink() subsystems.EventSink { return nil } //nolint:revive

// WithHTTP returns a new SimpleClientContext based on the original one, but adding the specified
// HTTP configuration.
func (s SimpleClientContext) WithHTTP(
	httpConfig subsystems.ComponentConfigurer[subsystems.HTTPConfiguration],
) SimpleClientContext {
	ret := s
	ret.http, _ = httpConfig.Build(subsystems.BasicClientContext{APIKey: s.apiKey})
	return ret
}

// WithLogging returns a new SimpleClientContext based on the original one, but adding the specified
// logging configuration.
func (s SimpleClientContext) WithLogging(
	loggingConfig subsystems.ComponentConfigurer[subsystems.LoggingConfiguration],
) SimpleClientContext {
	ret := s
	ret.logging, _ = loggingConfig.Build(subsystems.BasicClientContext{APIKey: s.apiKey})
	return ret
}
