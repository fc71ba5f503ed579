package sharedtest

import (
	"github.com/exograd/go-eventline/subsystems"
)

// NewSimpleTestContext returns a basic implementation of subsystems.ClientContext for use in test code.
func NewSimpleTestContext(apiKey string) subsystems.ClientContext {
	return NewTestContext(apiKey, nil, nil)
}

// NewTestContext returns a basic implementation of subsystems.ClientContext for use in test code.
// We can't use internal.NewClientContextImpl for this because of circular references.
func NewTestContext(
	apiKey string,
	optHTTPConfig *subsystems.HTTPConfiguration,
	optLoggingConfig *subsystems.LoggingConfiguration,
) subsystems.BasicClientContext {
	ret := subsystems.BasicClientContext{APIKey: apiKey}
	if optHTTPConfig != nil {
		ret.HTTP = *optHTTPConfig
	}
	if optLoggingConfig != nil {
		ret.Logging = *optLoggingConfig
	} else {
		ret.Logging = TestLoggingConfig()
	}
	return ret
}

// TestLoggingConfig returns a LoggingConfiguration corresponding to NewTestLoggers().
func TestLoggingConfig() subsystems.LoggingConfiguration {
	return subsystems.LoggingConfiguration{Loggers: NewTestLoggers()}
}
