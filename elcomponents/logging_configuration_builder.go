package elcomponents

import (
	"github.com/exograd/go-eventline/internal"
	"github.com/exograd/go-eventline/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

// LoggingConfigurationBuilder contains methods for configuring the client's logging behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// Logging(), change its properties with the LoggingConfigurationBuilder methods, and store it in
// Config.Logging:
//
//	config := eventline.Config{
//	    Logging: elcomponents.Logging().MinLevel(ldlog.Warn),
//	}
type LoggingConfigurationBuilder struct {
	inited bool
	config subsystems.LoggingConfiguration
}

// Logging returns a configuration builder for the client's logging configuration.
//
// The default configuration writes to standard error with a minimum level of ldlog.Info. To
// disable all logging, use NoLogging() instead.
func Logging() *LoggingConfigurationBuilder {
	return &LoggingConfigurationBuilder{}
}

func (b *LoggingConfigurationBuilder) checkValid() bool {
	if b == nil {
		internal.LogErrorNilPointerMethod("LoggingConfigurationBuilder")
		return false
	}
	if !b.inited {
		b.config = subsystems.LoggingConfiguration{Loggers: ldlog.NewDefaultLoggers()}
		b.inited = true
	}
	return true
}

// Loggers specifies an instance of ldlog.Loggers to use for client logging. The ldlog package
// contains methods for customizing the destination and level filtering of log output.
func (b *LoggingConfigurationBuilder) Loggers(loggers ldlog.Loggers) *LoggingConfigurationBuilder {
	if b.checkValid() {
		b.config.Loggers = loggers
	}
	return b
}

// MinLevel specifies the minimum level for log output, where ldlog.Debug is the lowest and
// ldlog.Error is the highest. Log messages at a level lower than this will be suppressed. The
// default is ldlog.Info.
//
// This is equivalent to creating an ldlog.Loggers instance, calling SetMinLevel() on it, and then
// passing it to LoggingConfigurationBuilder.Loggers().
func (b *LoggingConfigurationBuilder) MinLevel(level ldlog.LogLevel) *LoggingConfigurationBuilder {
	if b.checkValid() {
		b.config.Loggers.SetMinLevel(level)
	}
	return b
}

// Build is called internally by the client.
func (b *LoggingConfigurationBuilder) Build(clientContext subsystems.ClientContext) (subsystems.LoggingConfiguration, error) {
	if !b.checkValid() {
		defaults := LoggingConfigurationBuilder{}
		return defaults.Build(clientContext)
	}
	return b.config, nil
}

// NoLogging returns a configuration object that disables logging.
//
//	config := eventline.Config{
//	    Logging: elcomponents.NoLogging(),
//	}
func NoLogging() subsystems.ComponentConfigurer[subsystems.LoggingConfiguration] {
	return noLoggingConfigurationFactory{}
}

type noLoggingConfigurationFactory struct{}

func (f noLoggingConfigurationFactory) Build(
	clientContext subsystems.ClientContext,
) (subsystems.LoggingConfiguration, error) {
	return subsystems.LoggingConfiguration{Loggers: ldlog.NewDisabledLoggers()}, nil
}
