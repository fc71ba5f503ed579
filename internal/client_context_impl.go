package internal

import (
	"github.com/exograd/go-eventline/subsystems"
)

// ClientContextImpl is the client's standard implementation of subsystems.ClientContext. It may
// carry additional properties that are shared between built-in components but are not part of the
// public interface.
type ClientContextImpl struct {
	subsystems.BasicClientContext
}

// NewClientContextImpl creates the internal implementation of ClientContext. The HTTP and logging
// configurations are passed separately because they are built from component factories that
// themselves receive the basic context.
func NewClientContextImpl(
	basic subsystems.BasicClientContext,
	httpConfig subsystems.HTTPConfiguration,
	loggingConfig subsystems.LoggingConfiguration,
) *ClientContextImpl {
	basic.HTTP = httpConfig
	basic.Logging = loggingConfig
	return &ClientContextImpl{BasicClientContext: basic}
}
