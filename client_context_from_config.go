package eventline

import (
	"github.com/exograd/go-eventline/elcomponents"
	"github.com/exograd/go-eventline/internal"
	"github.com/exograd/go-eventline/subsystems"
)

func newClientContextFromConfig(apiKey string, config Config) (*internal.ClientContextImpl, error) {
	basicConfig := subsystems.BasicClientContext{
		APIKey:           apiKey,
		ServiceEndpoints: config.ServiceEndpoints,
		ProjectID:        config.ProjectID,
	}

	loggingFactory := config.Logging
	if loggingFactory == nil {
		loggingFactory = elcomponents.Logging()
	}
	logging, err := loggingFactory.Build(basicConfig)
	if err != nil {
		return nil, err
	}
	basicConfig.Logging = logging

	httpFactory := config.HTTP
	if httpFactory == nil {
		httpFactory = elcomponents.HTTPConfiguration()
	}
	httpConfig, err := httpFactory.Build(basicConfig)
	if err != nil {
		return nil, err
	}
	basicConfig.HTTP = httpConfig

	return internal.NewClientContextImpl(basicConfig, httpConfig, logging), nil
}
