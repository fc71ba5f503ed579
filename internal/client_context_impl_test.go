package internal

import (
	"net/http"
	"testing"

	"github.com/exograd/go-eventline/internal/sharedtest"
	"github.com/exograd/go-eventline/subsystems"

	"github.com/stretchr/testify/assert"
)

func TestClientContextImpl(t *testing.T) {
	apiKey := "API_KEY"
	httpConfig := subsystems.HTTPConfiguration{DefaultHeaders: make(http.Header)}
	logging := sharedtest.TestLoggingConfig()

	basic := subsystems.BasicClientContext{APIKey: apiKey, ProjectID: "project-id"}
	context1 := NewClientContextImpl(basic, httpConfig, logging)
	assert.Equal(t, apiKey, context1.GetAPIKey())
	assert.Equal(t, "project-id", context1.GetProjectID())
	assert.Equal(t, httpConfig.DefaultHeaders, context1.GetHTTP().DefaultHeaders)
	assert.NotNil(t, context1.GetHTTP().CreateHTTPClient)
	assert.Equal(t, logging, context1.GetLogging())
	assert.Nil(t, context1.GetEventSink())
}
