package testhelpers

import (
	"testing"

	"github.com/exograd/go-eventline/elcomponents"
	"github.com/exograd/go-eventline/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/stretchr/testify/assert"
)

func TestSimpleClientContext(t *testing.T) {
	basic := subsystems.BasicClientContext{APIKey: "key"}

	c := NewSimpleClientContext("key")
	assert.Equal(t, "key", c.GetAPIKey())

	// Note, can't test equality of HTTPConfiguration because it contains a function
	hc, _ := elcomponents.HTTPConfiguration().Build(basic)
	assert.Equal(t, hc.DefaultHeaders, c.GetHTTP().DefaultHeaders)

	lc, _ := elcomponents.Logging().Build(basic)
	assert.Equal(t, lc, c.GetLogging())

	h := elcomponents.HTTPConfiguration().UserAgent("u").Header("X-Custom-Header", "x")
	hc1, _ := h.Build(basic)
	assert.Equal(t, hc1.DefaultHeaders, c.WithHTTP(h).GetHTTP().DefaultHeaders)

	l := elcomponents.Logging().Loggers(ldlog.NewDefaultLoggers()).MinLevel(ldlog.Debug)
	lc1, _ := l.Build(basic)
	assert.Equal(t, lc1, c.WithLogging(l).GetLogging())
}
