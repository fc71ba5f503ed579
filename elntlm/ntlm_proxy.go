// Package elntlm allows you to configure the client to connect to the Eventline API through a
// proxy server that uses NTLM authentication. The standard Go HTTP client proxy mechanism does
// not support this. The implementation uses this package: github.com/launchdarkly/go-ntlm-proxy-auth
//
// See NewNTLMProxyHTTPClientFactory for more details.
package elntlm

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	ntlm "github.com/launchdarkly/go-ntlm-proxy-auth"

	"github.com/exograd/go-eventline/elhttp"
)

// NewNTLMProxyHTTPClientFactory returns a factory function for creating an HTTP client that will
// connect through an NTLM-authenticated proxy server.
//
// To use this with the client, pass the factory function to HTTPConfigurationBuilder.HTTPClientFactory:
//
//	clientFactory, err := elntlm.NewNTLMProxyHTTPClientFactory("http://my-proxy.com", "username",
//	    "password", "domain")
//	if err != nil {
//	    // there's some configuration problem such as an invalid proxy URL
//	}
//	config := eventline.Config{
//	    HTTP: elcomponents.HTTPConfiguration().HTTPClientFactory(clientFactory),
//	}
//
// You can also specify TLS configuration options from the elhttp package, if you are connecting to
// the proxy securely:
//
//	clientFactory, err := elntlm.NewNTLMProxyHTTPClientFactory("http://my-proxy.com", "username",
//	    "password", "domain", elhttp.CACertFileOption("my-proxy-cert.pem"))
func NewNTLMProxyHTTPClientFactory(proxyURL, username, password, domain string,
	options ...elhttp.TransportOption) (func() *http.Client, error) {
	if proxyURL == "" || username == "" || password == "" {
		return nil, errors.New("ProxyURL, username, and password are required")
	}
	parsedProxyURL, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid proxy URL %s: %w", proxyURL, err)
	}
	// Try creating a transport with these options just so we can fail fast if they're invalid
	if _, _, err := elhttp.NewHTTPTransport(options...); err != nil {
		return nil, err
	}
	return func() *http.Client {
		client := *http.DefaultClient
		if transport, dialer, err := elhttp.NewHTTPTransport(options...); err == nil {
			ntlmDialContext := ntlm.WrapDialContext(ntlm.DialContext(dialer), parsedProxyURL.Host,
				username, password, domain)
			transport.Proxy = nil
			transport.DialContext = ntlmDialContext
			client.Transport = transport
		}
		return &client
	}, nil
}
