package elcomponents

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/exograd/go-eventline/elhttp"
	"github.com/exograd/go-eventline/internal"
	"github.com/exograd/go-eventline/subsystems"

	"github.com/gregjones/httpcache"
)

// DefaultConnectTimeout is the HTTP connection timeout that is used if
// HTTPConfigurationBuilder.ConnectTimeout is not set.
const DefaultConnectTimeout = 10 * time.Second

// HTTPConfigurationBuilder contains methods for configuring the client's networking behavior.
//
// If you want to set non-default values for any of these properties, create a builder with
// HTTPConfiguration(), change its properties with the HTTPConfigurationBuilder methods, and store
// it in Config.HTTP:
//
//	config := eventline.Config{
//	    HTTP: elcomponents.HTTPConfiguration().
//	        ConnectTimeout(3 * time.Second).
//	        ProxyURL("https://my-proxy:8080"),
//	}
type HTTPConfigurationBuilder struct {
	connectTimeout    time.Duration
	customHeaders     map[string]string
	httpClientFactory func() *http.Client
	proxyURL          string
	responseCaching   bool
	transportOptions  []elhttp.TransportOption
	userAgent         string
}

// HTTPConfiguration returns a configuration builder for the client's HTTP configuration.
//
// The default configuration uses a 10-second connection timeout, no proxy unless one is set by
// the standard environment variables, and the system CA certificates.
func HTTPConfiguration() *HTTPConfigurationBuilder {
	return &HTTPConfigurationBuilder{}
}

func (b *HTTPConfigurationBuilder) checkValid() bool {
	if b == nil {
		internal.LogErrorNilPointerMethod("HTTPConfigurationBuilder")
		return false
	}
	return true
}

// CACert specifies a CA certificate to be added to the trusted root CA list for HTTPS requests.
//
// If the certificate is not valid, the Build method will return an error when the client is
// created.
func (b *HTTPConfigurationBuilder) CACert(certData []byte) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.transportOptions = append(b.transportOptions, elhttp.CACertOption(certData))
	}
	return b
}

// CACertFile specifies a file containing a CA certificate to be added to the trusted root CA
// list for HTTPS requests.
//
// If the certificate is not valid or the file does not exist, the Build method will return an
// error when the client is created.
func (b *HTTPConfigurationBuilder) CACertFile(filePath string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.transportOptions = append(b.transportOptions, elhttp.CACertFileOption(filePath))
	}
	return b
}

// ConnectTimeout sets the maximum time to wait for each HTTP connection to be established. It is
// also used as the overall request timeout for non-streaming requests. The default is
// DefaultConnectTimeout; values of zero or less revert to the default.
func (b *HTTPConfigurationBuilder) ConnectTimeout(connectTimeout time.Duration) *HTTPConfigurationBuilder {
	if b.checkValid() {
		if connectTimeout <= 0 {
			b.connectTimeout = DefaultConnectTimeout
		} else {
			b.connectTimeout = connectTimeout
		}
	}
	return b
}

// Header specifies a custom HTTP header that should be added to all requests. Repeated calls with
// the same key replace the previous value.
//
// This may be helpful if you are using a gateway or proxy that requires a specific header in
// requests.
func (b *HTTPConfigurationBuilder) Header(key string, value string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		if b.customHeaders == nil {
			b.customHeaders = make(map[string]string)
		}
		b.customHeaders[key] = value
	}
	return b
}

// HTTPClientFactory specifies a function for creating each HTTP client instance that is used by
// the client components.
//
// If you use this option, the other builder settings that affect the HTTP client (ConnectTimeout,
// CACert, CACertFile, ProxyURL, UseResponseCaching) are ignored, since the factory is entirely
// responsible for the client's behavior. Header, UserAgent, and the standard authorization
// headers still apply, since they modify requests rather than the client.
func (b *HTTPConfigurationBuilder) HTTPClientFactory(factory func() *http.Client) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.httpClientFactory = factory
	}
	return b
}

// ProxyURL specifies a proxy URL to be used for all requests. This overrides any setting of the
// HTTP_PROXY, HTTPS_PROXY, or NO_PROXY environment variables.
//
// If the string is not a valid URL, the Build method will return an error when the client is
// created.
func (b *HTTPConfigurationBuilder) ProxyURL(proxyURL string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.proxyURL = proxyURL
	}
	return b
}

// UserAgent specifies an additional User-Agent header value to send with HTTP requests. It is
// appended after the standard "EventlineGoClient/<version>" value.
func (b *HTTPConfigurationBuilder) UserAgent(userAgent string) *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.userAgent = userAgent
	}
	return b
}

// UseResponseCaching enables in-memory HTTP response caching for the client's requests, honoring
// the Cache-Control and ETag headers returned by the Eventline services.
//
// The polling event watcher always uses its own response cache, so this option only affects the
// regular API requests made by Client methods.
func (b *HTTPConfigurationBuilder) UseResponseCaching() *HTTPConfigurationBuilder {
	if b.checkValid() {
		b.responseCaching = true
	}
	return b
}

// Build is called internally by the client.
func (b *HTTPConfigurationBuilder) Build(clientContext subsystems.ClientContext) (subsystems.HTTPConfiguration, error) {
	if b == nil {
		return subsystems.HTTPConfiguration{}, errors.New("tried to build HTTPConfigurationBuilder as a nil pointer")
	}

	connectTimeout := b.connectTimeout
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}

	headers := make(http.Header)
	if clientContext.GetAPIKey() != "" {
		headers.Set("Authorization", "Bearer "+clientContext.GetAPIKey())
	}
	userAgent := internal.UserAgentHeaderValue
	if b.userAgent != "" {
		userAgent = userAgent + " " + b.userAgent
	}
	headers.Set("User-Agent", userAgent)
	for key, value := range b.customHeaders {
		headers.Set(key, value)
	}

	clientFactory := b.httpClientFactory
	if clientFactory == nil {
		transportOpts := b.transportOptions
		if b.proxyURL != "" {
			u, err := url.Parse(b.proxyURL)
			if err != nil {
				return subsystems.HTTPConfiguration{}, fmt.Errorf("invalid proxy URL %q: %w", b.proxyURL, err)
			}
			transportOpts = append(transportOpts, elhttp.ProxyOption(*u))
		}
		transportOpts = append(transportOpts, elhttp.ConnectTimeoutOption(connectTimeout))
		transport, _, err := elhttp.NewHTTPTransport(transportOpts...)
		if err != nil {
			return subsystems.HTTPConfiguration{}, err
		}
		var roundTripper http.RoundTripper = transport
		if b.responseCaching {
			roundTripper = &httpcache.Transport{
				Cache:               httpcache.NewMemoryCache(),
				MarkCachedResponses: true,
				Transport:           transport,
			}
		}
		clientFactory = func() *http.Client {
			client := *http.DefaultClient
			client.Timeout = connectTimeout
			client.Transport = roundTripper
			return &client
		}
	}

	return subsystems.HTTPConfiguration{
		DefaultHeaders:   headers,
		CreateHTTPClient: clientFactory,
	}, nil
}
