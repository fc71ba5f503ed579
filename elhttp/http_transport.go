// Package elhttp provides helpers for advanced HTTP configuration of the Eventline client.
//
// Most applications will not need to use this package directly; the standard options in
// elcomponents.HTTPConfiguration() cover common needs such as connection timeouts, proxies, and
// custom CA certificates. Use elhttp if you need to construct a transport with the same behavior
// for your own HTTP clients, or to combine options in a custom HTTPClientFactory.
package elhttp

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"time"
)

const defaultConnectTimeout = 10 * time.Second

// DialContextFunc is the type of function used by http.Transport to open a network connection.
type DialContextFunc func(ctx context.Context, network, addr string) (net.Conn, error)

type transportExtraOptions struct {
	caCerts        *x509.CertPool
	connectTimeout time.Duration
	proxyURL       *url.URL
}

// TransportOption is the interface for optional configuration parameters that can be passed to
// NewHTTPTransport.
type TransportOption interface {
	apply(opts *transportExtraOptions) error
}

type connectTimeoutOption struct {
	timeout time.Duration
}

func (o connectTimeoutOption) apply(opts *transportExtraOptions) error {
	opts.connectTimeout = o.timeout
	return nil
}

// ConnectTimeoutOption specifies the maximum time to wait for a TCP connection, when used with
// NewHTTPTransport.
func ConnectTimeoutOption(timeout time.Duration) TransportOption {
	return connectTimeoutOption{timeout: timeout}
}

type caCertOption struct {
	certData []byte
}

func (o caCertOption) apply(opts *transportExtraOptions) error {
	if opts.caCerts == nil {
		var err error
		opts.caCerts, err = x509.SystemCertPool() // this returns a *copy* of the existing CA certs
		if err != nil {
			opts.caCerts = x509.NewCertPool()
		}
	}
	if !opts.caCerts.AppendCertsFromPEM(o.certData) {
		return errors.New("Invalid CA certificate data")
	}
	return nil
}

// CACertOption specifies a CA certificate to be added to the trusted root CA list for HTTPS
// requests, when used with NewHTTPTransport.
func CACertOption(certData []byte) TransportOption {
	return caCertOption{certData: certData}
}

type caCertFileOption struct {
	filePath string
}

func (o caCertFileOption) apply(opts *transportExtraOptions) error {
	bytes, err := os.ReadFile(o.filePath)
	if err != nil {
		return fmt.Errorf("Can't read CA certificate file %s", o.filePath)
	}
	return caCertOption{certData: bytes}.apply(opts)
}

// CACertFileOption specifies a file containing a CA certificate to be added to the trusted root
// CA list for HTTPS requests, when used with NewHTTPTransport.
func CACertFileOption(filePath string) TransportOption {
	return caCertFileOption{filePath: filePath}
}

type proxyOption struct {
	url url.URL
}

func (o proxyOption) apply(opts *transportExtraOptions) error {
	opts.proxyURL = &o.url
	return nil
}

// ProxyOption specifies a proxy URL to be used for all requests, overriding any setting of the
// HTTP_PROXY, HTTPS_PROXY, or NO_PROXY environment variables, when used with NewHTTPTransport.
func ProxyOption(url url.URL) TransportOption {
	return proxyOption{url: url}
}

// NewHTTPTransport creates a customized http.Transport struct using the specified options. It
// returns both the Transport and the associated DialContextFunc, which can be wrapped separately
// if desired (see elntlm).
func NewHTTPTransport(options ...TransportOption) (*http.Transport, DialContextFunc, error) {
	extraOptions := transportExtraOptions{
		connectTimeout: defaultConnectTimeout,
	}
	for _, o := range options {
		if err := o.apply(&extraOptions); err != nil {
			return nil, nil, err
		}
	}
	dialer := &net.Dialer{
		Timeout: extraOptions.connectTimeout,
		// The streaming event watcher relies on TCP keepalives to detect connections that were
		// dropped without a FIN or RST.
		KeepAlive: 1 * time.Minute,
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = dialer.DialContext
	if extraOptions.proxyURL != nil {
		transport.Proxy = http.ProxyURL(extraOptions.proxyURL)
	}
	if extraOptions.caCerts != nil {
		transport.TLSClientConfig = &tls.Config{RootCAs: extraOptions.caCerts}
	}
	return transport, dialer.DialContext, nil
}
