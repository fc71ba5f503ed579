package eventline

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"sync"

	"github.com/exograd/go-eventline/elcomponents"
	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/interfaces"
	"github.com/exograd/go-eventline/internal"
	"github.com/exograd/go-eventline/internal/endpoints"
	"github.com/exograd/go-eventline/internal/projectcache"

	"github.com/launchdarkly/go-jsonstream/v3/jreader"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"golang.org/x/exp/maps"
)

// Version is the client SDK version.
const Version = internal.SDKVersion

// Environment variables that MakeClient and MakeCustomClient consult when the corresponding
// configuration values are empty.
const (
	// APIKeyEnvVar supplies the API key when none is passed to MakeClient.
	APIKeyEnvVar = "EVENTLINE_API_KEY"

	// APIURIEnvVar supplies a self-hosted base URI when Config.ServiceEndpoints is empty.
	APIURIEnvVar = "EVENTLINE_API_URI"

	// ProjectIDEnvVar supplies the project scope when Config.ProjectID and Config.ProjectName are
	// both empty.
	ProjectIDEnvVar = "EVENTLINE_PROJECT_ID"

	// ProjectNameEnvVar supplies the project scope, as a project name, when Config.ProjectID,
	// Config.ProjectName and EVENTLINE_PROJECT_ID are all empty.
	ProjectNameEnvVar = "EVENTLINE_PROJECT"
)

const projectIDHeader = "X-Eventline-Project-Id"

// Client is a client for the Eventline API.
//
// A Client is created with MakeClient or MakeCustomClient, is safe for concurrent use, and should
// be retained for the lifetime of the application rather than created per request. Close releases
// the resources it holds.
type Client struct {
	apiKey         string
	loggers        ldlog.Loggers
	httpClient     *http.Client
	defaultHeaders http.Header
	apiBaseURI     string
	projectID      string
	projectName    string
	projects       *projectcache.Manager
	clientContext  *internal.ClientContextImpl
	streams        map[*EventStream]struct{}
	closed         internal.AtomicBoolean
	closeOnce      sync.Once
	lock           sync.Mutex
}

// MakeClient creates a client that connects to the hosted Eventline service with the default
// configuration.
//
// If apiKey is empty, the EVENTLINE_API_KEY environment variable is used instead; if that is also
// empty, the error is ErrNoAPIKey. For advanced configuration options, use MakeCustomClient.
func MakeClient(apiKey string) (*Client, error) {
	return MakeCustomClient(apiKey, Config{})
}

// MakeCustomClient creates a client with a custom configuration. See Config for the available
// options and their environment variable fallbacks.
func MakeCustomClient(apiKey string, config Config) (*Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv(APIKeyEnvVar)
	}
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	if config.ServiceEndpoints == (interfaces.ServiceEndpoints{}) {
		if uri := os.Getenv(APIURIEnvVar); uri != "" {
			config.ServiceEndpoints = elcomponents.SelfHostedEndpoints(uri)
		}
	}
	if config.ProjectID == "" && config.ProjectName == "" {
		config.ProjectID = os.Getenv(ProjectIDEnvVar)
		if config.ProjectID == "" {
			config.ProjectName = os.Getenv(ProjectNameEnvVar)
		}
	}

	clientContext, err := newClientContextFromConfig(apiKey, config)
	if err != nil {
		return nil, err
	}
	loggers := clientContext.GetLogging().Loggers
	loggers.Infof("Starting Eventline client %s", Version)

	httpConfig := clientContext.GetHTTP()
	client := &Client{
		apiKey:         apiKey,
		loggers:        loggers,
		httpClient:     httpConfig.CreateHTTPClient(),
		defaultHeaders: httpConfig.DefaultHeaders,
		apiBaseURI: endpoints.SelectBaseURI(
			config.ServiceEndpoints,
			endpoints.APIService,
			"",
			loggers,
		),
		projectID:     config.ProjectID,
		projectName:   config.ProjectName,
		clientContext: clientContext,
		streams:       make(map[*EventStream]struct{}),
	}
	client.projects = projectcache.NewManager(client.fetchProjectForCache, 0, 0, loggers)
	return client, nil
}

// Close shuts down the client. The client must not be used after this point; any event streams
// it created are closed as well.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.loggers.Info("Closing Eventline client")
		c.closed.Set(true)

		c.lock.Lock()
		streams := maps.Keys(c.streams)
		c.streams = nil
		c.lock.Unlock()
		for _, stream := range streams {
			_ = stream.Close()
		}

		c.projects.Close()
	})
	return nil
}

// GetAccount fetches the account associated with the credentials the client is using.
func (c *Client) GetAccount(ctx context.Context) (elmodel.Account, error) {
	data, err := c.doUnscoped(ctx, "GET", "/account", nil, nil)
	if err != nil {
		return elmodel.Account{}, err
	}
	var account elmodel.Account
	if err := json.Unmarshal(data, &account); err != nil {
		return elmodel.Account{}, err
	}
	return account, nil
}

// GetOrganization fetches the organization of the account the client is using.
func (c *Client) GetOrganization(ctx context.Context) (elmodel.Organization, error) {
	data, err := c.doUnscoped(ctx, "GET", "/organization", nil, nil)
	if err != nil {
		return elmodel.Organization{}, err
	}
	var organization elmodel.Organization
	if err := json.Unmarshal(data, &organization); err != nil {
		return elmodel.Organization{}, err
	}
	return organization, nil
}

// scopedProjectID returns the identifier of the project the client is scoped to, resolving the
// configured project name on the first use. It returns "" if the client has no project scope.
func (c *Client) scopedProjectID(ctx context.Context) (string, error) {
	if c.projectID != "" {
		return c.projectID, nil
	}
	if c.projectName == "" {
		return "", nil
	}
	return c.projects.GetProjectID(ctx, c.projectName)
}

func (c *Client) fetchProjectForCache(ctx context.Context, name string) (elmodel.Project, error) {
	return c.GetProjectByName(ctx, name)
}

// do sends a request within the client's project scope. Operations on jobs, job executions,
// events and identities all use it.
func (c *Client) do(
	ctx context.Context,
	method, path string,
	query url.Values,
	body []byte,
) ([]byte, error) {
	if c.closed.Get() {
		return nil, ErrClientClosed
	}
	projectID, err := c.scopedProjectID(ctx)
	if err != nil {
		return nil, err
	}
	return c.doRequest(ctx, method, path, query, body, projectID)
}

// doUnscoped sends a request without a project header. Account, organization and project
// operations are not project-scoped.
func (c *Client) doUnscoped(
	ctx context.Context,
	method, path string,
	query url.Values,
	body []byte,
) ([]byte, error) {
	return c.doRequest(ctx, method, path, query, body, "")
}

func (c *Client) doRequest(
	ctx context.Context,
	method, path string,
	query url.Values,
	body []byte,
	projectID string,
) ([]byte, error) {
	if c.closed.Get() {
		return nil, ErrClientClosed
	}

	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoints.AddPath(c.apiBaseURI, path), bodyReader)
	if err != nil {
		return nil, &ClientError{Err: err}
	}
	if len(query) > 0 {
		req.URL.RawQuery = query.Encode()
	}
	if c.defaultHeaders != nil {
		req.Header = maps.Clone(c.defaultHeaders)
	}
	if projectID != "" {
		req.Header.Set(projectIDHeader, projectID)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	uri := req.URL.String()

	if c.loggers.IsDebugEnabled() {
		c.loggers.Debugf("Sending request: %s %s", method, uri)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &ClientError{Err: err}
	}
	defer func() {
		_, _ = io.ReadAll(res.Body)
		_ = res.Body.Close()
	}()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &ClientError{Err: err} // COVERAGE: there is no way to simulate this condition in unit tests
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return nil, newAPIError(method, uri, res.StatusCode, data)
	}
	return data, nil
}

// newAPIError builds the error for a non-2xx response. The response body is expected to be a JSON
// object with "error" and "code" properties; if it is not, the message falls back to the standard
// description of the status code.
func newAPIError(method, uri string, status int, body []byte) *APIError {
	apiErr := &APIError{
		Method:       method,
		URI:          uri,
		Status:       status,
		ErrorMessage: http.StatusText(status),
	}
	var message, code string
	r := jreader.NewReader(body)
	for obj := r.Object(); obj.Next(); {
		switch string(obj.Name()) {
		case "error":
			message = r.String()
		case "code":
			code = r.String()
		}
	}
	if r.Error() == nil {
		apiErr.ErrorCode = code
		if message != "" {
			apiErr.ErrorMessage = message
		}
	}
	return apiErr
}
