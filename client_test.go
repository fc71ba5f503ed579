package eventline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/exograd/go-eventline/elcomponents"
	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/internal"
	"github.com/exograd/go-eventline/internal/endpoints"
	"github.com/exograd/go-eventline/testhelpers/elservices"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/launchdarkly/go-test-helpers/v3/httphelpers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

var testTime = time.Date(2022, time.May, 18, 10, 0, 0, 0, time.UTC)

var testProject = elmodel.Project{
	ID:           "prj-1",
	OrgID:        "org-1",
	Name:         "my-project",
	CreationTime: testTime,
}

var testAccount = elmodel.Account{
	ID:           "acct-1",
	OrgID:        "org-1",
	CreationTime: testTime,
	EmailAddress: "dev@example.com",
	Role:         "admin",
	Settings:     elmodel.AccountSettings{DateFormat: "relative"},
}

var testOrganization = elmodel.Organization{
	ID:                  "org-1",
	Name:                "ExampleCorp",
	Address:             "1 Main Street",
	PostalCode:          "35000",
	City:                "Rennes",
	Country:             "France",
	CreationTime:        testTime,
	ContactEmailAddress: "contact@example.com",
}

func testJobSpec(name string) elmodel.JobSpec {
	return elmodel.JobSpec{
		Name:  name,
		Steps: []elmodel.Step{{Code: "make test"}},
	}
}

func testJob(id, name string) elmodel.Job {
	return elmodel.Job{
		ID:           id,
		ProjectID:    testProject.ID,
		CreationTime: testTime,
		UpdateTime:   testTime,
		Spec:         testJobSpec(name),
	}
}

func testJobExecution(id string, status elmodel.ExecutionStatus) elmodel.JobExecution {
	return elmodel.JobExecution{
		ID:           id,
		ProjectID:    testProject.ID,
		JobID:        "job-1",
		JobSpec:      testJobSpec("my-job"),
		CreationTime: testTime,
		UpdateTime:   testTime,
		Status:       status,
	}
}

func testIdentity(id string) elmodel.Identity {
	return elmodel.Identity{
		ID:           id,
		ProjectID:    testProject.ID,
		Name:         "github-creds",
		Connector:    "github",
		Type:         "oauth2",
		CreationTime: testTime,
		UpdateTime:   testTime,
		Data:         ldvalue.ObjectBuild().SetString("token", "t").Build(),
	}
}

// handlerForPage creates an HTTP handler whose response is the JSON encoding of a page of
// resources.
func handlerForPage[T jwriter.Writable](page elmodel.Page[T]) http.Handler {
	data, _ := elmodel.MarshalPage(page)
	return httphelpers.HandlerWithResponse(200, nil, data)
}

type clientTestParams struct {
	client     *Client
	requestsCh <-chan httphelpers.HTTPRequestInfo
	mockLog    *ldlogtest.MockLog
}

// withTestClient runs a test action against a client that is pointed at a test server serving the
// given handler. Requests made by the client can be inspected through clientTestParams.requestsCh.
func withTestClient(t *testing.T, handler http.Handler, config Config, action func(p clientTestParams)) {
	recordingHandler, requestsCh := httphelpers.RecordingHandler(handler)
	httphelpers.WithServer(recordingHandler, func(server *httptest.Server) {
		mockLog := ldlogtest.NewMockLog()
		mockLog.Loggers.SetMinLevel(ldlog.Debug)
		defer mockLog.DumpIfTestFailed(t)

		config.ServiceEndpoints = elcomponents.SelfHostedEndpoints(server.URL)
		config.Logging = elcomponents.Logging().Loggers(mockLog.Loggers)
		client, err := MakeCustomClient(testAPIKey, config)
		require.NoError(t, err)
		defer func() { _ = client.Close() }()

		action(clientTestParams{client: client, requestsCh: requestsCh, mockLog: mockLog})
	})
}

func assertNoMoreRequests(t *testing.T, requestsCh <-chan httphelpers.HTTPRequestInfo) {
	assert.Equal(t, 0, len(requestsCh))
}

func TestMakeClientWithoutAPIKeyReturnsError(t *testing.T) {
	t.Setenv(APIKeyEnvVar, "")

	client, err := MakeClient("")
	assert.Equal(t, ErrNoAPIKey, err)
	assert.Nil(t, client)
}

func TestMakeClientReadsAPIKeyFromEnvironment(t *testing.T) {
	t.Setenv(APIKeyEnvVar, "env-api-key")

	client, err := MakeClient("")
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "Bearer env-api-key", client.defaultHeaders.Get("Authorization"))
}

func TestMakeCustomClientUsesDefaultEndpoints(t *testing.T) {
	t.Setenv(APIURIEnvVar, "")

	client, err := MakeCustomClient(testAPIKey, Config{Logging: elcomponents.NoLogging()})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, endpoints.DefaultAPIBaseURI, client.apiBaseURI)
	assert.Equal(t, "Bearer "+testAPIKey, client.defaultHeaders.Get("Authorization"))
	assert.Equal(t, internal.UserAgentHeaderValue, client.defaultHeaders.Get("User-Agent"))
}

func TestMakeCustomClientReadsBaseURIFromEnvironment(t *testing.T) {
	t.Setenv(APIURIEnvVar, "http://localhost:9999/")

	client, err := MakeCustomClient(testAPIKey, Config{Logging: elcomponents.NoLogging()})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "http://localhost:9999", client.apiBaseURI)
}

func TestMakeCustomClientPrefersConfiguredEndpointsOverEnvironment(t *testing.T) {
	t.Setenv(APIURIEnvVar, "http://env.example")

	config := Config{
		ServiceEndpoints: elcomponents.SelfHostedEndpoints("http://config.example"),
		Logging:          elcomponents.NoLogging(),
	}
	client, err := MakeCustomClient(testAPIKey, config)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "http://config.example", client.apiBaseURI)
}

func TestMakeCustomClientReadsProjectScopeFromEnvironment(t *testing.T) {
	t.Setenv(ProjectIDEnvVar, "prj-env")
	t.Setenv(ProjectNameEnvVar, "env-project")

	client, err := MakeCustomClient(testAPIKey, Config{Logging: elcomponents.NoLogging()})
	require.NoError(t, err)
	defer client.Close()

	// The project ID variable takes precedence over the project name variable
	assert.Equal(t, "prj-env", client.projectID)
	assert.Equal(t, "", client.projectName)
}

func TestMakeCustomClientReadsProjectNameFromEnvironment(t *testing.T) {
	t.Setenv(ProjectIDEnvVar, "")
	t.Setenv(ProjectNameEnvVar, "env-project")

	client, err := MakeCustomClient(testAPIKey, Config{Logging: elcomponents.NoLogging()})
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "", client.projectID)
	assert.Equal(t, "env-project", client.projectName)
}

func TestMakeCustomClientPrefersConfiguredProjectScopeOverEnvironment(t *testing.T) {
	t.Setenv(ProjectIDEnvVar, "prj-env")

	config := Config{ProjectName: "my-project", Logging: elcomponents.NoLogging()}
	client, err := MakeCustomClient(testAPIKey, config)
	require.NoError(t, err)
	defer client.Close()

	assert.Equal(t, "", client.projectID)
	assert.Equal(t, "my-project", client.projectName)
}

func TestClientSendsStandardHeaders(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(testAccount, nil)
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		_, err := p.client.GetAccount(context.Background())
		require.NoError(t, err)

		r := <-p.requestsCh
		assert.Equal(t, "Bearer "+testAPIKey, r.Request.Header.Get("Authorization"))
		assert.Equal(t, internal.UserAgentHeaderValue, r.Request.Header.Get("User-Agent"))

		p.mockLog.AssertMessageMatch(t, true, ldlog.Info, "Starting Eventline client")
		p.mockLog.AssertMessageMatch(t, true, ldlog.Debug, "GET .*/account")
	})
}

func TestClientGetAccount(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(testAccount, nil)
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		account, err := p.client.GetAccount(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testAccount, account)

		r := <-p.requestsCh
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "/account", r.Request.URL.Path)
		assertNoMoreRequests(t, p.requestsCh)
	})
}

func TestClientGetOrganization(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(testOrganization, nil)
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		organization, err := p.client.GetOrganization(context.Background())
		require.NoError(t, err)
		assert.Equal(t, testOrganization, organization)

		r := <-p.requestsCh
		assert.Equal(t, "GET", r.Request.Method)
		assert.Equal(t, "/organization", r.Request.URL.Path)
	})
}

func TestClientScopedRequestsSendProjectIDHeader(t *testing.T) {
	handler := handlerForPage(elmodel.Page[elmodel.Job]{Elements: []elmodel.Job{testJob("job-1", "my-job")}})
	withTestClient(t, handler, Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		_, err := p.client.ListJobs(context.Background(), elmodel.Cursor{})
		require.NoError(t, err)

		r := <-p.requestsCh
		assert.Equal(t, "prj-1", r.Request.Header.Get(projectIDHeader))
	})
}

func TestClientUnscopedRequestsDoNotSendProjectIDHeader(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(testAccount, nil)
	withTestClient(t, handler, Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		_, err := p.client.GetAccount(context.Background())
		require.NoError(t, err)

		r := <-p.requestsCh
		assert.Equal(t, "", r.Request.Header.Get(projectIDHeader))
	})
}

func TestClientResolvesProjectNameOnFirstScopedRequest(t *testing.T) {
	jobsHandler := handlerForPage(elmodel.Page[elmodel.Job]{Elements: []elmodel.Job{testJob("job-1", "my-job")}})
	handler := httphelpers.HandlerForPath("/projects/name/my-project",
		httphelpers.HandlerWithJSONResponse(testProject, nil), jobsHandler)
	withTestClient(t, handler, Config{ProjectName: "my-project"}, func(p clientTestParams) {
		for i := 0; i < 2; i++ {
			_, err := p.client.ListJobs(context.Background(), elmodel.Cursor{})
			require.NoError(t, err)
		}

		// The name was resolved once, by an unscoped request, before the first jobs request
		r := <-p.requestsCh
		assert.Equal(t, "/projects/name/my-project", r.Request.URL.Path)
		assert.Equal(t, "", r.Request.Header.Get(projectIDHeader))

		for i := 0; i < 2; i++ {
			r = <-p.requestsCh
			assert.Equal(t, "/jobs", r.Request.URL.Path)
			assert.Equal(t, testProject.ID, r.Request.Header.Get(projectIDHeader))
		}
		assertNoMoreRequests(t, p.requestsCh)
	})
}

func TestClientReturnsErrorWhenProjectNameCannotBeResolved(t *testing.T) {
	handler := elservices.APIErrorResponseHandler(404, "unknown_project", `unknown project "missing"`)
	withTestClient(t, handler, Config{ProjectName: "missing"}, func(p clientTestParams) {
		_, err := p.client.ListJobs(context.Background(), elmodel.Cursor{})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestClientSendsCursorAsQueryParameters(t *testing.T) {
	handler := handlerForPage(elmodel.Page[elmodel.Project]{})
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		cursor := elmodel.Cursor{After: "prj-0", Size: 20, Sort: "name", Order: elmodel.OrderDesc}
		_, err := p.client.ListProjects(context.Background(), cursor)
		require.NoError(t, err)

		r := <-p.requestsCh
		query := r.Request.URL.Query()
		assert.Equal(t, "prj-0", query.Get("after"))
		assert.Equal(t, "20", query.Get("size"))
		assert.Equal(t, "name", query.Get("sort"))
		assert.Equal(t, "desc", query.Get("order"))
	})
}

func TestClientSendsJSONBodyWithContentType(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(testProject, nil)
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		_, err := p.client.CreateProject(context.Background(), elmodel.NewProject{Name: "my-project"})
		require.NoError(t, err)

		r := <-p.requestsCh
		assert.Equal(t, "POST", r.Request.Method)
		assert.Equal(t, "application/json", r.Request.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"name": "my-project"}`, string(r.Body))

		_, err = p.client.GetProject(context.Background(), "prj-1")
		require.NoError(t, err)

		r = <-p.requestsCh
		assert.Equal(t, "", r.Request.Header.Get("Content-Type"))
		assert.Len(t, r.Body, 0)
	})
}

func TestClientEscapesPathParameters(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(testProject, nil)
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		_, err := p.client.GetProject(context.Background(), "prj/1 2")
		require.NoError(t, err)

		r := <-p.requestsCh
		assert.Equal(t, "/projects/id/prj%2F1%202", r.Request.URL.EscapedPath())
	})
}

func TestClientReturnsAPIErrorForErrorResponses(t *testing.T) {
	handler := elservices.APIErrorResponseHandler(404, "unknown_project", "unknown project")
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		_, err := p.client.GetProject(context.Background(), "prj-missing")
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, "GET", apiErr.Method)
		assert.Equal(t, p.client.apiBaseURI+"/projects/id/prj-missing", apiErr.URI)
		assert.Equal(t, 404, apiErr.Status)
		assert.Equal(t, "unknown_project", apiErr.ErrorCode)
		assert.Equal(t, "unknown project", apiErr.ErrorMessage)
		assert.True(t, IsNotFound(err))
		assert.True(t, IsAPIErrorWithCode(err, "unknown_project"))
	})
}

func TestClientFallsBackToStatusTextForUnparseableErrorBody(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(500, nil, []byte("something went wrong"))
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		_, err := p.client.GetAccount(context.Background())
		require.Error(t, err)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 500, apiErr.Status)
		assert.Equal(t, "", apiErr.ErrorCode)
		assert.Equal(t, "Internal Server Error", apiErr.ErrorMessage)
	})
}

func TestClientReturnsClientErrorForNetworkFailures(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	server.Close() // all requests will now fail to connect

	config := Config{
		ServiceEndpoints: elcomponents.SelfHostedEndpoints(server.URL),
		Logging:          elcomponents.NoLogging(),
	}
	client, err := MakeCustomClient(testAPIKey, config)
	require.NoError(t, err)
	defer client.Close()

	_, err = client.GetAccount(context.Background())
	require.Error(t, err)

	var clientErr *ClientError
	assert.True(t, errors.As(err, &clientErr))
}

func TestClientReturnsErrorForMalformedResource(t *testing.T) {
	handler := httphelpers.HandlerWithResponse(200, nil, []byte(`{"id": "acct-1"}`))
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		_, err := p.client.GetAccount(context.Background())
		require.Error(t, err)

		var invalidErr elmodel.InvalidObjectError
		assert.True(t, errors.As(err, &invalidErr))
	})
}

func TestClientOperationsFailAfterClose(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(testAccount, nil)
	withTestClient(t, handler, Config{ProjectID: "prj-1"}, func(p clientTestParams) {
		require.NoError(t, p.client.Close())
		require.NoError(t, p.client.Close()) // closing twice is harmless

		_, err := p.client.GetAccount(context.Background())
		assert.Equal(t, ErrClientClosed, err)

		_, err = p.client.ListJobs(context.Background(), elmodel.Cursor{})
		assert.Equal(t, ErrClientClosed, err)

		assertNoMoreRequests(t, p.requestsCh)
	})
}

func TestClientHonorsRequestContext(t *testing.T) {
	handler := httphelpers.HandlerWithJSONResponse(testAccount, nil)
	withTestClient(t, handler, Config{}, func(p clientTestParams) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := p.client.GetAccount(ctx)
		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}
