package eventwatch

import (
	"fmt"
	"io"
	"net/http"

	"github.com/exograd/go-eventline/elmodel"
	"github.com/exograd/go-eventline/internal/endpoints"
	"github.com/exograd/go-eventline/subsystems"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/gregjones/httpcache"
	"golang.org/x/exp/maps"
)

// pollingRequester is the internal implementation of fetching event pages from the Eventline
// polling endpoint.
type pollingRequester struct {
	httpClient *http.Client
	baseURI    string
	headers    http.Header
	loggers    ldlog.Loggers
}

type malformedJSONError struct {
	innerError error
}

func (e malformedJSONError) Error() string {
	return e.innerError.Error()
}

func newPollingRequester(
	context subsystems.ClientContext,
	httpClient *http.Client,
	baseURI string,
) *pollingRequester {
	if httpClient == nil {
		httpClient = context.GetHTTP().CreateHTTPClient()
	}

	modifiedClient := *httpClient
	modifiedClient.Transport = &httpcache.Transport{
		Cache:               httpcache.NewMemoryCache(),
		MarkCachedResponses: true,
		Transport:           httpClient.Transport,
	}

	return &pollingRequester{
		httpClient: &modifiedClient,
		baseURI:    baseURI,
		headers:    context.GetHTTP().DefaultHeaders,
		loggers:    context.GetLogging().Loggers,
	}
}

func (r *pollingRequester) BaseURI() string {
	return r.baseURI
}

func (r *pollingRequester) Request(cursor elmodel.Cursor) (elmodel.Page[elmodel.Event], bool, error) {
	if r.loggers.IsDebugEnabled() {
		r.loggers.Debug("Polling Eventline for new events")
	}

	body, cached, err := r.makeRequest(endpoints.EventsPollRequestPath, cursor)
	if err != nil {
		return elmodel.Page[elmodel.Event]{}, false, err
	}
	if cached {
		return elmodel.Page[elmodel.Event]{}, true, nil
	}

	page, err := elmodel.UnmarshalPage[elmodel.Event](body)
	if err != nil {
		return elmodel.Page[elmodel.Event]{}, false, malformedJSONError{err}
	}
	return page, false, nil
}

func (r *pollingRequester) makeRequest(resource string, cursor elmodel.Cursor) ([]byte, bool, error) {
	req, reqErr := http.NewRequest("GET", endpoints.AddPath(r.baseURI, resource), nil)
	if reqErr != nil {
		reqErr = fmt.Errorf(
			"unable to create a poll request; this is not a network problem, most likely a bad base URI: %w",
			reqErr,
		)
		return nil, false, reqErr
	}
	req.URL.RawQuery = cursor.URLQuery().Encode()
	url := req.URL.String()
	if r.headers != nil {
		req.Header = maps.Clone(r.headers)
	}

	res, resErr := r.httpClient.Do(req)

	if resErr != nil {
		return nil, false, resErr
	}

	defer func() {
		_, _ = io.ReadAll(res.Body)
		_ = res.Body.Close()
	}()

	if err := checkForHTTPError(res.StatusCode, url); err != nil {
		return nil, false, err
	}

	cached := res.Header.Get(httpcache.XFromCache) != ""

	body, ioErr := io.ReadAll(res.Body)

	if ioErr != nil {
		return nil, false, ioErr // COVERAGE: there is no way to simulate this condition in unit tests
	}
	return body, cached, nil
}
