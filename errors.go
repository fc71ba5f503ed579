package eventline

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoAPIKey is returned by MakeClient and MakeCustomClient when no API key was given and the
// EVENTLINE_API_KEY environment variable is not set.
var ErrNoAPIKey = errors.New("an API key is required; pass one to MakeClient or set EVENTLINE_API_KEY")

// ErrClientClosed is returned by client operations attempted after Close.
var ErrClientClosed = errors.New("the client has been closed")

// ErrEventStreamInitializationFailed is returned by WatchEvents if the event watcher permanently
// failed to start, for instance because the API key was rejected.
var ErrEventStreamInitializationFailed = errors.New("event stream initialization failed")

// APIError is the error type for requests that reached the Eventline service but were answered
// with a non-2xx status.
type APIError struct {
	// Method is the HTTP method of the failed request.
	Method string

	// URI is the URI of the failed request.
	URI string

	// Status is the HTTP status code of the response.
	Status int

	// ErrorCode is the machine-readable error code from the response body, if there was one.
	ErrorCode string

	// ErrorMessage is the human-readable error description from the response body. If the body
	// could not be parsed, it falls back to the standard description of the status code.
	ErrorMessage string
}

// Error returns the error message in the form
// "<METHOD> <uri>: request failed with status <status>: <message>".
func (e *APIError) Error() string {
	message := fmt.Sprintf("%s %s: request failed with status %d", e.Method, e.URI, e.Status)
	if e.ErrorMessage != "" {
		message += ": " + e.ErrorMessage
	}
	return message
}

// ClientError is the error type for requests that could not be executed at all, for instance
// because of a DNS failure, a connection timeout, or an unencodable request body. The underlying
// error is available with Unwrap.
type ClientError struct {
	Err error
}

//nolint:revive // no doc comment for standard method
func (e *ClientError) Error() string {
	return e.Err.Error()
}

//nolint:revive // no doc comment for standard method
func (e *ClientError) Unwrap() error {
	return e.Err
}

// IsAPIErrorWithCode returns true if the error is an APIError whose error code is the given code.
//
// Eventline error codes identify the failure independently of the HTTP status, for instance
// "unknown_job" or "invalid_request_body".
func IsAPIErrorWithCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == code
}

// IsNotFound returns true if the error is an APIError with HTTP status 404, meaning that the
// requested resource does not exist.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// IsAuthenticationError returns true if the error is an APIError with HTTP status 401 or 403,
// meaning that the API key is missing, invalid, or not allowed to perform the operation.
func IsAuthenticationError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden
}

// Tests whether an error from a client operation represents a condition that might resolve on its
// own if the operation is retried. The classification of HTTP statuses is the same one the event
// watchers use.
func isRecoverableError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			switch apiErr.Status {
			case 400: // bad request
				return true
			case 408: // request timeout
				return true
			case 429: // too many requests
				return true
			default:
				return false // all other 4xx errors are unrecoverable
			}
		}
		return true
	}
	var clientErr *ClientError
	return errors.As(err, &clientErr)
}
