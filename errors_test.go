package eventline

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIErrorMessage(t *testing.T) {
	err := &APIError{
		Method: "DELETE",
		URI:    "https://api.eventline.net/v0/projects/id/prj-1",
		Status: 404,
	}
	assert.Equal(t,
		"DELETE https://api.eventline.net/v0/projects/id/prj-1: request failed with status 404",
		err.Error())

	err.ErrorMessage = "unknown project"
	assert.Equal(t,
		"DELETE https://api.eventline.net/v0/projects/id/prj-1: request failed with status 404: unknown project",
		err.Error())
}

func TestClientErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := &ClientError{Err: cause}
	assert.Equal(t, "connection refused", err.Error())
	assert.Equal(t, cause, errors.Unwrap(err))
	assert.True(t, errors.Is(err, cause))
}

func TestIsAPIErrorWithCode(t *testing.T) {
	err := &APIError{Status: 404, ErrorCode: "unknown_project"}
	assert.True(t, IsAPIErrorWithCode(err, "unknown_project"))
	assert.False(t, IsAPIErrorWithCode(err, "unknown_job"))

	wrapped := fmt.Errorf("listing projects: %w", err)
	assert.True(t, IsAPIErrorWithCode(wrapped, "unknown_project"))

	assert.False(t, IsAPIErrorWithCode(errors.New("other"), "unknown_project"))
	assert.False(t, IsAPIErrorWithCode(nil, "unknown_project"))
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&APIError{Status: 404}))
	assert.False(t, IsNotFound(&APIError{Status: 401}))
	assert.False(t, IsNotFound(&ClientError{Err: errors.New("x")}))
	assert.False(t, IsNotFound(nil))
}

func TestIsAuthenticationError(t *testing.T) {
	assert.True(t, IsAuthenticationError(&APIError{Status: 401}))
	assert.True(t, IsAuthenticationError(&APIError{Status: 403}))
	assert.False(t, IsAuthenticationError(&APIError{Status: 404}))
	assert.False(t, IsAuthenticationError(errors.New("other")))
	assert.False(t, IsAuthenticationError(nil))
}

func TestIsRecoverableError(t *testing.T) {
	for _, status := range []int{400, 408, 429, 500, 502, 503} {
		assert.True(t, isRecoverableError(&APIError{Status: status}), "status %d", status)
	}
	for _, status := range []int{401, 403, 404, 405} {
		assert.False(t, isRecoverableError(&APIError{Status: status}), "status %d", status)
	}
	assert.True(t, isRecoverableError(&ClientError{Err: errors.New("network down")}))
	assert.False(t, isRecoverableError(errors.New("other")))
	assert.False(t, isRecoverableError(nil))
}
