package elservices

import (
	"encoding/json"
	"net/http"
)

type errorResponseBody struct {
	Message string `json:"error"`
	Code    string `json:"code,omitempty"`
}

// APIErrorResponseHandler creates an HTTP handler that returns the given status code with an
// error response body in the standard Eventline format, that is, a JSON object whose "error"
// property is a message and whose "code" property is a machine-readable error code.
func APIErrorResponseHandler(statusCode int, code, message string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bytes, _ := json.Marshal(errorResponseBody{Message: message, Code: code})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		_, _ = w.Write(bytes)
	})
}
