package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// NewHTTPRequest builds a test request. A non-nil body is sent as JSON.
func NewHTTPRequest(method, path string, body interface{}) *http.Request {
	if body == nil {
		return httptest.NewRequest(method, path, nil)
	}

	encoded, err := json.Marshal(body)
	if err != nil {
		panic("testutil: unencodable request body: " + err.Error())
	}

	req := httptest.NewRequest(method, path, bytes.NewReader(encoded))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithBearerToken sets the Authorization header. An empty token leaves the
// request without one, for unauthenticated-path tests.
func WithBearerToken(req *http.Request, token string) *http.Request {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

// ExecuteRequest runs the request through the handler and returns the
// recorded response
func ExecuteRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

// AssertStatus fails the test when the response status differs, printing
// the body so the failure is diagnosable from the log alone
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "status mismatch, body: %s", rr.Body.String())
}

// AssertBodyContains asserts the raw response body contains the substring
func AssertBodyContains(t *testing.T, rr *httptest.ResponseRecorder, expected string) {
	t.Helper()
	assert.Contains(t, rr.Body.String(), expected)
}

// ParseJSONBody unmarshals the response body into target
func ParseJSONBody(t *testing.T, rr *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	err := json.Unmarshal(rr.Body.Bytes(), target)
	require.NoError(t, err, "failed to parse response body: %s", rr.Body.String())
}
