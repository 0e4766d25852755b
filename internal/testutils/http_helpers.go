package testutils

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the API response envelope with an undecoded payload.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	TraceID string          `json:"trace_id,omitempty"`
}

// CreateTestServer starts an httptest server for handler and closes it on cleanup.
func CreateTestServer(t *testing.T, handler http.Handler) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

// ExecuteJSONRequest sends body (marshalled to JSON unless it is a string or
// nil) to server and returns the response. The response body is closed on cleanup.
func ExecuteJSONRequest(t *testing.T, server *httptest.Server, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		encoded, err := json.Marshal(b)
		require.NoError(t, err, "Failed to marshal request body")
		reader = bytes.NewBuffer(encoded)
	}

	req, err := http.NewRequest(method, server.URL+path, reader)
	require.NoError(t, err, "Failed to create request")
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := server.Client().Do(req)
	require.NoError(t, err, "Request failed")
	t.Cleanup(func() {
		if err := resp.Body.Close(); err != nil {
			t.Logf("Warning: failed to close response body: %v", err)
		}
	})
	return resp
}

// DecodeEnvelope reads and decodes an enveloped response body.
func DecodeEnvelope(t *testing.T, resp *http.Response) Envelope {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "Failed to read response body")

	var env Envelope
	require.NoError(t, json.Unmarshal(body, &env), "Failed to unmarshal envelope: %s", string(body))
	return env
}

// AssertErrorResponse checks the status code and that the envelope reports
// failure with a message containing expectedMsgPart and null data.
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMsgPart string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	env := DecodeEnvelope(t, resp)
	assert.False(t, env.Success, "error responses must not report success")
	assert.Contains(t, env.Message, expectedMsgPart)
	assert.Equal(t, "null", string(env.Data), "error responses carry null data")
}

// AssertSuccessResponse checks the status code and success flag, and decodes
// the payload into out when out is non-nil.
func AssertSuccessResponse(t *testing.T, resp *http.Response, expectedStatus int, out any) Envelope {
	t.Helper()

	require.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	env := DecodeEnvelope(t, resp)
	assert.True(t, env.Success)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out), "Failed to decode payload: %s", string(env.Data))
	}
	return env
}
