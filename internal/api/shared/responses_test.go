package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		data         any
		expectedBody string
	}{
		{
			name:         "map payload",
			status:       http.StatusOK,
			data:         map[string]any{"status": "UP"},
			expectedBody: `{"status":"UP"}`,
		},
		{
			name:         "nil payload",
			status:       http.StatusOK,
			data:         nil,
			expectedBody: `null`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()

			RespondWithJSON(w, req, tc.status, tc.data)

			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.JSONEq(t, tc.expectedBody, w.Body.String())
		})
	}
}

func TestRespondWithSuccess(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	w := httptest.NewRecorder()

	RespondWithSuccess(w, req, http.StatusCreated, "Task created successfully", map[string]int{"id": 1})

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t,
		`{"success":true,"message":"Task created successfully","data":{"id":1}}`,
		w.Body.String())
}

func TestRespondWithSuccess_NilData(t *testing.T) {
	req := httptest.NewRequest(http.MethodDelete, "/api/tasks/1", nil)
	w := httptest.NewRecorder()

	RespondWithSuccess(w, req, http.StatusOK, "Task deleted successfully", nil)

	assert.JSONEq(t,
		`{"success":true,"message":"Task deleted successfully","data":null}`,
		w.Body.String())
}

func TestRespondWithError(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/tasks/9", nil)
	req = req.WithContext(WithTraceID(req.Context(), "trace-1"))
	w := httptest.NewRecorder()

	RespondWithError(w, req, http.StatusNotFound, "Task not found")

	assert.Equal(t, http.StatusNotFound, w.Code)

	var envelope Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.False(t, envelope.Success)
	assert.Equal(t, "Task not found", envelope.Message)
	assert.Nil(t, envelope.Data)
	assert.Equal(t, "trace-1", envelope.TraceID)
}

func TestRespondWithErrorAndLog_HidesErrorDetails(t *testing.T) {
	tests := []struct {
		name   string
		status int
		opts   []ResponseOption
	}{
		{name: "server error", status: http.StatusInternalServerError},
		{name: "client error", status: http.StatusBadRequest},
		{name: "elevated client error", status: http.StatusBadRequest, opts: []ResponseOption{WithElevatedLogLevel()}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/tasks", nil)
			w := httptest.NewRecorder()

			err := errors.New("pq: connection to postgres://admin:hunter2@db:5432 refused")
			RespondWithErrorAndLog(w, req, tc.status, "An unexpected error occurred", err, tc.opts...)

			assert.Equal(t, tc.status, w.Code)
			assert.NotContains(t, w.Body.String(), "hunter2")
			assert.NotContains(t, w.Body.String(), "postgres://")

			var envelope Envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
			assert.False(t, envelope.Success)
			assert.Equal(t, "An unexpected error occurred", envelope.Message)
		})
	}
}
