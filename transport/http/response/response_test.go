package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"suave/shared/constant"
	"suave/shared/failure"
	"suave/transport/http/response"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	return body
}

func TestWithError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
		wantKind any
	}{
		{
			name:     "not found",
			err:      failure.NotFound("reservation not found"),
			wantCode: http.StatusNotFound,
			wantMsg:  "reservation not found",
		},
		{
			name:     "engine kind survives wrapping",
			err:      fmt.Errorf("cancel: %w", failure.PolicyViolation("stay already started")),
			wantCode: http.StatusUnprocessableEntity,
			wantMsg:  "stay already started",
			wantKind: failure.KindPolicyViolation,
		},
		{
			name:     "rule conflict keeps its message",
			err:      failure.ErrRuleConflict,
			wantCode: http.StatusInternalServerError,
			wantMsg:  failure.ErrRuleConflict.Error(),
			wantKind: failure.KindRuleConflict,
		},
		{
			name:     "plain error is hidden",
			err:      errors.New("pq: connection refused"),
			wantCode: http.StatusInternalServerError,
			wantMsg:  constant.ResponseErrorInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, constant.ContentTypeJSON, rec.Header().Get(constant.RequestHeaderContentType))

			body := decode(t, rec)
			assert.Contains(t, body["error"], tt.wantMsg)
			assert.Equal(t, tt.wantKind, body["kind"])
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	response.WithJSON(rec, http.StatusCreated, map[string]int{"total": 3})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"total":3}}`, rec.Body.String())
}

func TestDefaultMessages(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w http.ResponseWriter)
		wantCode int
		wantMsg  string
	}{
		{"limit exceeded", response.WithRequestLimitExceeded, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded},
		{"preparing shutdown", response.WithPreparingShutdown, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown},
		{"unhealthy", response.WithUnhealthy, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.write(rec)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantMsg, decode(t, rec)["message"])
		})
	}
}
