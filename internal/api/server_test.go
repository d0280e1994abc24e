package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestServer() *Server {
	return NewServer(nil, nil, "s3cret")
}

func TestHealth(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}

func TestListGrantsRejectsBadLimit(t *testing.T) {
	s := newTestServer()

	for _, limit := range []string{"0", "-5", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/grants?limit="+limit, nil)
		rec := httptest.NewRecorder()
		s.Echo.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "limit=%s", limit)
	}
}

func TestAdminMiddleware(t *testing.T) {
	s := newTestServer()

	tests := []struct {
		name     string
		header   string
		value    string
		wantCode int
	}{
		{name: "no credentials", wantCode: http.StatusUnauthorized},
		{name: "wrong secret", header: "X-Admin-Secret", value: "nope", wantCode: http.StatusUnauthorized},
		// Runner is not configured in the test server, so passing auth
		// lands on 503 rather than 202.
		{name: "header secret accepted", header: "X-Admin-Secret", value: "s3cret", wantCode: http.StatusServiceUnavailable},
		{name: "bearer secret accepted", header: "Authorization", value: "Bearer s3cret", wantCode: http.StatusServiceUnavailable},
		{name: "bearer wrong secret", header: "Authorization", value: "Bearer nope", wantCode: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/run", nil)
			if tt.header != "" {
				req.Header.Set(tt.header, tt.value)
			}
			rec := httptest.NewRecorder()
			s.Echo.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestAdminMiddlewareWithoutSecretConfigured(t *testing.T) {
	s := NewServer(nil, nil, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pipeline/run", nil)
	req.Header.Set("X-Admin-Secret", "")
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPipelineStatusWithoutRuns(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pipeline/status", nil)
	req.Header.Set("X-Admin-Secret", "s3cret")
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
