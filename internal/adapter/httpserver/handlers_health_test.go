package httpserver

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthOK(_ context.Context) error { return nil }

func healthErr(msg string) func(context.Context) error {
	return func(_ context.Context) error { return errors.New(msg) }
}

func TestHealthEndpoints(t *testing.T) {
	tests := []struct {
		name       string
		checks     []HealthCheck
		wantStatus int
		wantBody   []string
	}{
		{
			name:       "memory backend has no checks",
			wantStatus: http.StatusOK,
			wantBody:   []string{`"status":"ready"`},
		},
		{
			name:       "redis healthy",
			checks:     []HealthCheck{{Name: "redis", Check: healthOK}},
			wantStatus: http.StatusOK,
			wantBody:   []string{`"status":"ready"`},
		},
		{
			name:       "redis down",
			checks:     []HealthCheck{{Name: "redis", Check: healthErr("connection refused")}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   []string{`"status":"unhealthy"`, `"failed_check":"redis"`, `"error":"connection refused"`},
		},
		{
			name:       "postgres down",
			checks:     []HealthCheck{{Name: "postgres", Check: healthErr("database unreachable")}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   []string{`"failed_check":"postgres"`, `"error":"database unreachable"`},
		},
	}

	for _, tt := range tests {
		for _, path := range []string{"/health/startup", "/health/ready"} {
			t.Run(tt.name+" "+path, func(t *testing.T) {
				srv := newTestServer(t, &mockAppService{}, withHealthChecks(tt.checks...))

				rec := httptest.NewRecorder()
				srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

				assert.Equal(t, tt.wantStatus, rec.Code)
				for _, want := range tt.wantBody {
					assert.Contains(t, rec.Body.String(), want)
				}
			})
		}
	}
}

func TestHealthEndpoints_ConcurrentReadinessSharesOneRun(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	slow := HealthCheck{Name: "redis", Check: func(context.Context) error {
		calls.Add(1)
		<-release
		return nil
	}}
	srv := newTestServer(t, &mockAppService{}, withHealthChecks(slow))

	const requests = 5
	codes := make([]int, requests)
	var wg sync.WaitGroup
	for i := range requests {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
			codes[i] = rec.Code
		}()
	}

	assert.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, code := range codes {
		assert.Equal(t, http.StatusOK, code)
	}
}

func TestHandleLiveness(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	srv := newTestServer(t, &mockAppService{}, withHealthChecks(HealthCheck{Name: "redis", Check: healthErr("down")}))
	err := srv.handleLiveness(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code, "liveness does not depend on backing stores")

	body := rec.Body.String()
	assert.Contains(t, body, `"status":"ok"`)
	assert.Contains(t, body, `"uptime"`)
}

func TestHandleVersion(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/version", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	srv := newTestServer(t, &mockAppService{})
	err := srv.handleVersion(c)

	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"service":"moodpulse"`)
	assert.Contains(t, body, `"version"`)
	assert.Contains(t, body, `"commit"`)
	assert.Contains(t, body, `"go_version"`)
}
