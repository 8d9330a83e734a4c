package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/pscheid92/moodpulse/internal/adapter/memory"
	"github.com/pscheid92/moodpulse/internal/app"
	"github.com/pscheid92/moodpulse/internal/domain"
	"github.com/pscheid92/moodpulse/internal/platform/config"
	"github.com/stretchr/testify/require"
)

// --- Mock implementations ---

type mockAppService struct {
	postMoodFn func(ctx context.Context, key string, creds app.Credentials, input app.MoodInput) (domain.Principal, error)
	getMoodFn  func(ctx context.Context, key string) (app.MoodView, error)
}

// PostMood accepts everyone as anonymous unless postMoodFn says otherwise.
func (m *mockAppService) PostMood(ctx context.Context, key string, creds app.Credentials, input app.MoodInput) (domain.Principal, error) {
	if m.postMoodFn != nil {
		return m.postMoodFn(ctx, key, creds, input)
	}
	anon := domain.Principal{Username: domain.Anonymous}
	if !input.Valid {
		return anon, domain.ErrInvalidMood
	}
	return anon, nil
}

func (m *mockAppService) GetMood(ctx context.Context, key string) (app.MoodView, error) {
	if m.getMoodFn != nil {
		return m.getMoodFn(ctx, key)
	}
	return app.MoodView{}, domain.ErrNoMoodYet
}

// --- Test helpers ---

const testSessionSecret = "test-secret-key-32-bytes-long!!!"

// dayD is noon UTC on 2021-03-17.
var dayD = time.Date(2021, time.March, 17, 12, 0, 0, 0, time.UTC)

type testServerOptions struct {
	cfg    *config.Config
	checks []HealthCheck
	reg    *prometheus.Registry
}

func newTestServer(t *testing.T, svc appService, opts ...func(*testServerOptions)) *Server {
	t.Helper()

	o := &testServerOptions{
		cfg: &config.Config{
			AppEnv:        "development",
			Port:          "0",
			SessionMode:   config.SessionModeGlobal,
			SessionMaxAge: time.Hour,
			StoreBackend:  config.BackendMemory,
		},
		reg: prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return NewServer(o.cfg, svc, o.reg, o.checks)
}

func withHealthChecks(checks ...HealthCheck) func(*testServerOptions) {
	return func(o *testServerOptions) {
		o.checks = checks
	}
}

func withCookieSessions() func(*testServerOptions) {
	return func(o *testServerOptions) {
		o.cfg.SessionMode = config.SessionModeCookie
		o.cfg.SessionSecret = testSessionSecret
	}
}

func withRateLimit(perSecond float64) func(*testServerOptions) {
	return func(o *testServerOptions) {
		o.cfg.MoodRateLimit = perSecond
	}
}

func withRegistry(reg *prometheus.Registry) func(*testServerOptions) {
	return func(o *testServerOptions) {
		o.reg = reg
	}
}

// newMemoryService returns the real service over in-memory stores with the
// default two users and a fake clock at dayD.
func newMemoryService(t *testing.T) (*app.Service, *clockwork.FakeClock) {
	t.Helper()

	clock := clockwork.NewFakeClockAt(dayD)
	svc := app.NewService(memory.NewUserStore(), memory.NewSessionStore(), memory.NewMoodStore(), clock)
	require.NoError(t, svc.Seed(context.Background(), []domain.SeedUser{
		{Username: "admin", Password: "SecretPassword"},
		{Username: "Emma", Password: "SecretPassword2"},
	}))
	return svc, clock
}

// callHandler wraps a handler with error middleware, matching production behavior
func callHandler(handler echo.HandlerFunc, c echo.Context) error {
	return ErrorHandlingMiddleware(nil)(handler)(c)
}

type moodRequest struct {
	method      string
	body        string
	contentType string
	query       string
	user, pass  string
	noAuth      bool
	cookies     []*http.Cookie
	remoteAddr  string
}

func (r moodRequest) build() *http.Request {
	target := "/mood"
	if r.query != "" {
		target += "?" + r.query
	}
	req := httptest.NewRequest(r.method, target, strings.NewReader(r.body))
	if r.contentType != "" {
		req.Header.Set(echo.HeaderContentType, r.contentType)
	}
	if !r.noAuth {
		req.SetBasicAuth(r.user, r.pass)
	}
	for _, c := range r.cookies {
		req.AddCookie(c)
	}
	if r.remoteAddr != "" {
		req.RemoteAddr = r.remoteAddr
	}
	return req
}

// do sends r through the full router.
func do(srv *Server, r moodRequest) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, r.build())
	return rec
}

func postJSON(user, pass, body string) moodRequest {
	return moodRequest{method: http.MethodPost, user: user, pass: pass, body: body, contentType: echo.MIMEApplicationJSON}
}

func getMood() moodRequest {
	return moodRequest{method: http.MethodGet, noAuth: true}
}
