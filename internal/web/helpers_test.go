package web_test

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/accessdeck/webclient/internal/config"
	"github.com/accessdeck/webclient/internal/monitoring"
	"github.com/accessdeck/webclient/internal/notify"
	"github.com/accessdeck/webclient/internal/web"
	"github.com/accessdeck/webclient/internal/web/session/storage/inmem"
	"github.com/stretchr/testify/require"
)

// testEnv wires a web client service against a fake upstream monitor and drives
// it through a real HTTP client with a cookie jar, the way a browser would.
type testEnv struct {
	t        *testing.T
	upstream *fakeMonitor
	server   *httptest.Server
	client   *http.Client
}

func newTestEnv(t *testing.T, mutators ...func(*config.Config)) *testEnv {
	upstream := newFakeMonitor()
	upstreamServer := httptest.NewServer(upstream)
	t.Cleanup(upstreamServer.Close)

	cfg := &config.Config{
		Environment:       "dev",
		ListenAddress:     "127.0.0.1:0",
		AllowedOrigin:     "*",
		MonitorAPIBaseURL: upstreamServer.URL,
		LoginOpensSession: true,
	}
	for _, mutate := range mutators {
		mutate(cfg)
	}

	monitor, err := monitoring.New(cfg.MonitorAPIBaseURL, monitoring.Options{})
	require.NoError(t, err)

	sessions, err := inmem.New()
	require.NoError(t, err)

	service := &web.Service{
		Config:   cfg,
		Monitor:  monitor,
		Sessions: sessions,
		Notices:  notify.NewBoard(3 * time.Second),
	}
	handler, err := service.Handler()
	require.NoError(t, err)

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &testEnv{
		t:        t,
		upstream: upstream,
		server:   server,
		client:   &http.Client{Jar: jar},
	}
}

// get performs a GET request and returns the response body.
// Redirects are followed, so the body belongs to the final page.
func (env *testEnv) get(path string) string {
	env.t.Helper()

	response, err := env.client.Get(env.server.URL + path)
	require.NoError(env.t, err)
	defer response.Body.Close()
	require.Equal(env.t, http.StatusOK, response.StatusCode)

	body, err := io.ReadAll(response.Body)
	require.NoError(env.t, err)
	return string(body)
}

// postForm submits a form and returns the body of the page the service
// redirected to (or rendered directly on validation failure).
func (env *testEnv) postForm(path string, values url.Values) string {
	env.t.Helper()

	response, err := env.client.PostForm(env.server.URL+path, values)
	require.NoError(env.t, err)
	defer response.Body.Close()
	require.Equal(env.t, http.StatusOK, response.StatusCode)

	body, err := io.ReadAll(response.Body)
	require.NoError(env.t, err)
	return string(body)
}
