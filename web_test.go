package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, cfg *Config) *httptest.Server {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 64)
	go drainErrors(cfg, errs)

	srv := httptest.NewServer(newRouter(ctx, cfg, prometheus.NewRegistry(), errs))
	t.Cleanup(func() {
		cancel()
		srv.Close()
	})

	return srv
}

func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func get(t *testing.T, client *http.Client, url string) (*http.Response, string) {
	t.Helper()

	resp, err := client.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp, string(body)
}

func TestStaticRoutes(t *testing.T) {
	srv := newTestServer(t, testConfig())

	tests := []struct {
		path        string
		status      int
		contentType string
		contains    string
	}{
		{"/", http.StatusOK, "text/html", "/floorplan"},
		{"/healthz", http.StatusOK, "text/plain", "Ok"},
		{"/version", http.StatusOK, "text/plain", "floorplan v" + releaseVersion},
		{"/robots.txt", http.StatusOK, "text/plain", "Disallow: /floorplan/"},
		{"/assets/floorplan/app.js", http.StatusOK, "text/javascript", "round_state"},
		{"/assets/floorplan/app.css", http.StatusOK, "text/css", ".room"},
		{"/assets/page.css", http.StatusOK, "text/css", "html,body,a"},
		{"/favicons/favicon.svg", http.StatusOK, "image/svg+xml", "<svg"},
		{"/assets/floorplan/missing.js", http.StatusNotFound, "", ""},
		{"/metrics", http.StatusNotFound, "", ""},
		{"/pprof/heap", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, body := get(t, srv.Client(), srv.URL+tt.path)

			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.contentType != "" {
				assert.True(t, strings.HasPrefix(resp.Header.Get("Content-Type"), tt.contentType), resp.Header.Get("Content-Type"))
			}
			assert.Contains(t, body, tt.contains)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp, _ := get(t, srv.Client(), srv.URL+"/healthz")

	assert.Equal(t, "default-src 'self'", resp.Header.Get("Content-Security-Policy"))
	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Empty(t, resp.Header.Get("Strict-Transport-Security"))
}

func TestNewGameRedirect(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp, _ := get(t, noRedirectClient(), srv.URL+"/floorplan")
	require.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)

	location := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(location, "/floorplan/"), location)
	assert.True(t, validGameID(strings.TrimPrefix(location, "/floorplan/")))
}

func TestGamePage(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp, body := get(t, srv.Client(), srv.URL+"/floorplan/ABCDefgh")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `id="floor-plan"`)
	assert.Contains(t, body, `<button id="reset-btn" type="button">`)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == playerCookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Len(t, cookie.Value, 36)

	resp, _ = get(t, srv.Client(), srv.URL+"/floorplan/short")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestQRCode(t *testing.T) {
	srv := newTestServer(t, testConfig())

	resp, body := get(t, srv.Client(), srv.URL+"/floorplan/ABCDefgh/qr")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.True(t, strings.HasPrefix(body, "\x89PNG"))

	resp, _ = get(t, srv.Client(), srv.URL+"/floorplan/bad!id!!/qr")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPrefixAndOptionalHandlers(t *testing.T) {
	cfg := testConfig()
	cfg.prefix = "/quiz"
	cfg.metrics = true
	cfg.profile = true
	srv := newTestServer(t, cfg)

	resp, _ := get(t, srv.Client(), srv.URL+"/quiz/healthz")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, srv.Client(), srv.URL+"/healthz")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, body := get(t, srv.Client(), srv.URL+"/quiz/metrics")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, "floorplan_active_sessions")

	resp, _ = get(t, srv.Client(), srv.URL+"/quiz/pprof/heap")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = get(t, srv.Client(), srv.URL+"/quiz/")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body, `href="/quiz/favicons/favicon.svg"`)
	assert.Contains(t, body, `href="/quiz/assets/page.css"`)
	assert.NotContains(t, body, "<style>")

	resp, _ = get(t, srv.Client(), srv.URL+"/quiz/assets/page.css")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, noRedirectClient(), srv.URL+"/quiz/floorplan")
	assert.True(t, strings.HasPrefix(resp.Header.Get("Location"), "/quiz/floorplan/"))
}

func TestRealIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:1234"
	assert.Equal(t, "10.0.0.1:1234", realIP(r))

	r.Header.Set("X-Real-IP", "192.0.2.7")
	assert.Equal(t, "192.0.2.7:1234", realIP(r))

	r.Header.Set("CF-Connecting-IP", "2001:db8::1")
	assert.Equal(t, "[2001:db8::1]:1234", realIP(r))
}

func TestHumanReadableSize(t *testing.T) {
	assert.Equal(t, "999 B", humanReadableSize(999))
	assert.Equal(t, "1.5 kB", humanReadableSize(1500))
	assert.Equal(t, "2.0 MB", humanReadableSize(2_000_000))
}
