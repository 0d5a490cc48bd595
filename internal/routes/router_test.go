package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"killprocess/internal/config"
	"killprocess/internal/logging"
	"killprocess/internal/models"
	"killprocess/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeLister struct {
	out string
	err error
}

func (f fakeLister) List(context.Context) (string, error) {
	return f.out, f.err
}

const listing = "  PID  %CPU ARGS\n" +
	"  101   0.3 /usr/sbin/cupsd -l\n" +
	"  310   4.0 /Applications/Notes.app/Contents/MacOS/Notes\n" +
	"  420   0.5 /usr/local/bin/notes-sync --watch\n"

func newTestRouter(t *testing.T, lister services.Lister) (*gin.Engine, *services.Metrics) {
	return newTestRouterWith(t, lister, config.Default().Server)
}

func newTestRouterWith(t *testing.T, lister services.Lister, server config.ServerConfig) (*gin.Engine, *services.Metrics) {
	t.Helper()
	metrics := services.NewMetrics()
	logger := logging.NewNop()
	svc := services.NewProcessService(lister, config.DefaultIconPath, nil, logger, metrics)
	r, err := NewRouter(Dependencies{
		Service: svc,
		Metrics: metrics,
		Logger:  logger,
		Server:  server,
	})
	require.NoError(t, err)
	return r, metrics
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "127.0.0.1:50000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, fakeLister{out: listing})

	w := get(r, "/processes/?q=Notes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	var list models.ResultList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, "Notes.app", list.Items[0].Title)
	assert.Equal(t, "310", list.Items[0].Arg)
	assert.Equal(t, "/usr/local/bin/notes-sync", list.Items[1].Title)
}

func TestSearchEndpointEmptyQuery(t *testing.T) {
	r, _ := newTestRouter(t, fakeLister{err: fmt.Errorf("%w: not expected", services.ErrListing)})

	w := get(r, "/processes/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"items": []}`, w.Body.String())
}

func TestSearchEndpointBlankQueryListsProcesses(t *testing.T) {
	r, _ := newTestRouter(t, fakeLister{out: listing})

	w := get(r, "/processes/?q=")
	require.Equal(t, http.StatusOK, w.Code)

	var list models.ResultList
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list.Items, 2)
	assert.Equal(t, "310", list.Items[0].UID)
	assert.Equal(t, "101", list.Items[1].UID)
}

func TestSearchEndpointListingFailure(t *testing.T) {
	r, _ := newTestRouter(t, fakeLister{err: fmt.Errorf("%w: ps: not found", services.ErrListing)})

	w := get(r, "/processes/?q=notes")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "process listing failed")
}

func TestStatusEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, fakeLister{})

	w := get(r, "/processes/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Positive(t, body["total_processes"])
}

func TestMetricsEndpoint(t *testing.T) {
	r, _ := newTestRouter(t, fakeLister{out: listing})

	get(r, "/processes/?q=notes")
	w := get(r, "/metrics")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `killprocess_searches_total{outcome="ok"} 1`)
	assert.Contains(t, w.Body.String(), `killprocess_results_total{type="application"} 1`)
}

func TestRemoteClientsAreRejected(t *testing.T) {
	r, _ := newTestRouter(t, fakeLister{out: listing})

	req := httptest.NewRequest(http.MethodGet, "/processes/?q=notes", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestForwardedHeadersAreNotTrusted(t *testing.T) {
	r, _ := newTestRouter(t, fakeLister{out: listing})

	for _, header := range []string{"X-Forwarded-For", "X-Real-IP"} {
		req := httptest.NewRequest(http.MethodGet, "/processes/?q=notes", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		req.Header.Set(header, "127.0.0.1")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code, header)
	}
}

func TestForwardedHeadersFromTrustedProxy(t *testing.T) {
	server := config.Default().Server
	server.TrustedProxies = []string{"203.0.113.9"}
	r, _ := newTestRouterWith(t, fakeLister{out: listing}, server)

	req := httptest.NewRequest(http.MethodGet, "/processes/?q=notes", nil)
	req.RemoteAddr = "203.0.113.9:4000"
	req.Header.Set("X-Forwarded-For", "127.0.0.1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestNewRouterRejectsInvalidProxy(t *testing.T) {
	server := config.Default().Server
	server.TrustedProxies = []string{"not-an-ip"}

	_, err := NewRouter(Dependencies{
		Service: services.NewProcessService(fakeLister{}, config.DefaultIconPath, nil, nil, nil),
		Logger:  logging.NewNop(),
		Server:  server,
	})
	assert.Error(t, err)
}
