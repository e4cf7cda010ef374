package gateway

import (
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"coinfixi/internal/api"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreTopFunction("net/http.(*persistConn).readLoop"),
		goleak.IgnoreTopFunction("net/http.(*persistConn).writeLoop"),
		goleak.IgnoreTopFunction("internal/poll.runtime_pollWait"),
	)
}

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }

type fixture struct {
	upstream *httptest.Server
	gateway  *httptest.Server
	server   *Server
}

func newFixture(t *testing.T, upstream http.HandlerFunc) *fixture {
	t.Helper()
	up := httptest.NewServer(upstream)
	t.Cleanup(up.Close)

	c, err := api.New(api.Options{BaseURL: up.URL, Timeout: 5 * time.Second}, nil)
	require.NoError(t, err)
	s, err := New(Options{Client: c, BuildID: "b42", Environment: "test", Now: fixedNow})
	require.NoError(t, err)

	gw := httptest.NewServer(s.Handler())
	t.Cleanup(gw.Close)
	return &fixture{upstream: up, gateway: gw, server: s}
}

func (f *fixture) do(t *testing.T, method, path string, header http.Header) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, f.gateway.URL+path, nil)
	require.NoError(t, err)
	for k, v := range header {
		req.Header[k] = v
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	}
	return resp, body
}

func upstreamJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNewRequiresClient(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}

func TestVersionAndDebug(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected upstream call %s", r.URL.Path)
	})

	resp, body := f.do(t, http.MethodGet, "/api/version", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, Version, body["version"])
	assert.Equal(t, "b42", body["build_id"])
	assert.Equal(t, "2024-06-01T12:00:00Z", body["timestamp"])
	assert.Equal(t, true, body["deployed"])

	_, body = f.do(t, http.MethodGet, "/api/debug", nil)
	assert.Equal(t, f.upstream.URL, body["api_base"])
	assert.Equal(t, "test", body["environment"])
}

func TestProxyForwards(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "https://elsewhere")
		upstreamJSON(w, http.StatusOK, map[string]any{
			"path":  r.URL.Path,
			"query": r.URL.RawQuery,
			"auth":  r.Header.Get("Authorization"),
		})
	})

	resp, body := f.do(t, http.MethodGet, "/api/admin/clients?page=2", http.Header{"Authorization": {"Bearer t1"}})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "/admin/clients", body["path"])
	assert.Equal(t, "page=2", body["query"])
	assert.Equal(t, "Bearer t1", body["auth"])
	assert.Equal(t, []string{"*"}, resp.Header.Values("Access-Control-Allow-Origin"))
}

func TestPreflight(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("preflight reached upstream")
	})
	resp, _ := f.do(t, http.MethodOptions, "/api/admin/clients", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "DELETE")
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestProxyWrapsUpstreamErrors(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		upstreamJSON(w, http.StatusNotFound, map[string]any{"detail": "no such client"})
	})
	resp, body := f.do(t, http.MethodPost, "/api/admin/clients/x/suspend", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Backend error: Not Found", body["detail"])
	assert.Equal(t, float64(404), body["status_code"])
}

func TestProxyTransportError(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	f.upstream.Close()

	resp, body := f.do(t, http.MethodGet, "/api/admin/clients", nil)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.True(t, strings.HasPrefix(body["detail"].(string), "Proxy error:"))
	assert.Equal(t, float64(500), body["status_code"])
}

func TestTestBackend(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/__version__", r.URL.Path)
		upstreamJSON(w, http.StatusOK, map[string]any{"version": "1.2.3"})
	})
	_, body := f.do(t, http.MethodGet, "/api/test-backend", nil)
	assert.Equal(t, true, body["backend_reachable"])
	assert.Equal(t, map[string]any{"version": "1.2.3"}, body["backend_data"])

	f.upstream.Close()
	resp, body := f.do(t, http.MethodGet, "/api/test-backend", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func clientsUpstream(t *testing.T, wantAuth string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != wantAuth {
			upstreamJSON(w, http.StatusUnauthorized, map[string]any{"detail": "Not authenticated"})
			return
		}
		assert.Equal(t, "active", r.URL.Query().Get("status"))
		upstreamJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{
				{"id": "c1", "business_name": "Acme", "monthly_volume": 10.0, "account_status": "active"},
				{"id": "c2", "business_name": "Beta Labs", "monthly_volume": 30.0, "account_status": "active"},
				{"id": "c3", "business_name": "Acme Asia", "monthly_volume": 20.0, "account_status": "active"},
			},
			"pagination": map[string]any{"page": 1, "limit": 25, "total": 3, "pages": 1},
		})
	}
}

func TestTableEndpoint(t *testing.T) {
	f := newFixture(t, clientsUpstream(t, "Bearer op"))
	auth := http.Header{"Authorization": {"Bearer op"}}

	resp, body := f.do(t, http.MethodGet, "/tables/clients?q=acme&sort=monthly_volume&dir=desc&status=active", auth)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "populated", body["phase"])
	assert.Equal(t, float64(2), body["shown"])
	assert.Equal(t, float64(3), body["total"])
	records := body["records"].([]any)
	require.Len(t, records, 2)
	assert.Equal(t, "c3", records[0].(map[string]any)["id"])
	assert.Equal(t, "c1", records[1].(map[string]any)["id"])

	resp, body = f.do(t, http.MethodGet, "/tables/clients?q=zzz&status=active", auth)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "empty", body["phase"])
	assert.Equal(t, "No clients found", body["message"])
}

func TestTableEndpointErrors(t *testing.T) {
	f := newFixture(t, clientsUpstream(t, "Bearer op"))

	resp, _ := f.do(t, http.MethodGet, "/tables/payouts", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/tables/clients?status=active", http.Header{"Authorization": {"Bearer wrong"}})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/tables/clients?sort=email&status=active", http.Header{"Authorization": {"Bearer op"}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["detail"], "not sortable")
}

func TestTableIndexAndMetrics(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})

	resp, err := http.Get(f.gateway.URL + "/tables")
	require.NoError(t, err)
	var index []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&index))
	resp.Body.Close()
	assert.Len(t, index, 10)

	resp, err = http.Get(f.gateway.URL + "/metrics")
	require.NoError(t, err)
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(raw), `fixi_gateway_requests_total{method="GET",route="/tables",status="200"} 1`)
}

func TestNotFoundEnvelope(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {})
	resp, body := f.do(t, http.MethodGet, "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "Not Found", body["detail"])
}

func TestServeShutsDownOnCancel(t *testing.T) {
	c, err := api.New(api.Options{BaseURL: "http://127.0.0.1:1"}, nil)
	require.NoError(t, err)
	s, err := New(Options{Client: c})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln, time.Second) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop")
	}
}
