package gateway

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

// errorBody is the envelope for proxy and gateway failures.
type errorBody struct {
	Detail     string `json:"detail"`
	StatusCode int    `json:"status_code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, errorBody{Detail: detail, StatusCode: status})
}

// newProxy forwards /api/<path> to <upstream>/<path>. Upstream error
// responses are replaced by the gateway envelope.
func (s *Server) newProxy(upstream *url.URL) *httputil.ReverseProxy {
	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.SetURL(upstream)
			pr.Out.URL.Path = singleJoin(upstream.Path, strings.TrimPrefix(pr.In.URL.Path, "/api"))
			pr.Out.URL.RawPath = ""
			pr.Out.Host = upstream.Host
			pr.SetXForwarded()
		},
		ModifyResponse: func(resp *http.Response) error {
			for k := range resp.Header {
				if strings.HasPrefix(k, "Access-Control-") {
					resp.Header.Del(k)
				}
			}
			if resp.StatusCode < http.StatusBadRequest {
				return nil
			}
			s.metrics.ProxyErrors.WithLabelValues("upstream").Inc()
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()

			body, err := json.Marshal(errorBody{
				Detail:     "Backend error: " + http.StatusText(resp.StatusCode),
				StatusCode: resp.StatusCode,
			})
			if err != nil {
				return err
			}
			resp.Body = io.NopCloser(bytes.NewReader(body))
			resp.ContentLength = int64(len(body))
			resp.Header.Set("Content-Type", "application/json")
			resp.Header.Set("Content-Length", strconv.Itoa(len(body)))
			resp.Header.Del("Content-Encoding")
			return nil
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			s.metrics.ProxyErrors.WithLabelValues("transport").Inc()
			s.log.Warnw("proxy failed", "path", r.URL.Path, "error", err)
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("Proxy error: %v", err))
		},
	}
}

func singleJoin(a, b string) string {
	a = strings.TrimRight(a, "/")
	if !strings.HasPrefix(b, "/") {
		b = "/" + b
	}
	return a + b
}

// cors adds permissive CORS headers and answers preflight requests.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
