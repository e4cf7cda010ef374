// Package api is the HTTP client for the Coinfixi admin API. List endpoints
// decode rows as table records so screens stay independent of the payload
// shape; actions use typed, validated requests.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"coinfixi/internal/logging"
	"coinfixi/internal/session"
)

// RequestIDHeader carries a per-call id for correlating with backend logs.
const RequestIDHeader = "X-Request-ID"

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second; 0 disables limiting
	Burst     int
	UserAgent string
	// HTTPClient overrides the default client. Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client calls the admin API on behalf of the operator held in Session.
type Client struct {
	baseURL   string
	http      *http.Client
	limiter   *rate.Limiter
	userAgent string
	session   *session.Session
}

// New creates a client. sess may be empty but not nil.
func New(opts Options, sess *session.Session) (*Client, error) {
	base := strings.TrimRight(opts.BaseURL, "/")
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", opts.BaseURL)
	}
	if sess == nil {
		sess = session.New()
	}

	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}

	var lim *rate.Limiter
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = "fixi"
	}

	return &Client{
		baseURL:   base,
		http:      hc,
		limiter:   lim,
		userAgent: ua,
		session:   sess,
	}, nil
}

// BaseURL returns the upstream base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Session returns the session the client authenticates with.
func (c *Client) Session() *session.Session { return c.session }

// WithSession returns a copy of c authenticating as sess. The gateway uses
// it to forward each caller's own token.
func (c *Client) WithSession(sess *session.Session) *Client {
	cp := *c
	cp.session = sess
	return &cp
}

// Get issues a GET and decodes the body into T.
func Get[T any](ctx context.Context, c *Client, path string, query url.Values) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodGet, path, query, nil, &out)
	return out, err
}

// Post issues a POST with a JSON body and decodes the reply into T.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodPost, path, nil, body, &out)
	return out, err
}

// Put issues a PUT with a JSON body and decodes the reply into T.
func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodPut, path, nil, body, &out)
	return out, err
}

// Patch issues a PATCH with a JSON body and decodes the reply into T.
func Patch[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodPatch, path, nil, body, &out)
	return out, err
}

// Delete issues a DELETE and decodes the reply into T.
func Delete[T any](ctx context.Context, c *Client, path string) (T, error) {
	var out T
	err := c.Do(ctx, http.MethodDelete, path, nil, nil, &out)
	return out, err
}

// Do performs one request. out may be nil. Every failure is an *Error.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	log := logging.Get(logging.CategoryAPI)
	timer := logging.StartTimer(logging.CategoryAPI, method+" "+path)
	defer timer.Stop(5 * time.Second)

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Status: http.StatusInternalServerError, Message: "failed to encode request", Err: err}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, reqID)
	if tok := c.session.Token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Debugw("request failed", "method", method, "path", path, "request_id", reqID, "error", err)
		return &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Status: http.StatusInternalServerError, Message: err.Error(), Err: err}
	}
	log.Debugw("response", "method", method, "path", path, "status", resp.StatusCode, "request_id", reqID, "bytes", len(raw))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody map[string]any
		_ = json.Unmarshal(raw, &errBody)
		return &Error{Status: resp.StatusCode, Message: messageFrom(errBody), Body: errBody}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &Error{Status: http.StatusInternalServerError, Message: "invalid response body: " + err.Error(), Err: err}
	}
	return nil
}
