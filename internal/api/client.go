// Package api is a thin client for the remote finance API. Every call
// attaches the bearer token from an injected credential store and reports
// problems as *Failure values.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"finadmin/internal/credentials"
	"finadmin/internal/logger"
)

// defaultMaxResponseBytes caps how much of a response body is read.
const defaultMaxResponseBytes = 10 << 20

// Config holds the client settings. BaseURL is required.
type Config struct {
	BaseURL string

	// Timeout bounds each request. Default: 30 seconds.
	Timeout time.Duration

	// HTTPClient overrides the transport, e.g. in tests.
	HTTPClient *http.Client

	UserAgent string

	// MaxResponseBytes bounds the size of a response body. Default: 10 MiB.
	MaxResponseBytes int64
}

// Client talks to the remote API. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	creds     credentials.Store
	userAgent string
	maxBody   int64
	log       zerolog.Logger

	mu    sync.Mutex
	etags map[string]string
}

// NewClient creates a client for cfg.BaseURL that reads its bearer token
// from creds.
func NewClient(cfg Config, creds credentials.Store) (*Client, error) {
	const op = "NewClient"

	if creds == nil {
		return nil, fmt.Errorf("%s: credential store is required", op)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%s: invalid base URL: %w", op, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("%s: base URL must be absolute, got %q", op, cfg.BaseURL)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "finadmin"
	}
	maxBody := cfg.MaxResponseBytes
	if maxBody <= 0 {
		maxBody = defaultMaxResponseBytes
	}

	return &Client{
		baseURL:   base,
		http:      httpClient,
		creds:     creds,
		userAgent: userAgent,
		maxBody:   maxBody,
		log:       logger.WithComponent("api"),
		etags:     make(map[string]string),
	}, nil
}

// request describes a single API call.
type request struct {
	op          string
	method      string
	path        string
	query       url.Values
	body        any
	conditional bool // send If-None-Match with the last ETag seen for this URL
}

// response is a successful (2xx) answer.
type response struct {
	status int
	body   []byte
	etag   string
	url    string
}

func (c *Client) do(ctx context.Context, r request) (*response, error) {
	token, ok := c.creds.Get(credentials.TokenKey)
	if !ok {
		return nil, unauthenticated(r.op)
	}

	target := c.resolve(r.path, r.query)

	var body io.Reader
	if r.body != nil {
		payload, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request body: %w", r.op, err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to build request: %w", r.op, err)
	}

	requestID := uuid.New().String()
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("X-Request-ID", requestID)
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.conditional {
		if etag := c.etag(target); etag != "" {
			req.Header.Set("If-None-Match", etag)
		}
	}

	log := c.log.With().Str("request_id", requestID).Str("op", r.op).Logger()
	start := time.Now()

	resp, err := c.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("method", r.method).Str("url", target).Msg("Request did not complete")
		return nil, networkFailure(r.op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, networkFailure(r.op, err)
	}
	if int64(len(data)) > c.maxBody {
		log.Warn().Int64("limit", c.maxBody).Str("url", target).Msg("Response body exceeds size limit")
		return nil, tooLarge(r.op, resp.StatusCode, c.maxBody)
	}

	log.Debug().
		Str("method", r.method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request finished")

	if resp.StatusCode == http.StatusNotModified {
		return nil, ErrNotModified
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		failure := remoteFailure(r.op, resp.StatusCode, serverMessage(data))
		log.Warn().Int("status", resp.StatusCode).Str("message", failure.Message).Msg("API returned an error")
		return nil, failure
	}

	return &response{
		status: resp.StatusCode,
		body:   data,
		etag:   resp.Header.Get("ETag"),
		url:    target,
	}, nil
}

// resolve joins an already escaped path onto the base URL.
func (c *Client) resolve(path string, query url.Values) string {
	target := strings.TrimRight(c.baseURL.String(), "/") + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func (c *Client) etag(target string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.etags[target]
}

// remember records the ETag of a response whose payload was accepted.
func (c *Client) remember(resp *response) {
	if resp.etag == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.etags[resp.url] = resp.etag
}

// serverMessage extracts the "message" (or "error") field of an error body.
func serverMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(bytes.TrimSpace(body)) == 0 || json.Unmarshal(body, &payload) != nil {
		return ""
	}
	if msg := strings.TrimSpace(payload.Message); msg != "" {
		return msg
	}
	return strings.TrimSpace(payload.Error)
}

// payload returns the "data" member of an enveloped body, or the body itself.
func payload(body []byte) (json.RawMessage, bool) {
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &env); err == nil && len(env.Data) > 0 && string(env.Data) != "null" {
		return env.Data, true
	}
	return body, false
}
