// Package apiclient is the authenticated JSON client for the finance
// backend. It injects the bearer token, logs every round trip and turns
// failures into typed errors (StatusError, TransportError,
// SerializationError, ErrInvalidState).
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fintrack/internal/log"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultRequestTimeout = 30 * time.Second
	DefaultSocketTimeout  = 30 * time.Second

	maxErrorBody = 4 << 10
)

// Config holds the client settings.
type Config struct {
	BaseURL        string
	ConnectTimeout time.Duration
	RequestTimeout time.Duration
	SocketTimeout  time.Duration
	UserAgent      string
}

type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	logger    *log.Logger
}

// New builds a client whose transport reads the token from tokens on every
// request. tokens may be nil, in which case every request is anonymous.
func New(cfg Config, tokens TokenSource, logger *log.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, fmt.Errorf("%w: missing base URL", ErrInvalidState)
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("%w: parse base URL: %v", ErrInvalidState, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("%w: unsupported base URL scheme %q", ErrInvalidState, base.Scheme)
	}

	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = DefaultConnectTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if cfg.SocketTimeout <= 0 {
		cfg.SocketTimeout = DefaultSocketTimeout
	}
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	var rt http.RoundTripper = newBaseTransport(cfg.ConnectTimeout, cfg.SocketTimeout)
	rt = &loggingTransport{next: rt, logger: logger}
	rt = &authTransport{tokens: tokens, next: rt, logger: logger}

	return &Client{
		baseURL: base,
		http: &http.Client{
			Transport: rt,
			Timeout:   cfg.RequestTimeout,
			// 3xx answers surface as StatusError.
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent: cfg.UserAgent,
		logger:    logger,
	}, nil
}

// BaseURL returns the API root requests are resolved against.
func (c *Client) BaseURL() string {
	if c == nil || c.baseURL == nil {
		return ""
	}
	return c.baseURL.String()
}

// Do sends one request. body, when non-nil, is encoded as JSON. The
// response body is decoded into out when out is non-nil and the body is not
// empty.
func (c *Client) Do(ctx context.Context, method, path string, q Query, body, out any) error {
	if c == nil || c.baseURL == nil || c.http == nil {
		return fmt.Errorf("%w: client not initialized", ErrInvalidState)
	}

	target := c.baseURL.JoinPath(path)
	if len(q) > 0 {
		target.RawQuery = q.Encode()
	}

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &SerializationError{Op: "encode", Err: err}
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, target.String(), reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrInvalidState, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, URL: target.Redacted(), Err: unwrapURLError(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Method:     method,
			URL:        target.Redacted(),
			Message:    readErrorMessage(resp.Body),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, URL: target.Redacted(), Err: err}
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &SerializationError{Op: "decode", Err: err}
	}
	return nil
}

// unwrapURLError drops the *url.Error layer, whose message repeats the URL
// that TransportError already carries.
func unwrapURLError(err error) error {
	var ue *url.Error
	if errors.As(err, &ue) {
		return ue.Err
	}
	return err
}

func readErrorMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBody))
	if err != nil {
		return ""
	}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &payload) == nil {
		if payload.Error != "" {
			return payload.Error
		}
		if payload.Message != "" {
			return payload.Message
		}
	}
	msg := strings.TrimSpace(string(data))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// envelope is the shape of every successful backend response.
type envelope[T any] struct {
	Result T `json:"result"`
}

// Get fetches path and unwraps the result envelope.
func Get[T any](ctx context.Context, c *Client, path string, q Query) (T, error) {
	var env envelope[T]
	err := c.Do(ctx, http.MethodGet, path, q, nil, &env)
	return env.Result, err
}

// Post sends body to path and unwraps the result envelope.
func Post[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var env envelope[T]
	err := c.Do(ctx, http.MethodPost, path, nil, body, &env)
	return env.Result, err
}

// Put sends body to path and unwraps the result envelope.
func Put[T any](ctx context.Context, c *Client, path string, body any) (T, error) {
	var env envelope[T]
	err := c.Do(ctx, http.MethodPut, path, nil, body, &env)
	return env.Result, err
}

// Delete removes the resource at path, ignoring any response body.
func Delete(ctx context.Context, c *Client, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}
