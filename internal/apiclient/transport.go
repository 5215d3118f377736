package apiclient

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/log"
)

const (
	headerAuthorization = "Authorization"
	headerRequestID     = "X-Request-ID"
)

// TokenSource yields the current bearer token, or "" when logged out.
type TokenSource interface {
	Token() string
}

// authTransport attaches the bearer token read on every request. A missing
// token is logged and the request goes out unauthenticated.
type authTransport struct {
	tokens TokenSource
	next   http.RoundTripper
	logger *log.Logger
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := ""
	if t.tokens != nil {
		token = t.tokens.Token()
	}
	if token == "" {
		t.logger.DebugContext(req.Context(), "No auth token available, sending request unauthenticated",
			log.FieldMethod, req.Method,
			log.FieldURL, req.URL.Redacted())
		return t.next.RoundTrip(req)
	}

	req = req.Clone(req.Context())
	req.Header.Set(headerAuthorization, "Bearer "+token)
	return t.next.RoundTrip(req)
}

// loggingTransport tags requests with an id and logs method, URL, status and
// duration of each round trip.
type loggingTransport struct {
	next   http.RoundTripper
	logger *log.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestID := req.Header.Get(headerRequestID)
	if requestID == "" {
		requestID = uuid.NewString()
		req = req.Clone(req.Context())
		req.Header.Set(headerRequestID, requestID)
	}

	ctx := req.Context()
	authorized := req.Header.Get(headerAuthorization) != ""
	t.logger.DebugContext(ctx, "HTTP request started",
		log.NewFields().
			WithRequestID(requestID).
			WithHTTPRequest(req.Method, req.URL.Redacted(), authorized).
			ToSlice()...)

	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	elapsed := time.Since(start).Milliseconds()
	if err != nil {
		t.logger.WarnContext(ctx, "HTTP request failed",
			log.NewFields().
				WithRequestID(requestID).
				WithHTTPRequest(req.Method, req.URL.Redacted(), authorized).
				WithError(err).
				ToSlice()...)
		return nil, err
	}

	level := slog.LevelInfo
	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		level = slog.LevelWarn
	} else if resp.StatusCode >= 500 {
		level = slog.LevelError
	}
	t.logger.LogContext(ctx, level, "HTTP request completed",
		log.NewFields().
			WithRequestID(requestID).
			WithHTTPRequest(req.Method, req.URL.Redacted(), authorized).
			WithHTTPResponse(resp.StatusCode, elapsed).
			ToSlice()...)

	return resp, nil
}

// newBaseTransport mirrors the pooled transport used for outbound API calls:
// connectTimeout bounds dialing, socketTimeout bounds waiting for headers.
func newBaseTransport(connectTimeout, socketTimeout time.Duration) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   connectTimeout,
		KeepAlive: 30 * time.Second,
	}

	return &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		MaxIdleConns:        50,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,

		TLSHandshakeTimeout:   connectTimeout,
		ResponseHeaderTimeout: socketTimeout,
		ExpectContinueTimeout: 1 * time.Second,

		ForceAttemptHTTP2: true,
	}
}
