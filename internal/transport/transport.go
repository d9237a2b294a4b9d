// Package transport is the single HTTP path to the Dolabb backend. Every
// resource client goes through Client.Do, which attaches the bearer token,
// rate-limits, traces and classifies failures into the domain error types.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/dolabb/dolabbctl/internal/domain"
	"github.com/dolabb/dolabbctl/internal/logging"
	"github.com/dolabb/dolabbctl/internal/metrics"
)

const (
	tracerName      = "github.com/dolabb/dolabbctl/internal/transport"
	maxResponseSize = 8 << 20

	// HeaderRequestID carries a per-call correlation id.
	HeaderRequestID = "X-Request-ID"
)

// TokenSource supplies the bearer token for the current session. An empty
// token means no Authorization header is sent.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func() string

// Token implements TokenSource.
func (f TokenFunc) Token() string { return f() }

// Request describes one backend call.
type Request struct {
	// Resource labels the call in logs and metrics.
	Resource string
	Method   string
	// Path is relative to the base URL, e.g. "/api/admin/users/".
	Path  string
	Query url.Values
	// Body is JSON-encoded when set. Use omitempty or pointer fields so
	// absent values are not sent.
	Body any
	// Form sends multipart/form-data instead of JSON.
	Form *Multipart
}

// Client performs backend calls.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	tokens     TokenSource
	limiter    *rate.Limiter
	tracer     trace.Tracer
	metrics    *metrics.Recorder
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the ceiling for a whole call.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithTokenSource sets where the bearer token comes from.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithRateLimit caps outbound calls to r per second with the given burst.
// r <= 0 disables limiting.
func WithRateLimit(r float64, burst int) Option {
	return func(c *Client) {
		if r <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(r), burst)
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m *metrics.Recorder) Option {
	return func(c *Client) { c.metrics = m }
}

// WithTracerProvider sets the tracer provider used for client spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// New creates a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url must be http or https: %q", baseURL)
	}

	c := &Client{
		baseURL:    u,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		tokens:     TokenFunc(func() string { return "" }),
		limiter:    rate.NewLimiter(rate.Inf, 0),
		tracer:     otel.Tracer(tracerName),
		logger:     logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the configured backend root.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do performs exactly one HTTP call and decodes a 2xx JSON body into out
// (skipped when out is nil). Failures are *domain.TransportError,
// *domain.ServerError or *domain.DecodeError.
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	ctx, span := c.tracer.Start(ctx, req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
			attribute.String("dolabb.resource", req.Resource),
		),
	)
	defer span.End()

	start := time.Now()
	status, err := c.do(ctx, req, out)
	elapsed := time.Since(start)

	outcome := outcomeOf(err)
	c.metrics.ObserveRequest(req.Resource, req.Method, outcome, elapsed)
	if status != 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", status))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, outcome)
	}

	c.logger.DebugContext(ctx, "api call",
		"resource", req.Resource,
		"method", req.Method,
		"path", req.Path,
		"status", status,
		"outcome", outcome,
		"duration", elapsed,
	)
	return err
}

func (c *Client) do(ctx context.Context, req Request, out any) (int, error) {
	op := req.Method + " " + req.Path

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, &domain.TransportError{Op: op, Err: err}
	}

	httpReq, err := c.newRequest(ctx, req)
	if err != nil {
		return 0, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, &domain.TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return resp.StatusCode, &domain.TransportError{Op: op, Err: fmt.Errorf("reading body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp.StatusCode, &domain.ServerError{
			Status:  resp.StatusCode,
			Message: errorMessage(body, resp.StatusCode),
		}
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return resp.StatusCode, &domain.DecodeError{Err: errors.New("empty response body")}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return resp.StatusCode, &domain.DecodeError{Err: err}
	}
	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, req Request) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var (
		body        io.Reader
		contentType string
	)
	switch {
	case req.Form != nil:
		buf, ct, err := req.Form.encode()
		if err != nil {
			return nil, fmt.Errorf("encoding multipart body: %w", err)
		}
		body, contentType = buf, ct
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderRequestID, uuid.NewString())
	if token := c.tokens.Token(); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	return httpReq, nil
}

// errorMessage extracts the server-supplied reason from an error body.
func errorMessage(body []byte, status int) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Error != "":
			return payload.Error
		case payload.Message != "":
			return payload.Message
		case payload.Detail != "":
			return payload.Detail
		}
	}
	return fmt.Sprintf("HTTP error! status: %d", status)
}

func outcomeOf(err error) string {
	var (
		te *domain.TransportError
		se *domain.ServerError
		de *domain.DecodeError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &te):
		if errors.Is(err, context.DeadlineExceeded) {
			return "timeout"
		}
		return "transport_error"
	case errors.As(err, &se):
		return "server_error"
	case errors.As(err, &de):
		return "decode_error"
	default:
		return "error"
	}
}
