// Package query talks to the remote query service and maps every response,
// including failures, onto a closed set of Outcome variants.
package query

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/zap"

	"supplyask/internal/telemetry"
)

// DefaultEndpoint is the query service address used by the original deployment.
const DefaultEndpoint = "http://127.0.0.1:8000/query/"

// DefaultTimeout bounds one submission, including reading the body.
const DefaultTimeout = 60 * time.Second

// maxResponseBytes caps how much of a response body is read.
const maxResponseBytes = 32 << 20

// Client sends questions to the query service.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
	metrics  *Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics records submissions in m.
func WithMetrics(m *Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a client for endpoint. A non-positive timeout uses DefaultTimeout.
func NewClient(endpoint string, timeout time.Duration, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{Timeout: timeout},
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the URL submissions are posted to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit sends one request and waits for the full response.
// It always returns exactly one Outcome; every fault becomes a Failure.
// There is no retry and no caching.
func (c *Client) Submit(ctx context.Context, req Request) Outcome {
	start := time.Now()
	requestID := uuid.NewString()
	log := c.logger.With(
		zap.String("request_id", requestID),
		zap.Stringer("role", req.Role),
		zap.Stringer("region", req.Region),
	)

	outcome, err := c.do(ctx, req, requestID)
	if err != nil {
		log.Warn("query failed", zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		outcome = Failure{Message: err.Error()}
	} else {
		log.Info("query settled",
			zap.Stringer("outcome", outcome.Kind()),
			zap.Duration("elapsed", time.Since(start)))
	}
	c.metrics.observe(outcome.Kind(), time.Since(start))
	return outcome
}

func (c *Client) do(ctx context.Context, req Request, requestID string) (outcome Outcome, err error) {
	ctx, span := telemetry.StartHTTPSpan(ctx, http.MethodPost, c.endpoint)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	telemetry.InjectTraceparent(ctx, httpReq)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("query service unreachable: %w", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(semconv.HTTPStatusCodeKey.Int(resp.StatusCode))

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Debug("non-success response body",
			zap.String("request_id", requestID),
			zap.ByteString("body", truncate(body, 512)))
		return nil, fmt.Errorf("query service returned %s", resp.Status)
	}

	outcome, err = DecodeResponse(body)
	if err != nil {
		var unsupported *UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return nil, err
		}
		return nil, fmt.Errorf("malformed response: %w", err)
	}
	return outcome, nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
