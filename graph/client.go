// Package graph provides the client for the graph query service: the
// transport shim that exchanges one wire query for one wire response, the
// response decoder that renders result rows into typed node records, and
// the high-level Find operation that compiles and executes a path
// expression in one call.
package graph

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/c360/graphpath/config"
	"github.com/c360/graphpath/errors"
	"github.com/c360/graphpath/metric"
	"github.com/c360/graphpath/path"
	"github.com/c360/graphpath/wire"
)

// Client executes path expressions against a single graph service
// endpoint. The target address and API version are fixed at construction.
// The client is stateless across calls apart from its morphism registry,
// so independent queries may be compiled and executed concurrently.
//
// The client performs no retries and no caching: one Execute call issues
// at most one request. Callers needing bounded latency set
// Config.RequestTimeout or pass a context with a deadline.
type Client struct {
	cfg      *config.Config
	url      string
	httpc    *http.Client
	logger   *slog.Logger
	metrics  *metric.MetricsRegistry
	registry *path.Registry
}

// Option customizes a Client.
type Option func(*Client)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		if httpc != nil {
			c.httpc = httpc
		}
	}
}

// WithMetrics attaches a metrics registry; without one the client records
// nothing.
func WithMetrics(m *metric.MetricsRegistry) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient creates a client for the configured graph service. A nil
// config selects DefaultConfig (localhost, latest API version).
func NewClient(cfg *config.Config, opts ...Option) (*Client, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := &Client{
		cfg:      cfg,
		url:      cfg.QueryURL(),
		httpc:    &http.Client{Timeout: cfg.RequestTimeout},
		logger:   slog.Default(),
		registry: path.NewRegistry(),
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Registry returns the client's morphism registry. Morphisms declared
// here resolve in every expression the client compiles.
func (c *Client) Registry() *path.Registry {
	return c.registry
}

// Declare registers a morphism on the client's registry.
func (c *Client) Declare(m *path.Path) error {
	return c.registry.Declare(m)
}

// Find compiles the expression against the client's registry, executes
// the resulting wire query, and decodes the response into a node set.
// Compilation failures are detected before any network call.
func (c *Client) Find(ctx context.Context, expr *path.Path) (NodeSet, error) {
	query, err := expr.Compile(c.registry)
	if err != nil {
		c.observe(err, 0, -1)
		return nil, err
	}

	body, err := c.Execute(ctx, query)
	if err != nil {
		return nil, err
	}

	nodes, err := DecodeResponse(body)
	if err != nil {
		return nil, err
	}
	return nodes, nil
}

// Execute serializes the wire query, issues one synchronous POST to the
// query endpoint, and returns the raw response body. Connection
// failures, timeouts and non-success status codes surface as
// TransportError with the status preserved for the caller; the client
// never retries.
func (c *Client) Execute(ctx context.Context, query wire.Query) ([]byte, error) {
	payload, err := query.Encode()
	if err != nil {
		werr := errors.Wrap(err, "Client", "Execute", "encoding wire query")
		c.observe(werr, 0, -1)
		return nil, werr
	}

	requestID := uuid.NewString()
	c.logger.Debug("executing query",
		"request_id", requestID,
		"url", c.url,
		"query", string(payload))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		werr := errors.Wrap(err, "Client", "Execute", "building request")
		c.observe(werr, 0, -1)
		return nil, werr
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	start := time.Now()
	resp, err := c.httpc.Do(req)
	if err != nil {
		terr := &errors.TransportError{URL: c.url, Err: err}
		c.observe(terr, time.Since(start), -1)
		return nil, terr
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		terr := &errors.TransportError{URL: c.url, StatusCode: resp.StatusCode, Reason: "reading response body", Err: err}
		c.observe(terr, time.Since(start), -1)
		return nil, terr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		terr := &errors.TransportError{URL: c.url, StatusCode: resp.StatusCode, Reason: resp.Status}
		c.observe(terr, time.Since(start), len(body))
		return nil, terr
	}

	c.logger.Debug("query succeeded",
		"request_id", requestID,
		"status", resp.StatusCode,
		"response_bytes", len(body),
		"duration", time.Since(start))
	c.observe(nil, time.Since(start), len(body))
	return body, nil
}

// observe forwards one exchange outcome to the metrics registry, if any.
func (c *Client) observe(err error, duration time.Duration, responseBytes int) {
	if c.metrics == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = errors.Classify(err).String()
	}
	c.metrics.ObserveQuery(outcome, duration, responseBytes)
}
