// Package api is the typed client for the remote commerce backend. The
// backend is the single source of truth; this package does no caching and
// holds no state beyond the transport.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yashpandey06/E-Commerce-Application/internal/httpclient"
	"github.com/yashpandey06/E-Commerce-Application/internal/logger"
	"github.com/yashpandey06/E-Commerce-Application/internal/metrics"
	"github.com/yashpandey06/E-Commerce-Application/internal/tracing"
)

// HTTPDoer is the interface for executing HTTP requests.
// Both httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// TokenSource supplies the persisted bearer token for authenticated calls.
// The credential store satisfies this; the API client never touches token
// storage directly.
type TokenSource interface {
	Token() (string, bool)
}

// Client issues typed requests against the commerce backend.
type Client struct {
	baseURL string
	http    HTTPDoer
	tokens  TokenSource
	logger  *slog.Logger
	tracer  trace.Tracer
}

// New creates a backend API client.
func New(baseURL string, doer HTTPDoer, tokens TokenSource, log *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    doer,
		tokens:  tokens,
		logger:  log,
		tracer:  tracing.Tracer("storefront/api"),
	}
}

// call executes one backend operation: marshal body (if any), stamp headers,
// send, map non-2xx to the error taxonomy, decode into out (if non-nil).
// When authed is true the persisted bearer token is attached; an absent token
// is still sent as-is (the backend answers 401, which drives the logout
// cascade upstream).
func (c *Client) call(ctx context.Context, operation, method, path string, body, out any, authed bool) error {
	ctx, span := c.tracer.Start(ctx, operation)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", path),
	)

	var reqBody *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		reqBody = bytes.NewReader(raw)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create %s request: %w", operation, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	correlationID := logger.CorrelationIDFromContext(ctx)
	if correlationID == "" {
		correlationID = uuid.New().String()
	}
	req.Header.Set("X-Correlation-ID", correlationID)

	if authed {
		if token, ok := c.tokens.Token(); ok {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, req)
	if err != nil {
		metrics.ObserveBackendRequest(operation, 0, time.Since(start))
		span.SetStatus(codes.Error, err.Error())
		c.logger.WarnContext(ctx, "backend call failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("call backend %s: %w", operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	metrics.ObserveBackendRequest(operation, resp.StatusCode, time.Since(start))
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := httpclient.ParseResponseError(resp, operation)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode %s response: %w", operation, err)
		}
	}

	return nil
}
