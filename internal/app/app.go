// Package app wires the storefront client together. There are no package
// singletons: every component receives its dependencies here, so tests can
// build the same graph with fakes.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yashpandey06/E-Commerce-Application/internal/api"
	"github.com/yashpandey06/E-Commerce-Application/internal/cart"
	"github.com/yashpandey06/E-Commerce-Application/internal/checkout"
	"github.com/yashpandey06/E-Commerce-Application/internal/config"
	"github.com/yashpandey06/E-Commerce-Application/internal/credstore"
	"github.com/yashpandey06/E-Commerce-Application/internal/httpclient"
	"github.com/yashpandey06/E-Commerce-Application/internal/session"
	"github.com/yashpandey06/E-Commerce-Application/internal/tracing"
)

// App holds the fully wired client component graph.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	Creds    *credstore.Store
	API      *api.Client
	Session  *session.Manager
	Cart     *cart.Store
	Checkout *checkout.Orchestrator

	shutdownTracer func(context.Context) error
}

// NewApp builds the component graph from configuration:
// credential store → transport (retry + circuit breaker) → API client →
// session manager → cart store → checkout orchestrator.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracing: %w", err)
	}

	stateDir, err := cfg.ResolveStateDir()
	if err != nil {
		return nil, err
	}
	creds := credstore.New(stateDir)

	httpCfg := httpclient.DefaultConfig()
	httpCfg.Timeout = time.Duration(cfg.HTTPTimeoutSecs) * time.Second
	httpCfg.MaxRetries = cfg.HTTPMaxRetries
	transport := httpclient.NewCircuitBreakerClient(
		httpclient.New(httpCfg),
		httpclient.CircuitBreakerConfig{
			Name:         "backend",
			MaxRequests:  cfg.CBMaxRequests,
			Interval:     time.Duration(cfg.CBIntervalSecs) * time.Second,
			Timeout:      time.Duration(cfg.CBTimeoutSecs) * time.Second,
			FailureRatio: cfg.CBFailureRatio,
			MinRequests:  cfg.CBMinRequests,
		},
		logger,
	)

	backend := api.New(cfg.APIBaseURL, transport, creds, logger)

	sess := session.NewManager(backend, creds, logger)
	cartStore := cart.NewStore(backend, sess, logger)
	sess.Subscribe(cartStore.OnSessionChange)

	orchestrator := checkout.New(backend, cartStore, sess, logger)

	return &App{
		cfg:            cfg,
		logger:         logger,
		Creds:          creds,
		API:            backend,
		Session:        sess,
		Cart:           cartStore,
		Checkout:       orchestrator,
		shutdownTracer: shutdownTracer,
	}, nil
}

// Start runs the one-time startup verification. The session lands in
// Authenticated or Anonymous; the cart follows through the lifecycle binding.
func (a *App) Start(ctx context.Context) {
	a.Session.Verify(ctx)
	a.logger.InfoContext(ctx, "session verified at startup",
		slog.String("state", a.Session.State().String()),
	)
}

// Shutdown flushes pending telemetry.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return a.shutdownTracer(shutdownCtx)
}
