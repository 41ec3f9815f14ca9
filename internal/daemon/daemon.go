// Package daemon runs the Outline tools behind an MCP transport.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/mozilla-ai/outline-mcp/internal/cmd"
	"github.com/mozilla-ai/outline-mcp/internal/contracts"
	"github.com/mozilla-ai/outline-mcp/internal/domain"
	"github.com/mozilla-ai/outline-mcp/internal/tools"
)

var _ contracts.StatusReporter = (*Daemon)(nil)

// Daemon owns the MCP server and the transport it is exposed on.
// NewDaemon should be used to create instances of Daemon.
type Daemon struct {
	logger    hclog.Logger
	toolset   *tools.Toolset
	mcpServer *server.MCPServer
	opts      Options
	startedAt time.Time
}

// NewDaemon creates the MCP server and registers every tool in the toolset.
func NewDaemon(deps Dependencies, opt ...Option) (*Daemon, error) {
	if err := deps.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dependencies for daemon: %w", err)
	}

	opts, err := NewOptions(opt...)
	if err != nil {
		return nil, fmt.Errorf("invalid daemon options: %w", err)
	}

	logger := deps.Logger.Named("server")

	// Recovery wraps everything so panics in the other middleware are also contained.
	mcpServer := server.NewMCPServer(
		cmd.AppName,
		opts.Version,
		server.WithToolCapabilities(false),
		server.WithToolHandlerMiddleware(tools.Recovery(logger)),
		server.WithToolHandlerMiddleware(tools.Logging(logger)),
		server.WithToolHandlerMiddleware(deps.Toolset.SchemaValidation()),
	)
	mcpServer.AddTools(deps.Toolset.ServerTools()...)

	return &Daemon{
		logger:    logger,
		toolset:   deps.Toolset,
		mcpServer: mcpServer,
		opts:      opts,
		startedAt: time.Now(),
	}, nil
}

// Status implements contracts.StatusReporter.
// The bridge is degraded when no fallback credential is configured, since calls without credential headers will fail.
func (d *Daemon) Status() domain.ServerStatus {
	stats := d.toolset.CacheStats()

	status := domain.HealthStatusOK
	if !d.opts.CredentialConfigured {
		status = domain.HealthStatusDegraded
	}

	return domain.ServerStatus{
		Status:               status,
		Version:              d.opts.Version,
		Transport:            d.opts.Transport.String(),
		StartedAt:            d.startedAt,
		CredentialConfigured: d.opts.CredentialConfigured,
		Tools:                len(d.toolset.Names()),
		Cache: domain.CacheUsage{
			Entries:    stats.Entries,
			MaxEntries: stats.MaxEntries,
			Hits:       stats.Hits,
			Misses:     stats.Misses,
		},
	}
}

// Start serves the configured transport and blocks until ctx is canceled or the transport fails.
// A shutdown triggered by ctx is not reported as an error.
func (d *Daemon) Start(ctx context.Context) error {
	d.logger.Info(
		"Starting outline-mcp",
		"version", d.opts.Version,
		"transport", d.opts.Transport,
		"tools", len(d.toolset.Names()),
		"credentialConfigured", d.opts.CredentialConfigured,
	)
	if !d.opts.CredentialConfigured {
		d.logger.Warn("No fallback Outline API key configured, every call must supply its own credential")
	}

	if d.opts.Transport.IsHTTP() {
		return d.serveHTTP(ctx)
	}
	return d.serveStdio(ctx)
}

func (d *Daemon) serveStdio(ctx context.Context) error {
	stdio := server.NewStdioServer(d.mcpServer)
	stdio.SetErrorLogger(d.logger.Named("stdio").StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}))

	err := stdio.Listen(ctx, d.opts.Stdin, d.opts.Stdout)
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		d.logger.Info("Stdio transport closed")
		return nil
	}

	return fmt.Errorf("stdio transport failed: %w", err)
}

func (d *Daemon) serveHTTP(ctx context.Context) error {
	handler, err := d.Handler()
	if err != nil {
		return err
	}

	// Streams (SSE, streamable HTTP GET) only end when their request context does.
	baseCtx, cancelStreams := context.WithCancel(context.Background())
	defer cancelStreams()

	srv := &http.Server{
		Addr:              d.opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	srv.RegisterOnShutdown(cancelStreams)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		d.logger.Info("Starting HTTP transport", "address", d.opts.Addr, "transport", d.opts.Transport)
		if d.opts.CORS.Enabled {
			d.logger.Info("CORS enabled", "origins", d.opts.CORS.AllowOrigins)
		}
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP transport failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), d.opts.ShutdownTimeout)
		defer cancel()

		d.logger.Info("Shutting down HTTP transport...")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("HTTP transport shutdown failed: %w", err)
		}
		d.logger.Info("Shutdown complete")
		return nil
	})

	return g.Wait()
}
