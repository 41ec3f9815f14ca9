package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/mozilla-ai/outline-mcp/internal/auth"
	"github.com/mozilla-ai/outline-mcp/internal/cmd"
	cmdopts "github.com/mozilla-ai/outline-mcp/internal/cmd/options"
	"github.com/mozilla-ai/outline-mcp/internal/config"
	"github.com/mozilla-ai/outline-mcp/internal/daemon"
	"github.com/mozilla-ai/outline-mcp/internal/flags"
)

const (
	flagNameTransport = "transport"
	flagNameAddr      = "addr"
)

// ServeCmd should be used to represent the 'serve' command.
type ServeCmd struct {
	*cmd.BaseCmd
	Transport string
	Addr      string
	cfgLoader config.Loader
	lookupEnv config.LookupFunc
}

// NewServeCmd creates a newly configured (Cobra) command.
func NewServeCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ServeCmd{
		BaseCmd:   baseCmd,
		cfgLoader: opts.ConfigLoader,
		lookupEnv: opts.LookupEnv,
	}

	cobraCommand := &cobra.Command{
		Use:   "serve [--transport] [--addr]",
		Short: "Runs the MCP server",
		Long:  c.longDescription(),
		RunE:  c.run,
	}

	cobraCommand.Flags().StringVar(
		&c.Transport,
		flagNameTransport,
		"",
		fmt.Sprintf("MCP transport: stdio, sse, streamable-http or http (overrides %s)", config.EnvVarTransport),
	)

	cobraCommand.Flags().StringVar(
		&c.Addr,
		flagNameAddr,
		"",
		fmt.Sprintf("Address HTTP transports bind to, defaults to %s (overrides %s)", daemon.DefaultAddr(), config.EnvVarAddr),
	)

	return cobraCommand, nil
}

func (c *ServeCmd) longDescription() string {
	return fmt.Sprintf(
		"Runs the MCP server, exposing the Outline tools over the configured transport.\n\n"+
			"Settings are read from the config file (--%s), then the %s, %s and %s environment variables, "+
			"then the command line flags.\n\n"+
			"The fallback Outline API key is read from %s. HTTP callers can supply their own key with the "+
			"'%s: Bearer <key>', '%s' or '%s' headers.",
		flags.FlagNameConfigFile,
		config.EnvVarAPIURL,
		config.EnvVarTransport,
		config.EnvVarAddr,
		auth.EnvVarAPIKey,
		auth.HeaderAuthorization,
		auth.HeaderXOutlineAPIKey,
		auth.HeaderOutlineAPIKey,
	)
}

// run is configured (via NewServeCmd) to be called by the Cobra framework when the command is executed.
func (c *ServeCmd) run(cobraCmd *cobra.Command, _ []string) error {
	logger, err := c.Logger()
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c.cfgLoader, c.lookupEnv)
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		return err
	}
	if cfg.Path() != "" {
		logger.Debug("Loaded configuration", "path", cfg.Path())
	}

	var transport, addr *string
	if cobraCmd.Flags().Changed(flagNameTransport) {
		transport = &c.Transport
	}
	if cobraCmd.Flags().Changed(flagNameAddr) {
		addr = &c.Addr
	}
	if err := cfg.OverrideServer(transport, addr); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}

	apiKey := lookupAPIKey(c.lookupEnv)

	toolset, err := newToolset(logger, cfg, apiKey)
	if err != nil {
		return err
	}

	deps, err := daemon.NewDependencies(logger, toolset)
	if err != nil {
		return err
	}

	daemonOpts := daemonOptions(logger, cfg, apiKey != "")
	daemonOpts = append(daemonOpts, daemon.WithStdio(cobraCmd.InOrStdin(), cobraCmd.OutOrStdout()))

	d, err := daemon.NewDaemon(deps, daemonOpts...)
	if err != nil {
		return fmt.Errorf("failed to create %s instance: %w", cmd.AppName, err)
	}

	// Create the signal handling context for the application.
	ctx, cancel := signal.NotifyContext(withContext(cobraCmd.Context()), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := d.Start(ctx); err != nil {
		logger.Error("Server exited with error", "error", err)
		return err
	}

	return nil
}

// daemonOptions maps the [server] section onto daemon options.
func daemonOptions(logger hclog.Logger, cfg *config.Config, credentialConfigured bool) []daemon.Option {
	srv := cfg.Server
	if srv == nil {
		srv = &config.ServerSection{}
	}

	var transport string
	if srv.Transport != nil {
		transport = *srv.Transport
	}

	opts := []daemon.Option{
		daemon.WithTransport(daemon.ResolveTransport(logger, transport)),
		daemon.WithVersion(cmd.Version()),
		daemon.WithCredentialConfigured(credentialConfigured),
	}

	if srv.Addr != nil {
		opts = append(opts, daemon.WithAddr(*srv.Addr))
	}
	if srv.Endpoint != nil {
		opts = append(opts, daemon.WithEndpoint(*srv.Endpoint))
	}
	if srv.ShutdownTimeout != nil {
		opts = append(opts, daemon.WithShutdownTimeout(srv.ShutdownTimeout.Std()))
	}

	cors := srv.CORS
	if cors == nil {
		return opts
	}

	if cors.Enable != nil {
		opts = append(opts, daemon.WithCORSEnabled(*cors.Enable))
	}
	if cors.Origins != nil {
		opts = append(opts, daemon.WithCORSAllowOrigins(cors.Origins))
	}
	if cors.Methods != nil {
		opts = append(opts, daemon.WithCORSAllowMethods(cors.Methods))
	}
	if cors.Headers != nil {
		opts = append(opts, daemon.WithCORSAllowHeaders(cors.Headers))
	}
	if cors.ExposeHeaders != nil {
		opts = append(opts, daemon.WithCORSExposeHeaders(cors.ExposeHeaders))
	}
	if cors.Credentials != nil {
		opts = append(opts, daemon.WithCORSAllowCredentials(*cors.Credentials))
	}
	if cors.MaxAge != nil {
		opts = append(opts, daemon.WithCORSMaxAge(cors.MaxAge.Std()))
	}

	return opts
}

// withContext keeps the command runnable when executed without a context (e.g. directly in tests).
func withContext(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
