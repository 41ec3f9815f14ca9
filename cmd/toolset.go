package cmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/outline-mcp/internal/auth"
	"github.com/mozilla-ai/outline-mcp/internal/cache"
	"github.com/mozilla-ai/outline-mcp/internal/cmd"
	"github.com/mozilla-ai/outline-mcp/internal/config"
	"github.com/mozilla-ai/outline-mcp/internal/flags"
	"github.com/mozilla-ai/outline-mcp/internal/outline"
	"github.com/mozilla-ai/outline-mcp/internal/tools"
)

// loadConfig reads the config file named by --config-file and applies environment overrides.
func loadConfig(loader config.Loader, lookup config.LookupFunc) (*config.Config, error) {
	cfg, err := loader.Load(flags.ConfigFile)
	if err != nil {
		return nil, err
	}

	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, fmt.Errorf("invalid environment: %w", err)
	}

	return cfg, nil
}

// lookupAPIKey returns the fallback Outline API key, empty when none is set.
// This is the only place the credential environment variable is read.
func lookupAPIKey(lookup config.LookupFunc) string {
	if lookup == nil {
		return ""
	}
	v, _ := lookup(auth.EnvVarAPIKey)
	return strings.TrimSpace(v)
}

// newToolset wires the credential resolver, Outline client factory and revision cache into a Toolset.
func newToolset(logger hclog.Logger, cfg *config.Config, apiKey string) (*tools.Toolset, error) {
	var baseURL string
	if cfg.Outline != nil && cfg.Outline.APIURL != nil {
		baseURL = *cfg.Outline.APIURL
	}

	factory, err := tools.NewClientFactory(
		logger,
		auth.NewResolver(apiKey),
		baseURL,
		outlineOptions(logger, cfg)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure Outline client: %w", err)
	}

	revisions, err := cache.NewCache(logger, cacheOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("failed to configure revision cache: %w", err)
	}

	deps, err := tools.NewDependencies(logger, factory, revisions)
	if err != nil {
		return nil, err
	}

	return tools.NewToolset(deps)
}

// outlineOptions maps the [outline] section onto client options.
// Every client shares one connection pool.
func outlineOptions(logger hclog.Logger, cfg *config.Config) []outline.Option {
	transport := http.DefaultTransport.(*http.Transport).Clone()

	opts := []outline.Option{
		outline.WithLogger(logger),
		outline.WithHTTPClient(&http.Client{Transport: transport}),
		outline.WithUserAgent(fmt.Sprintf("%s/%s", cmd.AppName, cmd.Version())),
	}

	if cfg.Outline != nil && cfg.Outline.Timeout != nil {
		opts = append(opts, outline.WithTimeout(cfg.Outline.Timeout.Std()))
	}

	return opts
}

// cacheOptions maps the [cache] section onto revision cache options.
func cacheOptions(cfg *config.Config) []cache.Option {
	if cfg.Cache == nil {
		return nil
	}

	var opts []cache.Option
	if cfg.Cache.MaxEntries != nil {
		opts = append(opts, cache.WithMaxEntries(*cfg.Cache.MaxEntries))
	}
	if cfg.Cache.TTL != nil {
		opts = append(opts, cache.WithTTL(cfg.Cache.TTL.Std()))
	}

	return opts
}
