package options

import (
	"fmt"
	"os"

	"github.com/mozilla-ai/outline-mcp/internal/config"
)

type CmdOption func(*CmdOptions) error

// CmdOptions holds the collaborators commands use, replaceable in tests.
type CmdOptions struct {
	ConfigLoader      config.Loader
	ConfigInitializer config.Initializer

	// LookupEnv reads the process environment.
	LookupEnv config.LookupFunc
}

func defaultOptions() CmdOptions {
	configLoader := &config.DefaultLoader{}
	return CmdOptions{
		ConfigLoader:      configLoader,
		ConfigInitializer: configLoader,
		LookupEnv:         os.LookupEnv,
	}
}

func NewOptions(opt ...CmdOption) (CmdOptions, error) {
	opts := defaultOptions()

	for _, o := range opt {
		if o == nil {
			continue
		}
		if err := o(&opts); err != nil {
			return CmdOptions{}, err
		}
	}
	return opts, nil
}

func WithConfigLoader(l config.Loader) CmdOption {
	return func(o *CmdOptions) error {
		if l == nil {
			return fmt.Errorf("config loader cannot be nil")
		}
		o.ConfigLoader = l
		return nil
	}
}

func WithConfigInitializer(i config.Initializer) CmdOption {
	return func(o *CmdOptions) error {
		if i == nil {
			return fmt.Errorf("config initializer cannot be nil")
		}
		o.ConfigInitializer = i
		return nil
	}
}

// WithLookupEnv replaces the environment lookup, e.g. with a map-backed fake.
func WithLookupEnv(fn config.LookupFunc) CmdOption {
	return func(o *CmdOptions) error {
		if fn == nil {
			return fmt.Errorf("environment lookup cannot be nil")
		}
		o.LookupEnv = fn
		return nil
	}
}
