package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/outline-mcp/internal/flags"
)

// AppName is the name used for the root logger, the MCP server and the API docs.
const AppName = "outline-mcp"

var version = "dev" // Set at build time using -ldflags

// Version returns the build version.
func Version() string {
	return version
}

// BaseCmd carries what every command needs: a lazily configured logger.
type BaseCmd struct {
	logger hclog.Logger

	// logOutput overrides where logs go, used by tests.
	logOutput io.Writer
}

// SetLogger updates the command's logger.
func (c *BaseCmd) SetLogger(logger hclog.Logger) {
	c.logger = logger
}

// Logger returns the logger for the command, creating it from --log-level and --log-path on first use.
// Logs go to the log file when one is configured and to stderr otherwise: stdout belongs to the stdio transport.
func (c *BaseCmd) Logger() (hclog.Logger, error) {
	if c.logger != nil {
		return c.logger, nil
	}

	output := c.logOutput
	if output == nil {
		output = os.Stderr
	}

	if logPath := strings.TrimSpace(flags.LogPath); logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file (%s): %w", logPath, err)
		}
		output = f
	}

	c.logger = hclog.New(&hclog.LoggerOptions{
		Name:   AppName,
		Level:  hclog.LevelFromString(flags.NormalizeLogLevel(flags.LogLevel)),
		Output: output,
	})

	return c.logger, nil
}
