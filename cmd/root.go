package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/outline-mcp/internal/cmd"
	cmdopts "github.com/mozilla-ai/outline-mcp/internal/cmd/options"
	"github.com/mozilla-ai/outline-mcp/internal/flags"
)

// RootCmd represents the 'outline-mcp' command.
type RootCmd struct {
	*cmd.BaseCmd
}

// Execute builds the root command and runs it.
func Execute() error {
	rootCmd, err := NewRootCmd(&RootCmd{BaseCmd: &cmd.BaseCmd{}})
	if err != nil {
		return err
	}

	return rootCmd.Execute()
}

// NewRootCmd creates the root command with every subcommand attached.
// The command options are handed to each subcommand.
func NewRootCmd(c *RootCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	rootCmd := &cobra.Command{
		Use:          cmd.AppName + " <command> [args]",
		Short:        "Bridges the Outline knowledge base API to MCP clients",
		Long:         c.longDescription(),
		SilenceUsage: true,
		Version:      cmd.Version(),
	}

	// Global flags
	flags.InitFlags(rootCmd.PersistentFlags())

	fns := []func(*cmd.BaseCmd, ...cmdopts.CmdOption) (*cobra.Command, error){
		NewServeCmd,
		NewInitCmd,
		NewToolsCmd,
	}

	for _, fn := range fns {
		subCmd, err := fn(c.BaseCmd, opt...)
		if err != nil {
			return nil, fmt.Errorf("failed to create command: %w", err)
		}
		rootCmd.AddCommand(subCmd)
	}

	return rootCmd, nil
}

func (c *RootCmd) longDescription() string {
	return `'outline-mcp' exposes an Outline workspace to AI assistants as a set of MCP tools.

It speaks MCP over stdio, SSE or streamable HTTP and forwards each tool call to the
Outline API, using the caller's credential header or the OUTLINE_API_KEY environment variable.`
}
