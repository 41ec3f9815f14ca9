package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/mozilla-ai/outline-mcp/internal/cmd"
	cmdopts "github.com/mozilla-ai/outline-mcp/internal/cmd/options"
	"github.com/mozilla-ai/outline-mcp/internal/config"
	"github.com/mozilla-ai/outline-mcp/internal/printer"
)

// NewToolsCmd creates the 'tools' command group.
func NewToolsCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	cobraCommand := &cobra.Command{
		Use:   "tools",
		Short: "Inspects the MCP tools offered to clients",
	}

	listCmd, err := NewToolsListCmd(baseCmd, opt...)
	if err != nil {
		return nil, err
	}
	cobraCommand.AddCommand(listCmd)

	return cobraCommand, nil
}

// ToolsListCmd should be used to represent the 'tools list' command.
type ToolsListCmd struct {
	*cmd.BaseCmd
	Format    cmd.OutputFormat
	Category  string
	cfgLoader config.Loader
	lookupEnv config.LookupFunc
}

// NewToolsListCmd creates a newly configured (Cobra) command.
func NewToolsListCmd(baseCmd *cmd.BaseCmd, opt ...cmdopts.CmdOption) (*cobra.Command, error) {
	opts, err := cmdopts.NewOptions(opt...)
	if err != nil {
		return nil, err
	}

	c := &ToolsListCmd{
		BaseCmd:   baseCmd,
		Format:    cmd.FormatText,
		cfgLoader: opts.ConfigLoader,
		lookupEnv: opts.LookupEnv,
	}

	cobraCommand := &cobra.Command{
		Use:   "list",
		Short: "Lists every tool with its category and arguments",
		Args:  cobra.NoArgs,
		RunE:  c.run,
	}

	allowed := cmd.AllowedOutputFormats()
	cobraCommand.Flags().Var(
		&c.Format,
		"format",
		"Specify the output format, one of: "+allowed.String(),
	)

	cobraCommand.Flags().StringVar(
		&c.Category,
		"category",
		"",
		"Only list tools in this category, e.g. revisions",
	)

	return cobraCommand, nil
}

func (c *ToolsListCmd) run(cobraCmd *cobra.Command, _ []string) error {
	handler, err := cmd.NewOutputHandler[printer.ToolEntry](c.Format, cobraCmd.OutOrStdout(), printer.NewToolPrinter())
	if err != nil {
		return err
	}

	logger, err := c.Logger()
	if err != nil {
		return handler.HandleError(err)
	}

	cfg, err := loadConfig(c.cfgLoader, c.lookupEnv)
	if err != nil {
		return handler.HandleError(err)
	}

	// Listing never calls Outline, so no credential is needed.
	toolset, err := newToolset(logger, cfg, "")
	if err != nil {
		return handler.HandleError(err)
	}

	category := strings.ToLower(strings.TrimSpace(c.Category))

	var entries []printer.ToolEntry
	for _, d := range toolset.Catalog() {
		if category != "" && d.Category != category {
			continue
		}
		entries = append(entries, printer.NewToolEntry(d))
	}

	return handler.HandleResults(entries...)
}
