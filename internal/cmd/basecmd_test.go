package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/require"

	"github.com/mozilla-ai/outline-mcp/internal/flags"
)

func resetLogFlags(t *testing.T) {
	t.Helper()

	oldPath, oldLevel := flags.LogPath, flags.LogLevel
	t.Cleanup(func() {
		flags.LogPath = oldPath
		flags.LogLevel = oldLevel
	})
}

func TestBaseCmd_LoggerWritesToOutput(t *testing.T) {
	resetLogFlags(t)
	flags.LogPath = ""
	flags.LogLevel = "debug"

	buf := &bytes.Buffer{}
	c := &BaseCmd{logOutput: buf}

	logger, err := c.Logger()
	require.NoError(t, err)
	require.True(t, logger.IsDebug())
	require.False(t, logger.IsTrace())

	logger.Debug("hello", "k", "v")
	require.Contains(t, buf.String(), "outline-mcp: hello: k=v")

	again, err := c.Logger()
	require.NoError(t, err)
	require.Same(t, logger, again)
}

func TestBaseCmd_LoggerUnknownLevelDefaultsToInfo(t *testing.T) {
	resetLogFlags(t)
	flags.LogPath = ""
	flags.LogLevel = "chatty"

	c := &BaseCmd{logOutput: &bytes.Buffer{}}
	logger, err := c.Logger()
	require.NoError(t, err)
	require.True(t, logger.IsInfo())
	require.False(t, logger.IsDebug())
}

func TestBaseCmd_LoggerWritesToFile(t *testing.T) {
	resetLogFlags(t)
	flags.LogPath = filepath.Join(t.TempDir(), "outline-mcp.log")
	flags.LogLevel = "info"

	c := &BaseCmd{}
	logger, err := c.Logger()
	require.NoError(t, err)
	logger.Info("written to file")

	data, err := os.ReadFile(flags.LogPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "written to file")
}

func TestBaseCmd_LoggerBadPath(t *testing.T) {
	resetLogFlags(t)
	flags.LogPath = filepath.Join(t.TempDir(), "missing", "dir", "log.txt")

	_, err := (&BaseCmd{}).Logger()
	require.ErrorContains(t, err, "failed to open log file")
}

func TestBaseCmd_SetLogger(t *testing.T) {
	t.Parallel()

	logger := hclog.NewNullLogger()
	c := &BaseCmd{}
	c.SetLogger(logger)

	got, err := c.Logger()
	require.NoError(t, err)
	require.Equal(t, logger, got)
}
