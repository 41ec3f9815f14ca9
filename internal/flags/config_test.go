package flags

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestConfig_InitConfigFile_EnvVars(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{
			name:     "env var value with extra white space",
			value:    "  /custom/path/config.toml  ",
			expected: "/custom/path/config.toml",
		},
		{
			name:     "env var only white space",
			value:    "   ",
			expected: DefaultConfigFile,
		},
		{
			name:     "env var empty string",
			value:    "",
			expected: DefaultConfigFile,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvVarConfigFile, tc.value)
			t.Cleanup(func() {
				ConfigFile = ""
			})

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			initConfigFile(fs)

			require.Equal(t, tc.expected, ConfigFile)
			flag := fs.Lookup(FlagNameConfigFile)
			require.NotNil(t, flag)
			require.Equal(t, tc.expected, flag.Value.String())
		})
	}
}

func TestConfig_InitLogger_EnvVars(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		level         string
		expectedPath  string
		expectedLevel string
	}{
		{
			name:          "defaults",
			expectedPath:  DefaultLogPath,
			expectedLevel: DefaultLogLevel,
		},
		{
			name:          "values are trimmed and lower cased",
			path:          "  /tmp/outline-mcp.log ",
			level:         " DEBUG ",
			expectedPath:  "/tmp/outline-mcp.log",
			expectedLevel: "debug",
		},
		{
			name:          "unknown level falls back",
			level:         "loud",
			expectedLevel: DefaultLogLevel,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(EnvVarLogPath, tc.path)
			t.Setenv(EnvVarLogLevel, tc.level)
			t.Cleanup(func() {
				LogPath = ""
				LogLevel = ""
			})

			fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
			initLogger(fs)

			require.Equal(t, tc.expectedPath, LogPath)
			require.Equal(t, tc.expectedLevel, LogLevel)
			require.NotNil(t, fs.Lookup(FlagNameLogPath))
			require.NotNil(t, fs.Lookup(FlagNameLogLevel))
		})
	}
}

func TestConfig_FlagOverridesEnv(t *testing.T) {
	t.Setenv(EnvVarConfigFile, "/from/env.toml")
	t.Cleanup(func() {
		ConfigFile = ""
		LogPath = ""
		LogLevel = ""
	})

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	InitFlags(fs)

	require.NoError(t, fs.Parse([]string{"--config-file", "/from/flag.toml", "--log-level", "trace"}))
	require.Equal(t, "/from/flag.toml", ConfigFile)
	require.Equal(t, "trace", LogLevel)
}

func TestNormalizeLogLevel(t *testing.T) {
	t.Parallel()

	for _, lvl := range ValidLogLevels() {
		require.Equal(t, lvl, NormalizeLogLevel(lvl))
	}
	require.Equal(t, "warn", NormalizeLogLevel(" WARN"))
	require.Equal(t, DefaultLogLevel, NormalizeLogLevel("verbose"))
}
