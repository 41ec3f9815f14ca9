package flags

import (
	"os"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

const (
	// Env vars
	EnvVarConfigFile = "OUTLINE_MCP_CONFIG_FILE"
	EnvVarLogPath    = "OUTLINE_MCP_LOG_PATH"
	EnvVarLogLevel   = "OUTLINE_MCP_LOG_LEVEL"

	// Defaults
	DefaultConfigFile = ".outline-mcp.toml"
	DefaultLogPath    = ""
	DefaultLogLevel   = "info"

	// Flag names
	FlagNameConfigFile = "config-file"
	FlagNameLogPath    = "log-path"
	FlagNameLogLevel   = "log-level"
)

var (
	ConfigFile string
	LogPath    string
	LogLevel   string
)

// ValidLogLevels lists the accepted --log-level values.
func ValidLogLevels() []string {
	return []string{"trace", "debug", "info", "warn", "error", "off"}
}

func InitFlags(fs *pflag.FlagSet) {
	initConfigFile(fs)
	initLogger(fs)
}

// NormalizeLogLevel lower-cases level and falls back to DefaultLogLevel for unknown values.
func NormalizeLogLevel(level string) string {
	level = strings.ToLower(strings.TrimSpace(level))
	if slices.Contains(ValidLogLevels(), level) {
		return level
	}
	return DefaultLogLevel
}

func initConfigFile(fs *pflag.FlagSet) {
	if ConfigFile == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarConfigFile)); env != "" {
			ConfigFile = env
		} else {
			ConfigFile = DefaultConfigFile
		}
	}
	fs.StringVar(&ConfigFile, FlagNameConfigFile, ConfigFile, "path to config file")
}

func initLogger(fs *pflag.FlagSet) {
	if LogPath == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogPath)); env != "" {
			LogPath = env
		} else {
			LogPath = DefaultLogPath
		}
	}
	fs.StringVar(&LogPath, FlagNameLogPath, LogPath, "path to log file (defaults to stderr)")

	if LogLevel == "" {
		if env := strings.TrimSpace(os.Getenv(EnvVarLogLevel)); env != "" {
			LogLevel = NormalizeLogLevel(env)
		} else {
			LogLevel = DefaultLogLevel
		}
	}
	fs.StringVar(
		&LogLevel,
		FlagNameLogLevel,
		LogLevel,
		"log level for outline-mcp logs ("+strings.Join(ValidLogLevels(), ", ")+")",
	)
}
