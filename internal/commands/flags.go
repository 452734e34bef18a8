package commands

import (
	"os"
	"path/filepath"

	"github.com/colonyops/hotspot/internal/core/config"
)

// Flags holds the global flag values shared by every command.
type Flags struct {
	LogLevel     string
	LogFile      string
	ConfigPath   string
	DataDir      string
	ProfilerPort int

	// Config is set by the root Before hook.
	Config *config.Config
}

// DefaultConfigPath is $XDG_CONFIG_HOME/hotspot/config.yaml.
func DefaultConfigPath() string {
	return xdgDir("XDG_CONFIG_HOME", ".config", "config.yaml")
}

// DefaultDataDir is $XDG_DATA_HOME/hotspot, which holds the sequence cache
// and the default log file.
func DefaultDataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// xdgDir joins "hotspot" and elem onto the directory named by env, falling
// back to fallback under the home directory.
func xdgDir(env, fallback string, elem ...string) string {
	base := os.Getenv(env)
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(append([]string{base, "hotspot"}, elem...)...)
}
