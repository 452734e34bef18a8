package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/hotspot/internal/core/residue"
	"github.com/colonyops/hotspot/internal/core/styles"
)

// Config holds the application configuration.
type Config struct {
	Layout   LayoutConfig   `yaml:"layout"`
	UniProt  UniProtConfig  `yaml:"uniprot"`
	Cache    CacheConfig    `yaml:"cache"`
	Hotspots HotspotsConfig `yaml:"hotspots"`
	TUI      TUIConfig      `yaml:"tui"`
	DataDir  string         `yaml:"-"`
}

// LayoutConfig controls how sequences wrap on screen.
type LayoutConfig struct {
	RowWidth  int `yaml:"row_width"`  // residues per row
	GroupSize int `yaml:"group_size"` // residues between spacer columns, 0 disables
}

// UniProtConfig configures canonical sequence retrieval.
type UniProtConfig struct {
	BaseURL           string        `yaml:"base_url"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// CacheConfig configures the local sequence cache.
type CacheConfig struct {
	Enabled *bool         `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`      // 0 keeps sequences forever
	MissTTL time.Duration `yaml:"miss_ttl"` // how long a not-found accession is remembered
}

// IsEnabled reports whether the persistent cache is on. Defaults to true.
func (c CacheConfig) IsEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}

// HotspotsConfig controls output formatting.
type HotspotsConfig struct {
	Format    string `yaml:"format"`
	RFD3Atoms string `yaml:"rfd3_atoms"`
}

// TUIConfig configures the picker.
type TUIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Layout: LayoutConfig{
			RowWidth:  10,
			GroupSize: 0,
		},
		UniProt: UniProtConfig{
			BaseURL:           "https://rest.uniprot.org/uniprotkb",
			Timeout:           15 * time.Second,
			RequestsPerSecond: 3,
			Burst:             1,
		},
		Cache: CacheConfig{
			TTL:     30 * 24 * time.Hour,
			MissTTL: 24 * time.Hour,
		},
		Hotspots: HotspotsConfig{
			Format:    string(residue.FormatColon),
			RFD3Atoms: "ALL",
		},
		TUI: TUIConfig{
			Theme: styles.DefaultTheme,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Layout.RowWidth == 0 {
		c.Layout.RowWidth = defaults.Layout.RowWidth
	}
	if c.UniProt.BaseURL == "" {
		c.UniProt.BaseURL = defaults.UniProt.BaseURL
	}
	if c.UniProt.Timeout == 0 {
		c.UniProt.Timeout = defaults.UniProt.Timeout
	}
	if c.UniProt.RequestsPerSecond == 0 {
		c.UniProt.RequestsPerSecond = defaults.UniProt.RequestsPerSecond
	}
	if c.UniProt.Burst == 0 {
		c.UniProt.Burst = defaults.UniProt.Burst
	}
	if c.Hotspots.Format == "" {
		c.Hotspots.Format = defaults.Hotspots.Format
	}
	if c.Hotspots.RFD3Atoms == "" {
		c.Hotspots.RFD3Atoms = defaults.Hotspots.RFD3Atoms
	}
	if c.TUI.Theme == "" {
		c.TUI.Theme = defaults.TUI.Theme
	}
}

// Validate checks that the configuration is structurally valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory cannot be empty")
	}

	if c.Layout.RowWidth < 1 {
		return fmt.Errorf("layout.row_width must be at least 1")
	}

	if c.Layout.GroupSize < 0 {
		return fmt.Errorf("layout.group_size cannot be negative")
	}

	if c.UniProt.RequestsPerSecond < 0 {
		return fmt.Errorf("uniprot.requests_per_second cannot be negative")
	}

	if c.Cache.TTL < 0 || c.Cache.MissTTL < 0 {
		return fmt.Errorf("cache ttl values cannot be negative")
	}

	if _, err := residue.ParseToolFormat(c.Hotspots.Format); err != nil {
		return fmt.Errorf("hotspots.format: %w", err)
	}

	if _, ok := styles.GetPalette(c.TUI.Theme); !ok {
		return fmt.Errorf("tui.theme %q is not a known theme", c.TUI.Theme)
	}

	return nil
}

// ToolFormat returns the configured output format.
func (c *Config) ToolFormat() residue.ToolFormat {
	f, _ := residue.ParseToolFormat(c.Hotspots.Format)
	return f
}

// LogFile returns the default log path inside the data directory.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "hotspot.log")
}
