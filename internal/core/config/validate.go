package config

import (
	"fmt"
	"net/url"
	"os"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs validation that touches the filesystem and parses
// URLs. The configPath argument specifies the config file location to
// validate (empty string skips the config file check).
// This calls Validate() first for basic structural validation.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
		criterio.Run("uniprot.base_url", c.UniProt.BaseURL, isHTTPURL),
		criterio.Run("hotspots.rfd3_atoms", c.Hotspots.RFD3Atoms, notBlank),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if !c.Cache.IsEnabled() && c.Cache.TTL > 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Cache",
			Item:     "ttl",
			Message:  "cache.ttl has no effect while the cache is disabled",
		})
	}

	if c.Layout.GroupSize > c.Layout.RowWidth {
		warnings = append(warnings, ValidationWarning{
			Category: "Layout",
			Item:     "group_size",
			Message:  fmt.Sprintf("group_size %d exceeds row_width %d; rows will not be grouped", c.Layout.GroupSize, c.Layout.RowWidth),
		})
	}

	if c.UniProt.RequestsPerSecond > 10 {
		warnings = append(warnings, ValidationWarning{
			Category: "UniProt",
			Item:     "requests_per_second",
			Message:  "rates above 10 req/s may be throttled by rest.uniprot.org",
		})
	}

	return warnings
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

func isHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("missing host")
	}
	return nil
}

func notBlank(s string) error {
	if s == "" {
		return fmt.Errorf("cannot be empty")
	}
	return nil
}
