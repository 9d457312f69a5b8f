// Package config loads and persists Scout's YAML configuration file.
// The file lives at ~/.scout/config.yaml by default; a missing file is
// not an error and yields the default configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration document.
type Config struct {
	Browser   BrowserConfig `yaml:"browser"`
	Markets   MarketsConfig `yaml:"markets"`
	Workspace string        `yaml:"workspace"`
	SkillsDir string        `yaml:"skills_dir"`
}

// BrowserConfig controls the browser automation session.
type BrowserConfig struct {
	Headless       bool `yaml:"headless"`
	ViewportWidth  int  `yaml:"viewport_width"`
	ViewportHeight int  `yaml:"viewport_height"`
	// SnapshotMaxChars caps the serialized accessibility tree returned by
	// the snapshot action. Larger trees are truncated.
	SnapshotMaxChars int `yaml:"snapshot_max_chars"`
}

// MarketsConfig configures the market data REST client.
type MarketsConfig struct {
	BaseURL      string `yaml:"base_url"`
	APIKey       string `yaml:"api_key"`
	CacheTTLSecs int    `yaml:"cache_ttl_secs"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Browser: BrowserConfig{
			Headless:         true,
			ViewportWidth:    1280,
			ViewportHeight:   720,
			SnapshotMaxChars: 50000,
		},
		Markets: MarketsConfig{
			BaseURL:      "https://api.marketdata.test",
			CacheTTLSecs: 60,
		},
		Workspace: ".",
		SkillsDir: "",
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".scout", "config.yaml"), nil
}

// Load reads the configuration from the given path, applying defaults for
// any omitted fields. A missing file returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// Save writes the configuration to the given path, creating parent
// directories as needed.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// applyDefaults fills zero-valued fields that must not stay zero.
func (c *Config) applyDefaults() {
	def := Default()

	if c.Browser.ViewportWidth == 0 {
		c.Browser.ViewportWidth = def.Browser.ViewportWidth
	}
	if c.Browser.ViewportHeight == 0 {
		c.Browser.ViewportHeight = def.Browser.ViewportHeight
	}
	if c.Browser.SnapshotMaxChars == 0 {
		c.Browser.SnapshotMaxChars = def.Browser.SnapshotMaxChars
	}
	if c.Markets.BaseURL == "" {
		c.Markets.BaseURL = def.Markets.BaseURL
	}
	if c.Markets.CacheTTLSecs == 0 {
		c.Markets.CacheTTLSecs = def.Markets.CacheTTLSecs
	}
	if c.Workspace == "" {
		c.Workspace = def.Workspace
	}
}
