package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides (SCRIPTURES_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	// Start from defaults.
	cfg := DefaultConfig()

	// Load YAML file if it exists.
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	// Overlay environment variables: SCRIPTURES_PORT -> port,
	// SCRIPTURES_SMTP.HOST -> smtp.host.
	if err := k.Load(env.Provider("SCRIPTURES_", ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, "SCRIPTURES_"))
	}), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains valid values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1-65535, got %d", c.Port)
	}
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.UpstreamBase == "" {
		return fmt.Errorf("upstream_base is required")
	}
	if !strings.HasPrefix(c.UpstreamBase, "http://") && !strings.HasPrefix(c.UpstreamBase, "https://") {
		return fmt.Errorf("upstream_base must be an http(s) URL, got %q", c.UpstreamBase)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive")
	}
	if c.FetchRetries < 0 {
		return fmt.Errorf("fetch_retries must be non-negative")
	}
	if c.BooksLangs.Main == "" || c.BooksLangs.Second == "" {
		return fmt.Errorf("books_langs main and second are required")
	}
	if c.ChapterLangs.Main == "" || c.ChapterLangs.Second == "" {
		return fmt.Errorf("chapter_langs main and second are required")
	}
	if c.TokenMaxAge <= 0 {
		return fmt.Errorf("token_max_age_seconds must be positive")
	}
	return nil
}
