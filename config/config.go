// Package config loads the application configuration from a YAML file and
// the environment. A missing file is not an error: the application then
// runs in local-only mode against the on-disk document.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the full application configuration.
type Config struct {
	// DataDir holds the local document. Defaults to ~/.boutik.
	DataDir string `yaml:"data_dir"`

	Supabase Supabase `yaml:"supabase"`
	Advisor  Advisor  `yaml:"advisor"`

	Log Log `yaml:"log"`
}

// Supabase points to the remote store. Both fields empty means offline.
type Supabase struct {
	URL     string `yaml:"url"`
	AnonKey string `yaml:"anon_key"`
}

// Advisor configures the generative business advisor.
type Advisor struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

// Log configures logging output.
type Log struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		DataDir: filepath.Join(home, ".boutik"),
		Advisor: Advisor{Model: "gemini-2.5-flash"},
		Log:     Log{Level: "info"},
	}
}

// DefaultPath is where Load looks when no explicit path is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".boutik", "config.yaml")
}

// Load reads the configuration file at path, falling back to defaults
// when the file does not exist, then applies environment overrides.
// Only a present-but-unreadable file is an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// offline-by-default is fine
	case err != nil:
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()
	if cfg.DataDir == "" {
		cfg.DataDir = Default().DataDir
	}
	if cfg.Advisor.Model == "" {
		cfg.Advisor.Model = "gemini-2.5-flash"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return cfg, nil
}

// applyEnv lets the environment override the file, which is how the
// secrets usually arrive.
func (c *Config) applyEnv() {
	if v := os.Getenv("BOUTIK_DATA_DIR"); v != "" {
		c.DataDir = v
	}
	if v := os.Getenv("BOUTIK_SUPABASE_URL"); v != "" {
		c.Supabase.URL = v
	}
	if v := os.Getenv("BOUTIK_SUPABASE_ANON_KEY"); v != "" {
		c.Supabase.AnonKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Advisor.APIKey = v
	}
	if v := os.Getenv("BOUTIK_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

// Online reports whether a remote store is configured.
func (c Config) Online() bool {
	return c.Supabase.URL != "" && c.Supabase.AnonKey != ""
}
