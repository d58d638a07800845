// Package config loads the CLI's TOML configuration file and applies
// environment overrides.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Service contains the generation service connection settings.
type Service struct {
	URL            string `toml:"url"`
	APIToken       string `toml:"api_token"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Preview contains preview rendering settings.
type Preview struct {
	ThemeName    string `toml:"theme_name"`
	ThemeVariant string `toml:"theme_variant"`
	TemplateDir  string `toml:"template_dir"`
}

// Output contains export settings.
type Output struct {
	Dir string `toml:"dir"`
}

// Config is the full CLI configuration.
type Config struct {
	Service         Service `toml:"service"`
	Preview         Preview `toml:"preview"`
	Output          Output  `toml:"output"`
	DefaultTemplate string  `toml:"default_template"`
	CatalogPath     string  `toml:"catalog_path"`
	LogLevel        string  `toml:"log_level"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Service: Service{
			URL:            "http://localhost:5000",
			TimeoutSeconds: 120,
		},
		Output:   Output{Dir: "."},
		LogLevel: "info",
	}
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pressbox.toml"
	}
	return filepath.Join(home, ".config", "pressbox", "config.toml")
}

// Load reads the config file at path, falling back to defaults when the file
// does not exist, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		// Defaults plus environment are enough to run.
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// WriteSample writes the annotated sample configuration to path, creating
// parent directories as needed. Refuses to overwrite an existing file.
func WriteSample(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config: %s already exists", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create config dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("config: write sample: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PRESSBOX_SERVICE_URL"); v != "" {
		cfg.Service.URL = v
	}
	if v := os.Getenv("PRESSBOX_TOKEN"); v != "" {
		cfg.Service.APIToken = v
	}
	if v := os.Getenv("PRESSBOX_OUTPUT_DIR"); v != "" {
		cfg.Output.Dir = v
	}
}

func (c Config) validate() error {
	if c.Service.URL == "" {
		return errors.New("config: service.url is required")
	}
	if c.Service.TimeoutSeconds < 0 {
		return errors.New("config: service.timeout_seconds cannot be negative")
	}
	return nil
}
