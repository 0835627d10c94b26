package config

import (
	"encoding/json"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/nikogura/portfolio/pkg/contact"
	"github.com/pkg/errors"
)

const (
	// DefaultListen is the address `portfolio serve` binds when none is configured.
	DefaultListen = ":8080"
	// DefaultOutputDir is where resume files land when none is configured.
	DefaultOutputDir = "."
	// DefaultMinDisplay is the loading floor written by InitConfig.
	DefaultMinDisplay = "2s"
)

// Config represents the application configuration.
type Config struct {
	DataSource string        `json:"data_source"`
	RelayURL   string        `json:"relay_url,omitempty"`
	Loader     LoaderConfig  `json:"loader"`
	Server     ServerConfig  `json:"server"`
	Defaults   DefaultConfig `json:"defaults"`
}

// LoaderConfig controls the portfolio data loader.
type LoaderConfig struct {
	MinDisplay string `json:"min_display,omitempty"`
}

// ServerConfig holds settings for `portfolio serve`.
type ServerConfig struct {
	Listen   string `json:"listen,omitempty"`
	DataFile string `json:"data_file,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir string `json:"output_dir"`
}

// envOverrides are read from the process environment after the file is parsed.
// Unset variables leave the file values alone.
type envOverrides struct {
	DataSource string `env:"PORTFOLIO_DATA_SOURCE"`
	RelayURL   string `env:"PORTFOLIO_RELAY_URL"`
	Listen     string `env:"PORTFOLIO_LISTEN"`
	Port       string `env:"PORT"`
	OutputDir  string `env:"PORTFOLIO_OUTPUT_DIR"`
}

// DefaultPath returns $HOME/.portfolio/config.json.
func DefaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}

	path = filepath.Join(homeDir, ".portfolio", "config.json")
	return path, err
}

// ErrNotFound is returned when the config file does not exist.
var ErrNotFound = errors.New("config file not found")

// Load reads configuration from file with environment variable overrides and
// validates it.
func Load(configPath string) (cfg Config, err error) {
	cfg, err = Read(configPath)
	if err != nil {
		return cfg, err
	}

	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Read parses the config file and applies environment overrides without
// validating, so callers can fill in values from flags first.
func Read(configPath string) (cfg Config, err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Wrapf(ErrNotFound, "%s (run 'portfolio init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	err = cfg.ApplyEnv()
	if err != nil {
		return cfg, err
	}

	return cfg, err
}

// ApplyEnv overlays PORTFOLIO_* variables (and PORT) onto the config.
// PORTFOLIO_LISTEN wins over PORT when both are set.
func (c *Config) ApplyEnv() (err error) {
	var overrides envOverrides
	err = env.Parse(&overrides)
	if err != nil {
		err = errors.Wrap(err, "failed to parse environment overrides")
		return err
	}

	if overrides.DataSource != "" {
		c.DataSource = overrides.DataSource
	}

	if overrides.RelayURL != "" {
		c.RelayURL = overrides.RelayURL
	}

	switch {
	case overrides.Listen != "":
		c.Server.Listen = overrides.Listen
	case overrides.Port != "":
		c.Server.Listen = ":" + overrides.Port
	}

	if overrides.OutputDir != "" {
		c.Defaults.OutputDir = overrides.OutputDir
	}

	return err
}

// Validate checks that all required configuration is present and fills defaults.
func (c *Config) Validate() (err error) {
	if c.DataSource == "" {
		err = errors.New("data_source is required (set in config or PORTFOLIO_DATA_SOURCE env var)")
		return err
	}

	if c.RelayURL != "" {
		var u *url.URL
		u, err = url.Parse(c.RelayURL)
		if err != nil {
			err = errors.Wrapf(err, "invalid relay_url: %s", c.RelayURL)
			return err
		}

		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			err = errors.Errorf("relay_url must be an http(s) URL: %s", c.RelayURL)
			return err
		}
	}

	_, err = c.MinDisplayDuration()
	if err != nil {
		return err
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = DefaultOutputDir
	}

	if c.Server.Listen == "" {
		c.Server.Listen = DefaultListen
	}

	return err
}

// MinDisplayDuration parses loader.min_display. An empty value means zero, in
// which case callers fall back to the loader's own default.
func (c *Config) MinDisplayDuration() (d time.Duration, err error) {
	if c.Loader.MinDisplay == "" {
		return d, err
	}

	d, err = time.ParseDuration(c.Loader.MinDisplay)
	if err != nil {
		err = errors.Wrapf(err, "invalid loader.min_display: %s", c.Loader.MinDisplay)
		return d, err
	}

	if d < 0 {
		err = errors.Errorf("loader.min_display must not be negative: %s", c.Loader.MinDisplay)
		d = 0
		return d, err
	}

	return d, err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	path := configPath
	if path == "" {
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return err
	}

	dataFile := filepath.Join(homeDir, ".portfolio", "portfolio_structured.json")

	defaultConfig := Config{
		DataSource: dataFile,
		RelayURL:   contact.DefaultRelayURL,
		Loader: LoaderConfig{
			MinDisplay: DefaultMinDisplay,
		},
		Server: ServerConfig{
			Listen:   DefaultListen,
			DataFile: dataFile,
		},
		Defaults: DefaultConfig{
			OutputDir: filepath.Join(homeDir, "Documents"),
		},
	}

	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
