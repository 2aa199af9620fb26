package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/prom-tools/promkit/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Default config file names to search for
var defaultConfigFiles = []string{
	".promkit.yaml",
	".promkit.yml",
	"promkit.yaml",
	"promkit.yml",
}

// envPrefix is the prefix for environment variable overrides
const envPrefix = "PROMKIT"

// Load loads configuration from a specific file path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read config file: %s", path), err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to parse config file: %s", path), err)
	}

	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadDefault searches for and loads configuration from default locations.
// Search order:
// 1. PROMKIT_CONFIG environment variable
// 2. Current directory and parent directories (up to root)
// 3. User config directory (.config/promkit/)
// 4. Pure environment variable configuration
func LoadDefault() (*Config, error) {
	if path := os.Getenv(envPrefix + "_CONFIG"); path != "" {
		return Load(path)
	}

	if cfg, err := findInParents("."); err == nil {
		return cfg, nil
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		userConfigPath := filepath.Join(homeDir, ".config", "promkit", "config.yaml")
		if cfg, err := Load(userConfigPath); err == nil {
			return cfg, nil
		}
	}

	// No file found - environment variables alone may still configure
	// a service.
	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// findInParents searches for config file in current directory and parent directories
func findInParents(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		for _, filename := range defaultConfigFiles {
			configPath := filepath.Join(dir, filename)
			if _, err := os.Stat(configPath); err == nil {
				return Load(configPath)
			}
		}

		parentDir := filepath.Dir(dir)
		if parentDir == dir {
			break
		}
		dir = parentDir
	}

	return nil, errors.ConfigError("no config file found", nil)
}

// applyDefaults sets default values for optional fields
func applyDefaults(cfg *Config) {
	if cfg.Prometheus != nil {
		if cfg.Prometheus.Timeout == 0 {
			cfg.Prometheus.Timeout = 30 * time.Second
		}
		if cfg.Prometheus.MaxRetries == 0 {
			cfg.Prometheus.MaxRetries = 3
		}
	}

	if cfg.Grafana != nil {
		if cfg.Grafana.Timeout == 0 {
			cfg.Grafana.Timeout = 30 * time.Second
		}
		if cfg.Grafana.MaxRetries == 0 {
			cfg.Grafana.MaxRetries = 3
		}
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
}

// applyEnvOverrides applies PROMKIT_* environment variables on top of
// the loaded configuration. A PROMKIT_PROMETHEUS_URL or
// PROMKIT_GRAFANA_URL creates the section if it is absent.
func applyEnvOverrides(cfg *Config) {
	if url := os.Getenv(envPrefix + "_PROMETHEUS_URL"); url != "" {
		if cfg.Prometheus == nil {
			cfg.Prometheus = &PrometheusConfig{
				Timeout:    30 * time.Second,
				MaxRetries: 3,
			}
		}
		cfg.Prometheus.URL = url
	}
	if cfg.Prometheus != nil {
		setEnvString(&cfg.Prometheus.Username, "_PROMETHEUS_USERNAME")
		setEnvString(&cfg.Prometheus.Password, "_PROMETHEUS_PASSWORD")
		setEnvString(&cfg.Prometheus.Token, "_PROMETHEUS_TOKEN")
		setEnvDuration(&cfg.Prometheus.Timeout, "_PROMETHEUS_TIMEOUT")
		setEnvInt(&cfg.Prometheus.MaxRetries, "_PROMETHEUS_MAX_RETRIES")
		setEnvInt(&cfg.Prometheus.RateLimit, "_PROMETHEUS_RATE_LIMIT")
		setEnvBool(&cfg.Prometheus.VerifySSL, "_PROMETHEUS_VERIFY_SSL")
	}

	if url := os.Getenv(envPrefix + "_GRAFANA_URL"); url != "" {
		if cfg.Grafana == nil {
			cfg.Grafana = &GrafanaConfig{
				Timeout:    30 * time.Second,
				MaxRetries: 3,
			}
		}
		cfg.Grafana.URL = url
	}
	if cfg.Grafana != nil {
		setEnvString(&cfg.Grafana.APIKey, "_GRAFANA_API_KEY")
		setEnvString(&cfg.Grafana.Username, "_GRAFANA_USERNAME")
		setEnvString(&cfg.Grafana.Password, "_GRAFANA_PASSWORD")
		setEnvInt(&cfg.Grafana.OrgID, "_GRAFANA_ORG_ID")
		setEnvDuration(&cfg.Grafana.Timeout, "_GRAFANA_TIMEOUT")
		setEnvInt(&cfg.Grafana.MaxRetries, "_GRAFANA_MAX_RETRIES")
		setEnvInt(&cfg.Grafana.RateLimit, "_GRAFANA_RATE_LIMIT")
		setEnvBool(&cfg.Grafana.VerifySSL, "_GRAFANA_VERIFY_SSL")
	}

	setEnvString(&cfg.Logging.Level, "_LOG_LEVEL")
	setEnvString(&cfg.Logging.File, "_LOG_FILE")
}

func setEnvString(dst *string, suffix string) {
	if val := os.Getenv(envPrefix + suffix); val != "" {
		*dst = val
	}
}

func setEnvInt(dst *int, suffix string) {
	if val := os.Getenv(envPrefix + suffix); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			*dst = n
		}
	}
}

func setEnvDuration(dst *time.Duration, suffix string) {
	if val := os.Getenv(envPrefix + suffix); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}

func setEnvBool(dst **bool, suffix string) {
	if val := os.Getenv(envPrefix + suffix); val != "" {
		b := val == "true" || val == "1"
		*dst = &b
	}
}

// Save writes the configuration back to a YAML file, creating parent
// directories as needed.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.ConfigError("failed to marshal config", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to create config directory for %s", path), err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to save config to %s", path), err)
	}
	return nil
}
