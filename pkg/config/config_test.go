// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prom-tools/promkit/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".promkit.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFromPath(t *testing.T) {
	path := writeConfig(t, `
prometheus:
  url: http://localhost:9090
  token: secret-token
  timeout: 10s
  rate_limit: 20

grafana:
  url: http://localhost:3000
  api_key: grafana-key
  org_id: 2

logging:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prometheus.URL != "http://localhost:9090" {
		t.Errorf("Prometheus.URL = %q", cfg.Prometheus.URL)
	}
	if cfg.Prometheus.Timeout != 10*time.Second {
		t.Errorf("Prometheus.Timeout = %v, want 10s", cfg.Prometheus.Timeout)
	}
	if cfg.Prometheus.RateLimit != 20 {
		t.Errorf("Prometheus.RateLimit = %d, want 20", cfg.Prometheus.RateLimit)
	}
	if cfg.Grafana.OrgID != 2 {
		t.Errorf("Grafana.OrgID = %d, want 2", cfg.Grafana.OrgID)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadDefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
prometheus:
  url: http://localhost:9090
  token: tok
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prometheus.Timeout != 30*time.Second {
		t.Errorf("default Timeout = %v, want 30s", cfg.Prometheus.Timeout)
	}
	if cfg.Prometheus.MaxRetries != 3 {
		t.Errorf("default MaxRetries = %d, want 3", cfg.Prometheus.MaxRetries)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if !VerifySSLEnabled(cfg.Prometheus.VerifySSL) {
		t.Error("VerifySSL should default to enabled")
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.IsType(err, errors.ErrConfig) {
		t.Errorf("error type = %v, want ErrConfig", err)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := writeConfig(t, "prometheus: [")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name:    "empty config is valid",
			cfg:     Config{},
			wantErr: false,
		},
		{
			name: "prometheus without url",
			cfg: Config{
				Prometheus: &PrometheusConfig{Token: "tok"},
			},
			wantErr: true,
		},
		{
			name: "prometheus without credentials",
			cfg: Config{
				Prometheus: &PrometheusConfig{URL: "http://localhost:9090"},
			},
			wantErr: true,
		},
		{
			name: "prometheus basic auth",
			cfg: Config{
				Prometheus: &PrometheusConfig{URL: "http://localhost:9090", Username: "u", Password: "p"},
			},
			wantErr: false,
		},
		{
			name: "grafana api key",
			cfg: Config{
				Grafana: &GrafanaConfig{URL: "http://localhost:3000", APIKey: "k"},
			},
			wantErr: false,
		},
		{
			name: "grafana password only",
			cfg: Config{
				Grafana: &GrafanaConfig{URL: "http://localhost:3000", Password: "p"},
			},
			wantErr: true,
		},
		{
			name: "bad log level",
			cfg: Config{
				Logging: LoggingConfig{Level: "loud"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
prometheus:
  url: http://file:9090
  token: file-token
`)

	t.Setenv("PROMKIT_PROMETHEUS_URL", "http://env:9090")
	t.Setenv("PROMKIT_PROMETHEUS_TIMEOUT", "5s")
	t.Setenv("PROMKIT_PROMETHEUS_VERIFY_SSL", "false")
	t.Setenv("PROMKIT_LOG_LEVEL", "warn")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Prometheus.URL != "http://env:9090" {
		t.Errorf("URL = %q, env should win over file", cfg.Prometheus.URL)
	}
	if cfg.Prometheus.Token != "file-token" {
		t.Errorf("Token = %q, file value should survive", cfg.Prometheus.Token)
	}
	if cfg.Prometheus.Timeout != 5*time.Second {
		t.Errorf("Timeout = %v, want 5s", cfg.Prometheus.Timeout)
	}
	if VerifySSLEnabled(cfg.Prometheus.VerifySSL) {
		t.Error("VerifySSL should be disabled via env")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}
}

func TestEnvOnlyConfiguration(t *testing.T) {
	t.Setenv("PROMKIT_GRAFANA_URL", "http://grafana:3000")
	t.Setenv("PROMKIT_GRAFANA_API_KEY", "env-key")

	cfg := &Config{}
	applyDefaults(cfg)
	applyEnvOverrides(cfg)

	if cfg.Grafana == nil {
		t.Fatal("env URL should create the grafana section")
	}
	if cfg.Grafana.APIKey != "env-key" {
		t.Errorf("APIKey = %q, want env-key", cfg.Grafana.APIKey)
	}
	if cfg.Grafana.MaxRetries != 3 {
		t.Errorf("MaxRetries = %d, want default 3", cfg.Grafana.MaxRetries)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.yaml")

	orig := &Config{
		Prometheus: &PrometheusConfig{
			URL:        "http://localhost:9090",
			Token:      "tok",
			Timeout:    15 * time.Second,
			MaxRetries: 5,
		},
		Logging: LoggingConfig{Level: "info"},
	}

	if err := Save(orig, path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Prometheus.URL != orig.Prometheus.URL {
		t.Errorf("URL = %q, want %q", loaded.Prometheus.URL, orig.Prometheus.URL)
	}
	if loaded.Prometheus.Timeout != 15*time.Second {
		t.Errorf("Timeout = %v, want 15s", loaded.Prometheus.Timeout)
	}
}

func TestFindInParents(t *testing.T) {
	root := t.TempDir()
	child := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatal(err)
	}

	content := "prometheus:\n  url: http://localhost:9090\n  token: tok\n"
	if err := os.WriteFile(filepath.Join(root, ".promkit.yaml"), []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := findInParents(child)
	if err != nil {
		t.Fatalf("findInParents() error = %v", err)
	}
	if cfg.Prometheus.URL != "http://localhost:9090" {
		t.Errorf("URL = %q", cfg.Prometheus.URL)
	}
}
