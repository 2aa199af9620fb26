// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package config provides configuration management for promkit.
//
// Configuration Loading Order (later overrides earlier):
//  1. Defaults (hardcoded)
//  2. Config file: explicit path, .promkit.yaml in the working directory
//     or a parent, or $HOME/.config/promkit/config.yaml
//  3. Environment Variables: PROMKIT_*
package config

import (
	"time"

	"github.com/prom-tools/promkit/pkg/errors"
)

// Config represents the complete application configuration.
type Config struct {
	Prometheus *PrometheusConfig `yaml:"prometheus,omitempty"`
	Grafana    *GrafanaConfig    `yaml:"grafana,omitempty"`
	Logging    LoggingConfig     `yaml:"logging"`
}

// PrometheusConfig contains Prometheus connection settings.
type PrometheusConfig struct {
	URL        string        `yaml:"url"`
	Username   string        `yaml:"username,omitempty"`
	Password   string        `yaml:"password,omitempty"`
	Token      string        `yaml:"token,omitempty"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RateLimit  int           `yaml:"rate_limit,omitempty"` // Requests per second, 0 = unlimited
	VerifySSL  *bool         `yaml:"verify_ssl,omitempty"`
}

// GrafanaConfig contains Grafana connection settings.
type GrafanaConfig struct {
	URL        string        `yaml:"url"`
	APIKey     string        `yaml:"api_key,omitempty"`
	Username   string        `yaml:"username,omitempty"`
	Password   string        `yaml:"password,omitempty"`
	OrgID      int           `yaml:"org_id,omitempty"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	RateLimit  int           `yaml:"rate_limit,omitempty"`
	VerifySSL  *bool         `yaml:"verify_ssl,omitempty"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
	File  string `yaml:"file,omitempty"`
}

// Validate checks that each configured service has a URL and usable
// credentials.
func (c *Config) Validate() error {
	if c.Prometheus != nil {
		if c.Prometheus.URL == "" {
			return errors.ConfigError("prometheus URL is required", nil)
		}
		hasBasic := c.Prometheus.Username != "" && c.Prometheus.Password != ""
		if c.Prometheus.Token == "" && !hasBasic {
			return errors.ConfigError("prometheus authentication is required (token or username/password)", nil)
		}
	}

	if c.Grafana != nil {
		if c.Grafana.URL == "" {
			return errors.ConfigError("grafana URL is required", nil)
		}
		hasBasic := c.Grafana.Username != "" && c.Grafana.Password != ""
		if c.Grafana.APIKey == "" && !hasBasic {
			return errors.ConfigError("grafana authentication is required (api_key or username/password)", nil)
		}
	}

	switch c.Logging.Level {
	case "", "debug", "info", "warn", "warning", "error":
	default:
		return errors.ConfigError("invalid log level: "+c.Logging.Level, nil)
	}

	return nil
}

// VerifySSLEnabled resolves the *bool toggle, defaulting to true.
func VerifySSLEnabled(v *bool) bool {
	return v == nil || *v
}
