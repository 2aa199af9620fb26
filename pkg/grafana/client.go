// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package grafana provides a client for the Grafana HTTP API.
package grafana

import (
	"context"
	"encoding/json"

	"github.com/prom-tools/promkit/pkg/config"
	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/httpapi"
	"github.com/prom-tools/promkit/pkg/observability"
)

// Client is a Grafana API client.
type Client struct {
	api     *httpapi.Client
	logger  observability.Logger
	metrics *observability.Metrics
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithLogger sets the logger.
func WithLogger(logger observability.Logger) ClientOption {
	return func(c *Client) { c.logger = logger }
}

// WithMetrics sets the request metrics collector.
func WithMetrics(m *observability.Metrics) ClientOption {
	return func(c *Client) { c.metrics = m }
}

// NewClient creates a Grafana client from its configuration.
func NewClient(cfg *config.GrafanaConfig, opts ...ClientOption) (*Client, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.ConfigError("grafana URL is required", nil)
	}

	var auth httpapi.AuthProvider = httpapi.NoAuth{}
	switch {
	case cfg.APIKey != "":
		auth = httpapi.BearerAuth{Token: cfg.APIKey}
	case cfg.Username != "":
		auth = httpapi.BasicAuth{Username: cfg.Username, Password: cfg.Password}
	}
	if cfg.OrgID > 0 {
		auth = httpapi.OrgAuth{Provider: auth, OrgID: cfg.OrgID}
	}

	c := &Client{
		logger: observability.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	c.api = httpapi.NewClient(httpapi.Options{
		BaseURL:    cfg.URL,
		Auth:       auth,
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.MaxRetries,
		RateLimit:  cfg.RateLimit,
		VerifySSL:  config.VerifySSLEnabled(cfg.VerifySSL),
		Logger:     c.logger,
		Metrics:    c.metrics,
		ErrorType:  errors.ErrGrafana,
	})
	return c, nil
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string {
	return c.api.BaseURL()
}

// Health returns the instance health summary.
func (c *Client) Health(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.api.GetJSON(ctx, "/api/health", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get health status", err)
	}
	return out, nil
}

// Stats returns instance usage statistics.
func (c *Client) Stats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.api.GetJSON(ctx, "/api/stats", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get stats", err)
	}
	return out, nil
}

// AdminStats returns server-wide statistics. Requires admin
// credentials.
func (c *Client) AdminStats(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.api.GetJSON(ctx, "/api/admin/stats", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get admin stats", err)
	}
	return out, nil
}

// Org returns the current organization.
func (c *Client) Org(ctx context.Context) (map[string]any, error) {
	var out map[string]any
	if err := c.api.GetJSON(ctx, "/api/org", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get organization", err)
	}
	return out, nil
}

// Users returns users in the current organization.
func (c *Client) Users(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.api.GetJSON(ctx, "/api/users", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get users", err)
	}
	return out, nil
}

// GlobalUsers returns all users on the server. Requires admin
// credentials.
func (c *Client) GlobalUsers(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.api.GetJSON(ctx, "/api/admin/users", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get global users", err)
	}
	return out, nil
}
