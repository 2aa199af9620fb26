// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package prometheus provides a client for the Prometheus HTTP API.
package prometheus

import (
	"time"

	"github.com/prom-tools/promkit/pkg/cache"
	"github.com/prom-tools/promkit/pkg/config"
	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/httpapi"
	"github.com/prom-tools/promkit/pkg/observability"
)

// Client is a Prometheus API client.
type Client struct {
	api     *httpapi.Client
	logger  observability.Logger
	metrics *observability.Metrics

	cache    cache.Cache
	cacheTTL time.Duration
	keys     *cache.KeyGenerator
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

// WithCache enables caching of instant query results with the given TTL.
func WithCache(store cache.Cache, ttl time.Duration) ClientOption {
	return func(c *Client) {
		c.cache = store
		c.cacheTTL = ttl
	}
}

// NewClient creates a Prometheus client from its configuration.
func NewClient(cfg *config.PrometheusConfig, opts ...ClientOption) (*Client, error) {
	if cfg == nil || cfg.URL == "" {
		return nil, errors.ConfigError("prometheus URL is required", nil)
	}

	var auth httpapi.AuthProvider = httpapi.NoAuth{}
	switch {
	case cfg.Token != "":
		auth = httpapi.BearerAuth{Token: cfg.Token}
	case cfg.Username != "":
		auth = httpapi.BasicAuth{Username: cfg.Username, Password: cfg.Password}
	}

	c := &Client{
		logger: observability.NewNopLogger(),
		keys:   cache.NewKeyGenerator(),
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
		ErrorType:  errors.ErrPrometheus,
	})
	return c, nil
}

// BaseURL returns the configured server URL.
func (c *Client) BaseURL() string {
	return c.api.BaseURL()
}
