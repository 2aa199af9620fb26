// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package prometheus

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"time"

	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/models"
)

// Targets returns the raw targets response.
func (c *Client) Targets(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.api.GetJSON(ctx, "/api/v1/targets", nil, &raw); err != nil {
		return nil, errors.PrometheusError("failed to get targets", err)
	}
	return raw, nil
}

type targetsResponse struct {
	Data struct {
		ActiveTargets []struct {
			Labels           map[string]string `json:"labels"`
			DiscoveredLabels map[string]string `json:"discoveredLabels"`
			Health           string            `json:"health"`
			LastError        string            `json:"lastError"`
			ScrapeInterval   string            `json:"scrapeInterval"`
			ScrapeTimeout    string            `json:"scrapeTimeout"`
			ScrapePool       string            `json:"scrapePool"`
			ScrapeURL        string            `json:"scrapeUrl"`
			GlobalURL        string            `json:"globalUrl"`
		} `json:"activeTargets"`
	} `json:"data"`
}

// TargetsDetailed returns scrape targets as structured records.
func (c *Client) TargetsDetailed(ctx context.Context) ([]models.Target, error) {
	var resp targetsResponse
	if err := c.api.GetJSON(ctx, "/api/v1/targets", nil, &resp); err != nil {
		return nil, errors.PrometheusError("failed to get detailed targets", err)
	}

	targets := make([]models.Target, 0, len(resp.Data.ActiveTargets))
	for _, t := range resp.Data.ActiveTargets {
		instance := t.Labels["__address__"]
		if instance == "" {
			instance = "unknown"
		}
		job := t.Labels["job"]
		if job == "" {
			job = "unknown"
		}
		targets = append(targets, models.Target{
			Instance:         instance,
			Job:              job,
			Health:           t.Health,
			LastError:        t.LastError,
			ScrapeInterval:   t.ScrapeInterval,
			ScrapeTimeout:    t.ScrapeTimeout,
			Labels:           t.Labels,
			DiscoveredLabels: t.DiscoveredLabels,
			ScrapePool:       t.ScrapePool,
			ScrapeURL:        t.ScrapeURL,
			GlobalURL:        t.GlobalURL,
		})
	}
	return targets, nil
}

// Rules returns the raw rules response.
func (c *Client) Rules(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.api.GetJSON(ctx, "/api/v1/rules", nil, &raw); err != nil {
		return nil, errors.PrometheusError("failed to get rules", err)
	}
	return raw, nil
}

type rulesResponse struct {
	Data struct {
		Groups []struct {
			Rules []struct {
				Name   string `json:"name"`
				Type   string `json:"type"`
				State  string `json:"state"`
				Health string `json:"health"`
			} `json:"rules"`
		} `json:"groups"`
	} `json:"data"`
}

// RulesDetailed returns loaded alerting and recording rules as
// structured records, flattened across rule groups.
func (c *Client) RulesDetailed(ctx context.Context) ([]models.Rule, error) {
	var resp rulesResponse
	if err := c.api.GetJSON(ctx, "/api/v1/rules", nil, &resp); err != nil {
		return nil, errors.PrometheusError("failed to get detailed rules", err)
	}

	var rules []models.Rule
	for _, g := range resp.Data.Groups {
		for _, r := range g.Rules {
			rules = append(rules, models.Rule{
				Name:   r.Name,
				Type:   r.Type,
				State:  r.State,
				Health: r.Health,
			})
		}
	}
	return rules, nil
}

// Alerts returns the raw alerts response.
func (c *Client) Alerts(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.api.GetJSON(ctx, "/api/v1/alerts", nil, &raw); err != nil {
		return nil, errors.PrometheusError("failed to get alerts", err)
	}
	return raw, nil
}

// AlertManagers returns alertmanager discovery state.
func (c *Client) AlertManagers(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.api.GetJSON(ctx, "/api/v1/alertmanagers", nil, &raw); err != nil {
		return nil, errors.PrometheusError("failed to get alert managers", err)
	}
	return raw, nil
}

// DeleteSeries deletes data for series matching any of the matchers,
// optionally bounded to [start, end]. Requires the admin API to be
// enabled on the server.
func (c *Client) DeleteSeries(ctx context.Context, match []string, start, end time.Time) error {
	if len(match) == 0 {
		return errors.ValidationError("at least one series matcher is required")
	}
	params := url.Values{"match[]": match}
	if !start.IsZero() {
		params.Set("start", formatTimestamp(start))
	}
	if !end.IsZero() {
		params.Set("end", formatTimestamp(end))
	}
	if _, err := c.api.Post(ctx, "/api/v1/admin/tsdb/delete_series", params); err != nil {
		return errors.PrometheusError("failed to delete series", err)
	}
	return nil
}

// CleanTombstones removes deleted data from disk.
func (c *Client) CleanTombstones(ctx context.Context) error {
	if _, err := c.api.Post(ctx, "/api/v1/admin/tsdb/clean_tombstones", nil); err != nil {
		return errors.PrometheusError("failed to clean tombstones", err)
	}
	return nil
}

// Snapshot creates a TSDB snapshot and returns its directory name.
func (c *Client) Snapshot(ctx context.Context, skipHead bool) (string, error) {
	params := url.Values{"skip_head": {"false"}}
	if skipHead {
		params.Set("skip_head", "true")
	}

	data, err := c.api.Post(ctx, "/api/v1/admin/tsdb/snapshot", params)
	if err != nil {
		return "", errors.PrometheusError("failed to create snapshot", err)
	}

	var resp struct {
		Data struct {
			Name string `json:"name"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", errors.PrometheusError("failed to decode snapshot response", err)
	}
	return resp.Data.Name, nil
}

// Healthy reports whether the server's health probe succeeds.
func (c *Client) Healthy(ctx context.Context) (bool, string, error) {
	text, err := c.api.GetText(ctx, "/-/healthy")
	if err != nil {
		return false, "", errors.PrometheusError("failed to get health status", err)
	}
	return true, strings.TrimSpace(text), nil
}

// Ready reports whether the server's readiness probe succeeds.
func (c *Client) Ready(ctx context.Context) (bool, string, error) {
	text, err := c.api.GetText(ctx, "/-/ready")
	if err != nil {
		return false, "", errors.PrometheusError("failed to get readiness status", err)
	}
	return true, strings.TrimSpace(text), nil
}

// Config returns the server's loaded configuration file.
func (c *Client) Config(ctx context.Context) (string, error) {
	var resp struct {
		Data struct {
			YAML string `json:"yaml"`
		} `json:"data"`
	}
	if err := c.api.GetJSON(ctx, "/api/v1/status/config", nil, &resp); err != nil {
		return "", errors.PrometheusError("failed to get configuration", err)
	}
	return resp.Data.YAML, nil
}

// BuildInfo returns the server's build information (version, revision,
// branch, go version).
func (c *Client) BuildInfo(ctx context.Context) (map[string]string, error) {
	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := c.api.GetJSON(ctx, "/api/v1/status/buildinfo", nil, &resp); err != nil {
		return nil, errors.PrometheusError("failed to get build info", err)
	}
	return resp.Data, nil
}

// Flags returns the server's command line flag values.
func (c *Client) Flags(ctx context.Context) (map[string]string, error) {
	var resp struct {
		Data map[string]string `json:"data"`
	}
	if err := c.api.GetJSON(ctx, "/api/v1/status/flags", nil, &resp); err != nil {
		return nil, errors.PrometheusError("failed to get flags", err)
	}
	return resp.Data, nil
}
