// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package prometheus

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/models"
	"github.com/prom-tools/promkit/pkg/observability"
)

// QueryOptions tune a single query evaluation.
type QueryOptions struct {
	// Time is the evaluation time for instant queries. Zero means the
	// server's current time.
	Time time.Time
	// Timeout is the server-side evaluation timeout, e.g. "30s".
	Timeout string
}

func formatTimestamp(t time.Time) string {
	return strconv.FormatFloat(float64(t.UnixNano())/1e9, 'f', 3, 64)
}

// Query executes an instant query. Evaluation failures are folded into
// the returned QueryResult rather than returned as errors, so batch
// callers can inspect partial outcomes.
func (c *Client) Query(ctx context.Context, expr string, opts QueryOptions) models.QueryResult {
	start := time.Now()

	params := url.Values{"query": {expr}}
	if !opts.Time.IsZero() {
		params.Set("time", formatTimestamp(opts.Time))
	}
	if opts.Timeout != "" {
		params.Set("timeout", opts.Timeout)
	}

	if c.cache != nil {
		key := c.keys.GenerateForQuery(expr, opts.Time, c.cacheTTL)
		if data, err := c.cache.Get(ctx, key); err == nil {
			if c.metrics != nil {
				c.metrics.RecordCacheHit(true)
			}
			result := models.ResultFromResponse("", expr, models.QueryTypeInstant, data)
			result.ExecutionTime = time.Since(start)
			return result
		}
		if c.metrics != nil {
			c.metrics.RecordCacheHit(false)
		}
	}

	data, err := c.api.Do(ctx, http.MethodGet, "/api/v1/query", params, nil)
	if err != nil {
		return models.ResultFromError("", expr, models.QueryTypeInstant, time.Since(start), err)
	}

	result := models.ResultFromResponse("", expr, models.QueryTypeInstant, data)
	result.ExecutionTime = time.Since(start)

	if c.cache != nil && result.Success {
		key := c.keys.GenerateForQuery(expr, opts.Time, c.cacheTTL)
		if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
			c.logger.Warn("failed to cache query result", observability.Err(err))
		}
	}
	return result
}

// QueryRange executes a range query over [start, end] at the given
// step. Step accepts a duration string like "1m" or a plain number of
// seconds.
func (c *Client) QueryRange(ctx context.Context, expr string, start, end time.Time, step string, opts QueryOptions) models.QueryResult {
	began := time.Now()

	params := url.Values{
		"query": {expr},
		"start": {formatTimestamp(start)},
		"end":   {formatTimestamp(end)},
		"step":  {step},
	}
	if opts.Timeout != "" {
		params.Set("timeout", opts.Timeout)
	}

	data, err := c.api.Do(ctx, http.MethodGet, "/api/v1/query_range", params, nil)
	if err != nil {
		return models.ResultFromError("", expr, models.QueryTypeRange, time.Since(began), err)
	}

	result := models.ResultFromResponse("", expr, models.QueryTypeRange, data)
	result.ExecutionTime = time.Since(began)
	return result
}

// Series returns series metadata for the given matcher over an
// optional time window. Match defaults to every series.
func (c *Client) Series(ctx context.Context, match string, start, end time.Time) ([]map[string]string, error) {
	if match == "" {
		match = `{__name__=~".+"}`
	}
	params := url.Values{"match[]": {match}}
	if !start.IsZero() {
		params.Set("start", formatTimestamp(start))
	}
	if !end.IsZero() {
		params.Set("end", formatTimestamp(end))
	}

	var resp struct {
		Data []map[string]string `json:"data"`
	}
	if err := c.api.GetJSON(ctx, "/api/v1/series", params, &resp); err != nil {
		return nil, errors.PrometheusError("series query failed", err)
	}
	return resp.Data, nil
}

// Labels returns label names, optionally restricted to series matching
// match and a time window.
func (c *Client) Labels(ctx context.Context, match string, start, end time.Time) ([]string, error) {
	params := url.Values{}
	if match != "" {
		params.Set("match[]", match)
	}
	if !start.IsZero() {
		params.Set("start", formatTimestamp(start))
	}
	if !end.IsZero() {
		params.Set("end", formatTimestamp(end))
	}

	var resp struct {
		Data []string `json:"data"`
	}
	if err := c.api.GetJSON(ctx, "/api/v1/labels", params, &resp); err != nil {
		return nil, errors.PrometheusError("labels query failed", err)
	}
	return resp.Data, nil
}

// LabelValues returns the values observed for a label name.
func (c *Client) LabelValues(ctx context.Context, label, match string, start, end time.Time) ([]string, error) {
	if label == "" {
		return nil, errors.ValidationError("label name cannot be empty")
	}
	params := url.Values{}
	if match != "" {
		params.Set("match[]", match)
	}
	if !start.IsZero() {
		params.Set("start", formatTimestamp(start))
	}
	if !end.IsZero() {
		params.Set("end", formatTimestamp(end))
	}

	var resp struct {
		Data []string `json:"data"`
	}
	path := fmt.Sprintf("/api/v1/label/%s/values", url.PathEscape(label))
	if err := c.api.GetJSON(ctx, path, params, &resp); err != nil {
		return nil, errors.PrometheusError("label values query failed", err)
	}
	return resp.Data, nil
}
