// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package grafana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/models"
	"github.com/prom-tools/promkit/pkg/perf"
)

// DashboardPayload is the full dashboard response: the dashboard JSON
// plus its metadata envelope.
type DashboardPayload struct {
	Dashboard json.RawMessage `json:"dashboard"`
	Meta      json.RawMessage `json:"meta"`
}

// GetDashboard fetches a dashboard by UID.
func (c *Client) GetDashboard(ctx context.Context, uid string) (*DashboardPayload, error) {
	if uid == "" {
		return nil, errors.ValidationError("dashboard UID cannot be empty")
	}
	var out DashboardPayload
	if err := c.api.GetJSON(ctx, "/api/dashboards/uid/"+url.PathEscape(uid), nil, &out); err != nil {
		return nil, errors.GrafanaError(fmt.Sprintf("failed to get dashboard %s", uid), err)
	}
	return &out, nil
}

// GetDashboardByID fetches a dashboard by numeric ID.
func (c *Client) GetDashboardByID(ctx context.Context, id int) (*DashboardPayload, error) {
	var out DashboardPayload
	if err := c.api.GetJSON(ctx, "/api/dashboards/id/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, errors.GrafanaError(fmt.Sprintf("failed to get dashboard %d", id), err)
	}
	return &out, nil
}

// HomeDashboard fetches the home dashboard.
func (c *Client) HomeDashboard(ctx context.Context) (*DashboardPayload, error) {
	var out DashboardPayload
	if err := c.api.GetJSON(ctx, "/api/dashboards/home", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get home dashboard", err)
	}
	return &out, nil
}

// SaveResult is the server's response to a dashboard create or update.
type SaveResult struct {
	ID      int    `json:"id"`
	UID     string `json:"uid"`
	URL     string `json:"url"`
	Status  string `json:"status"`
	Version int    `json:"version"`
	Slug    string `json:"slug"`
}

// CreateDashboard creates a dashboard. FolderID zero targets the
// general folder.
func (c *Client) CreateDashboard(ctx context.Context, dashboard json.RawMessage, folderID int, overwrite bool) (*SaveResult, error) {
	payload := map[string]any{"dashboard": dashboard}
	if folderID > 0 {
		payload["folderId"] = folderID
	}
	if overwrite {
		payload["overwrite"] = true
	}

	var out SaveResult
	if err := c.api.PostJSON(ctx, "/api/dashboards/db", payload, &out); err != nil {
		return nil, errors.GrafanaError("failed to create dashboard", err)
	}
	return &out, nil
}

// UpdateDashboard saves a new version of an existing dashboard.
func (c *Client) UpdateDashboard(ctx context.Context, dashboard json.RawMessage, message string) (*SaveResult, error) {
	payload := map[string]any{
		"dashboard": dashboard,
		"overwrite": true,
	}
	if message != "" {
		payload["message"] = message
	}

	var out SaveResult
	if err := c.api.PostJSON(ctx, "/api/dashboards/db", payload, &out); err != nil {
		return nil, errors.GrafanaError("failed to update dashboard", err)
	}
	return &out, nil
}

// DeleteDashboard deletes a dashboard by UID.
func (c *Client) DeleteDashboard(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.ValidationError("dashboard UID cannot be empty")
	}
	if err := c.api.DeleteJSON(ctx, "/api/dashboards/uid/"+url.PathEscape(uid), nil); err != nil {
		return errors.GrafanaError(fmt.Sprintf("failed to delete dashboard %s", uid), err)
	}
	return nil
}

// SearchOptions filter a dashboard search.
type SearchOptions struct {
	Query        string
	Tags         []string
	Type         string
	DashboardIDs []int
	FolderIDs    []int
	Limit        int
	Page         int
}

// SearchDashboards searches dashboards and folders.
func (c *Client) SearchDashboards(ctx context.Context, opts SearchOptions) ([]models.Dashboard, error) {
	params := url.Values{}
	if opts.Query != "" {
		params.Set("query", opts.Query)
	}
	for _, tag := range opts.Tags {
		params.Add("tag", tag)
	}
	if opts.Type != "" {
		params.Set("type", opts.Type)
	}
	if len(opts.DashboardIDs) > 0 {
		params.Set("dashboardIds", joinInts(opts.DashboardIDs))
	}
	if len(opts.FolderIDs) > 0 {
		params.Set("folderIds", joinInts(opts.FolderIDs))
	}
	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}

	var out []models.Dashboard
	if err := c.api.GetJSON(ctx, "/api/search", params, &out); err != nil {
		return nil, errors.GrafanaError("failed to search dashboards", err)
	}
	return out, nil
}

// MoveDashboard moves a dashboard into a folder. An empty folderUID
// moves it to the general folder.
func (c *Client) MoveDashboard(ctx context.Context, dashboardUID, folderUID string) error {
	if dashboardUID == "" {
		return errors.ValidationError("dashboard UID cannot be empty")
	}
	payload := map[string]any{"dashboardUid": dashboardUID}
	if folderUID != "" {
		payload["folderUid"] = folderUID
	}
	if err := c.api.PostJSON(ctx, "/api/dashboards/belongsTo", payload, nil); err != nil {
		return errors.GrafanaError("failed to move dashboard", err)
	}
	return nil
}

// GetDashboards fetches multiple dashboards concurrently, preserving
// input order. A failing fetch does not stop the others; the joined
// per-item errors are returned alongside the partial results.
func (c *Client) GetDashboards(ctx context.Context, uids []string, maxConcurrent int) ([]*DashboardPayload, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	return perf.Batch(ctx, uids, func(uid string) (*DashboardPayload, error) {
		return c.GetDashboard(ctx, uid)
	}, maxConcurrent)
}

// CreateDashboards creates multiple dashboards concurrently, preserving
// input order. A failing create does not stop the others; the joined
// per-item errors are returned alongside the partial results.
func (c *Client) CreateDashboards(ctx context.Context, dashboards []json.RawMessage, maxConcurrent int) ([]*SaveResult, error) {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return perf.Batch(ctx, dashboards, func(d json.RawMessage) (*SaveResult, error) {
		return c.CreateDashboard(ctx, d, 0, false)
	}, maxConcurrent)
}

func joinInts(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
