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

	"github.com/prom-tools/promkit/pkg/errors"
)

// AlertFilter narrows an alert listing.
type AlertFilter struct {
	DashboardIDs []int
	PanelID      int
	States       []string
}

// Alerts lists legacy dashboard alerts.
func (c *Client) Alerts(ctx context.Context, filter AlertFilter) ([]json.RawMessage, error) {
	params := url.Values{}
	if len(filter.DashboardIDs) > 0 {
		params.Set("dashboardId", joinInts(filter.DashboardIDs))
	}
	if filter.PanelID > 0 {
		params.Set("panelId", strconv.Itoa(filter.PanelID))
	}
	for _, state := range filter.States {
		params.Add("state", state)
	}

	var out []json.RawMessage
	if err := c.api.GetJSON(ctx, "/api/alerts", params, &out); err != nil {
		return nil, errors.GrafanaError("failed to get alerts", err)
	}
	return out, nil
}

// PauseAlert pauses or resumes a legacy alert.
func (c *Client) PauseAlert(ctx context.Context, alertID int, paused bool) error {
	payload := map[string]any{"paused": paused}
	path := fmt.Sprintf("/api/alerts/%d/pause", alertID)
	if err := c.api.PostJSON(ctx, path, payload, nil); err != nil {
		return errors.GrafanaError(fmt.Sprintf("failed to pause alert %d", alertID), err)
	}
	return nil
}

// NotificationChannels lists notification channels.
func (c *Client) NotificationChannels(ctx context.Context) ([]json.RawMessage, error) {
	var out []json.RawMessage
	if err := c.api.GetJSON(ctx, "/api/alert-notifications", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get notification channels", err)
	}
	return out, nil
}

// CreateNotificationChannel creates a notification channel from its
// JSON definition.
func (c *Client) CreateNotificationChannel(ctx context.Context, channel json.RawMessage) (json.RawMessage, error) {
	var out json.RawMessage
	if err := c.api.PostJSON(ctx, "/api/alert-notifications", channel, &out); err != nil {
		return nil, errors.GrafanaError("failed to create notification channel", err)
	}
	return out, nil
}

// TestNotificationChannel sends a test notification through a channel
// definition without saving it.
func (c *Client) TestNotificationChannel(ctx context.Context, channel json.RawMessage) error {
	if err := c.api.PostJSON(ctx, "/api/alert-notifications/test", channel, nil); err != nil {
		return errors.GrafanaError("failed to test notification channel", err)
	}
	return nil
}
