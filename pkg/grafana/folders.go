// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package grafana

import (
	"context"
	"fmt"
	"net/url"

	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/models"
)

// Folders returns all folders visible to the caller.
func (c *Client) Folders(ctx context.Context) ([]models.Folder, error) {
	var out []models.Folder
	if err := c.api.GetJSON(ctx, "/api/folders", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get folders", err)
	}
	return out, nil
}

// GetFolder fetches a folder by UID.
func (c *Client) GetFolder(ctx context.Context, uid string) (*models.Folder, error) {
	if uid == "" {
		return nil, errors.ValidationError("folder UID cannot be empty")
	}
	var out models.Folder
	if err := c.api.GetJSON(ctx, "/api/folders/"+url.PathEscape(uid), nil, &out); err != nil {
		return nil, errors.GrafanaError(fmt.Sprintf("failed to get folder %s", uid), err)
	}
	return &out, nil
}

// CreateFolder creates a folder. UID may be empty to let the server
// assign one.
func (c *Client) CreateFolder(ctx context.Context, title, uid string) (*models.Folder, error) {
	if title == "" {
		return nil, errors.ValidationError("folder title cannot be empty")
	}
	payload := map[string]any{"title": title}
	if uid != "" {
		payload["uid"] = uid
	}

	var out models.Folder
	if err := c.api.PostJSON(ctx, "/api/folders", payload, &out); err != nil {
		return nil, errors.GrafanaError("failed to create folder", err)
	}
	return &out, nil
}

// UpdateFolder renames a folder. A non-zero version is sent for
// optimistic concurrency; the server rejects the update if the folder
// has changed since that version.
func (c *Client) UpdateFolder(ctx context.Context, uid, title string, version int) (*models.Folder, error) {
	if uid == "" {
		return nil, errors.ValidationError("folder UID cannot be empty")
	}
	payload := map[string]any{"title": title}
	if version > 0 {
		payload["version"] = version
	}

	var out models.Folder
	if err := c.api.PutJSON(ctx, "/api/folders/"+url.PathEscape(uid), payload, &out); err != nil {
		return nil, errors.GrafanaError(fmt.Sprintf("failed to update folder %s", uid), err)
	}
	return &out, nil
}

// DeleteFolder deletes a folder and the dashboards in it.
func (c *Client) DeleteFolder(ctx context.Context, uid string) error {
	if uid == "" {
		return errors.ValidationError("folder UID cannot be empty")
	}
	if err := c.api.DeleteJSON(ctx, "/api/folders/"+url.PathEscape(uid), nil); err != nil {
		return errors.GrafanaError(fmt.Sprintf("failed to delete folder %s", uid), err)
	}
	return nil
}
