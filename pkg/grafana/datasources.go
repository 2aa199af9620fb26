// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package grafana

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/models"
)

// Datasources returns all configured datasources.
func (c *Client) Datasources(ctx context.Context) ([]models.Datasource, error) {
	var out []models.Datasource
	if err := c.api.GetJSON(ctx, "/api/datasources", nil, &out); err != nil {
		return nil, errors.GrafanaError("failed to get datasources", err)
	}
	return out, nil
}

// GetDatasource fetches a datasource by numeric ID.
func (c *Client) GetDatasource(ctx context.Context, id int) (*models.Datasource, error) {
	var out models.Datasource
	if err := c.api.GetJSON(ctx, "/api/datasources/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, errors.GrafanaError(fmt.Sprintf("failed to get datasource %d", id), err)
	}
	return &out, nil
}

// GetDatasourceByUID fetches a datasource by UID.
func (c *Client) GetDatasourceByUID(ctx context.Context, uid string) (*models.Datasource, error) {
	if uid == "" {
		return nil, errors.ValidationError("datasource UID cannot be empty")
	}
	var out models.Datasource
	if err := c.api.GetJSON(ctx, "/api/datasources/uid/"+url.PathEscape(uid), nil, &out); err != nil {
		return nil, errors.GrafanaError(fmt.Sprintf("failed to get datasource %s", uid), err)
	}
	return &out, nil
}

// GetDatasourceByName fetches a datasource by name.
func (c *Client) GetDatasourceByName(ctx context.Context, name string) (*models.Datasource, error) {
	if name == "" {
		return nil, errors.ValidationError("datasource name cannot be empty")
	}
	var out models.Datasource
	if err := c.api.GetJSON(ctx, "/api/datasources/name/"+url.PathEscape(name), nil, &out); err != nil {
		return nil, errors.GrafanaError(fmt.Sprintf("failed to get datasource %s", name), err)
	}
	return &out, nil
}

// CreateDatasource creates a datasource from its JSON definition.
func (c *Client) CreateDatasource(ctx context.Context, ds models.Datasource) (*models.Datasource, error) {
	var out struct {
		Datasource models.Datasource `json:"datasource"`
	}
	if err := c.api.PostJSON(ctx, "/api/datasources", ds, &out); err != nil {
		return nil, errors.GrafanaError("failed to create datasource", err)
	}
	return &out.Datasource, nil
}

// UpdateDatasource updates a datasource. The datasource must carry an
// ID or a UID.
func (c *Client) UpdateDatasource(ctx context.Context, ds models.Datasource) (*models.Datasource, error) {
	var path string
	switch {
	case ds.ID > 0:
		path = "/api/datasources/" + strconv.Itoa(ds.ID)
	case ds.UID != "":
		path = "/api/datasources/uid/" + url.PathEscape(ds.UID)
	default:
		return nil, errors.ValidationError("datasource update requires an ID or UID")
	}

	var out struct {
		Datasource models.Datasource `json:"datasource"`
	}
	if err := c.api.PutJSON(ctx, path, ds, &out); err != nil {
		return nil, errors.GrafanaError("failed to update datasource", err)
	}
	return &out.Datasource, nil
}

// DeleteDatasource deletes a datasource by ID or UID.
func (c *Client) DeleteDatasource(ctx context.Context, id int, uid string) error {
	var path string
	switch {
	case id > 0:
		path = "/api/datasources/" + strconv.Itoa(id)
	case uid != "":
		path = "/api/datasources/uid/" + url.PathEscape(uid)
	default:
		return errors.ValidationError("datasource delete requires an ID or UID")
	}
	if err := c.api.DeleteJSON(ctx, path, nil); err != nil {
		return errors.GrafanaError("failed to delete datasource", err)
	}
	return nil
}
