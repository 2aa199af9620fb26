// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package grafana

import (
	"encoding/json"
	"os"

	"github.com/prom-tools/promkit/pkg/errors"
)

// schemaVersion is the dashboard schema produced by the builder.
const schemaVersion = 38

// GridPos places a panel on the dashboard grid.
type GridPos struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// PanelOptions configures a panel.
type PanelOptions struct {
	Type         string
	Description  string
	LegendFormat string
	Position     *GridPos
}

// Panel is a dashboard panel definition.
type Panel struct {
	Title       string         `json:"title"`
	Type        string         `json:"type"`
	Description string         `json:"description,omitempty"`
	Datasource  map[string]any `json:"datasource"`
	Targets     []PanelTarget  `json:"targets"`
	GridPos     GridPos        `json:"gridPos"`
}

// PanelTarget is a panel query.
type PanelTarget struct {
	Expr         string `json:"expr"`
	LegendFormat string `json:"legendFormat,omitempty"`
	RefID        string `json:"refId"`
}

// NewPanel creates a panel querying expr against a Prometheus
// datasource. Type defaults to timeseries and the position to a
// half-width panel at the origin.
func NewPanel(title, expr, datasourceUID string, opts PanelOptions) Panel {
	panelType := opts.Type
	if panelType == "" {
		panelType = "timeseries"
	}
	pos := GridPos{X: 0, Y: 0, W: 12, H: 8}
	if opts.Position != nil {
		pos = *opts.Position
	}

	return Panel{
		Title:       title,
		Type:        panelType,
		Description: opts.Description,
		Datasource:  map[string]any{"type": "prometheus", "uid": datasourceUID},
		Targets: []PanelTarget{
			{Expr: expr, LegendFormat: opts.LegendFormat, RefID: "A"},
		},
		GridPos: pos,
	}
}

// DashboardOptions configures a dashboard definition.
type DashboardOptions struct {
	UID        string
	Tags       []string
	TimeFrom   string
	TimeTo     string
	Refresh    string
	Templating map[string]any
}

// DashboardDef is a dashboard definition the builder produces.
type DashboardDef struct {
	UID           string         `json:"uid,omitempty"`
	Title         string         `json:"title"`
	Tags          []string       `json:"tags"`
	Timezone      string         `json:"timezone"`
	Panels        []Panel        `json:"panels"`
	Time          map[string]any `json:"time"`
	Refresh       string         `json:"refresh"`
	SchemaVersion int            `json:"schemaVersion"`
	Version       int            `json:"version"`
	Templating    map[string]any `json:"templating"`
}

// NewDashboard creates a dashboard definition. The time range defaults
// to the last hour with a 30s refresh.
func NewDashboard(title string, panels []Panel, opts DashboardOptions) DashboardDef {
	timeFrom := opts.TimeFrom
	if timeFrom == "" {
		timeFrom = "now-1h"
	}
	timeTo := opts.TimeTo
	if timeTo == "" {
		timeTo = "now"
	}
	refresh := opts.Refresh
	if refresh == "" {
		refresh = "30s"
	}
	templating := opts.Templating
	if templating == nil {
		templating = map[string]any{"list": []any{}}
	}
	tags := opts.Tags
	if tags == nil {
		tags = []string{}
	}
	if panels == nil {
		panels = []Panel{}
	}

	return DashboardDef{
		UID:           opts.UID,
		Title:         title,
		Tags:          tags,
		Timezone:      "browser",
		Panels:        panels,
		Time:          map[string]any{"from": timeFrom, "to": timeTo},
		Refresh:       refresh,
		SchemaVersion: schemaVersion,
		Version:       1,
		Templating:    templating,
	}
}

// Marshal serializes the definition for the dashboard API.
func (d DashboardDef) Marshal() (json.RawMessage, error) {
	data, err := json.Marshal(d)
	if err != nil {
		return nil, errors.ValidationError("failed to serialize dashboard: " + err.Error())
	}
	return data, nil
}

// ExportJSON writes a dashboard payload to a file, indented for
// version control.
func ExportJSON(path string, dashboard json.RawMessage) error {
	var buf any
	if err := json.Unmarshal(dashboard, &buf); err != nil {
		return errors.ValidationError("invalid dashboard JSON: " + err.Error())
	}
	data, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return errors.ValidationError("failed to serialize dashboard: " + err.Error())
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// LoadJSON reads a dashboard definition from a file.
func LoadJSON(path string) (json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("failed to read dashboard file", err)
	}
	if !json.Valid(data) {
		return nil, errors.ValidationError("dashboard file is not valid JSON")
	}
	return data, nil
}
