// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package grafana

import (
	"encoding/json"
	"path/filepath"
	"testing"
)

func TestNewPanelDefaults(t *testing.T) {
	panel := NewPanel("CPU Usage", `rate(node_cpu_seconds_total[5m])`, "prom-uid", PanelOptions{})

	if panel.Type != "timeseries" {
		t.Errorf("Type = %q, want timeseries", panel.Type)
	}
	if panel.GridPos != (GridPos{X: 0, Y: 0, W: 12, H: 8}) {
		t.Errorf("GridPos = %+v", panel.GridPos)
	}
	if len(panel.Targets) != 1 || panel.Targets[0].RefID != "A" {
		t.Errorf("Targets = %+v", panel.Targets)
	}
	if panel.Datasource["uid"] != "prom-uid" {
		t.Errorf("Datasource = %v", panel.Datasource)
	}
}

func TestNewDashboardDefaults(t *testing.T) {
	dash := NewDashboard("Node Overview", nil, DashboardOptions{})

	if dash.SchemaVersion != 38 {
		t.Errorf("SchemaVersion = %d, want 38", dash.SchemaVersion)
	}
	if dash.Time["from"] != "now-1h" || dash.Time["to"] != "now" {
		t.Errorf("Time = %v", dash.Time)
	}
	if dash.Refresh != "30s" {
		t.Errorf("Refresh = %q", dash.Refresh)
	}
	if dash.Timezone != "browser" {
		t.Errorf("Timezone = %q", dash.Timezone)
	}
	if dash.Panels == nil || dash.Tags == nil {
		t.Error("Panels and Tags must serialize as arrays, not null")
	}
}

func TestDashboardMarshal(t *testing.T) {
	panel := NewPanel("Up", "up", "prom", PanelOptions{
		Position:     &GridPos{X: 12, Y: 0, W: 12, H: 8},
		LegendFormat: "{{job}}",
	})
	dash := NewDashboard("Service Health", []Panel{panel}, DashboardOptions{
		UID:  "svc-health",
		Tags: []string{"generated"},
	})

	data, err := dash.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("round trip: %v", err)
	}
	if decoded["uid"] != "svc-health" {
		t.Errorf("uid = %v", decoded["uid"])
	}
	panels := decoded["panels"].([]any)
	if len(panels) != 1 {
		t.Fatalf("panels = %v", panels)
	}
	target := panels[0].(map[string]any)["targets"].([]any)[0].(map[string]any)
	if target["legendFormat"] != "{{job}}" {
		t.Errorf("legendFormat = %v", target["legendFormat"])
	}
}

func TestExportAndLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dash.json")
	dash := NewDashboard("Exported", nil, DashboardOptions{UID: "exp"})
	raw, err := dash.Marshal()
	if err != nil {
		t.Fatal(err)
	}

	if err := ExportJSON(path, raw); err != nil {
		t.Fatalf("ExportJSON() error = %v", err)
	}

	loaded, err := LoadJSON(path)
	if err != nil {
		t.Fatalf("LoadJSON() error = %v", err)
	}
	var decoded struct {
		UID string `json:"uid"`
	}
	if err := json.Unmarshal(loaded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.UID != "exp" {
		t.Errorf("uid = %q", decoded.UID)
	}
}

func TestLoadJSONInvalid(t *testing.T) {
	if _, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
