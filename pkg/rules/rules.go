// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package rules builds Prometheus alerting and recording rules and
// serializes them to the rule file format.
package rules

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/promutil"
)

// Rule is a single alerting or recording rule.
type Rule struct {
	Alert       string            `yaml:"alert,omitempty" json:"alert,omitempty"`
	Record      string            `yaml:"record,omitempty" json:"record,omitempty"`
	Expr        string            `yaml:"expr" json:"expr"`
	For         string            `yaml:"for,omitempty" json:"for,omitempty"`
	Labels      map[string]string `yaml:"labels,omitempty" json:"labels,omitempty"`
	Annotations map[string]string `yaml:"annotations,omitempty" json:"annotations,omitempty"`
}

// Group is a named set of rules evaluated at one interval.
type Group struct {
	Name     string `yaml:"name" json:"name"`
	Interval string `yaml:"interval,omitempty" json:"interval,omitempty"`
	Rules    []Rule `yaml:"rules" json:"rules"`
}

// File is a Prometheus rule file.
type File struct {
	Groups []Group `yaml:"groups" json:"groups"`
}

// AlertOptions configures an alert rule. Zero values get sensible
// defaults.
type AlertOptions struct {
	Severity    string
	Summary     string
	Description string
	Labels      map[string]string
	Annotations map[string]string
	For         string
}

// NewAlertRule creates an alerting rule for expr. Severity defaults to
// warning and the hold duration to 5m.
func NewAlertRule(name, expr string, opts AlertOptions) Rule {
	severity := opts.Severity
	if severity == "" {
		severity = "warning"
	}
	summary := opts.Summary
	if summary == "" {
		summary = "Alert: " + name
	}
	description := opts.Description
	if description == "" {
		description = "Alert triggered for " + name
	}
	forDuration := opts.For
	if forDuration == "" {
		forDuration = "5m"
	}

	labels := promutil.MergeLabels(map[string]string{"severity": severity}, opts.Labels)
	annotations := promutil.MergeLabels(map[string]string{
		"summary":     summary,
		"description": description,
	}, opts.Annotations)

	return Rule{
		Alert:       name,
		Expr:        expr,
		For:         forDuration,
		Labels:      labels,
		Annotations: annotations,
	}
}

// NewRecordingRule creates a recording rule for expr.
func NewRecordingRule(name, expr string, labels map[string]string) Rule {
	return Rule{
		Record: name,
		Expr:   expr,
		Labels: labels,
	}
}

// NewGroup creates a rule group. The evaluation interval defaults to 1m.
func NewGroup(name string, rules []Rule, interval string) Group {
	if interval == "" {
		interval = "1m"
	}
	return Group{
		Name:     name,
		Interval: interval,
		Rules:    rules,
	}
}

// Validate checks that every rule has an expression and exactly one of
// alert or record set.
func (f *File) Validate() error {
	if len(f.Groups) == 0 {
		return errors.ValidationError("rule file has no groups")
	}
	for _, g := range f.Groups {
		if g.Name == "" {
			return errors.ValidationError("rule group name cannot be empty")
		}
		for i, r := range g.Rules {
			if r.Expr == "" {
				return errors.ValidationError(fmt.Sprintf("group %s: rule %d has no expression", g.Name, i))
			}
			if (r.Alert == "") == (r.Record == "") {
				return errors.ValidationError(fmt.Sprintf("group %s: rule %d must set exactly one of alert or record", g.Name, i))
			}
			if r.Record != "" && (r.For != "" || len(r.Annotations) > 0) {
				return errors.ValidationError(fmt.Sprintf("group %s: recording rule %d cannot have for or annotations", g.Name, i))
			}
		}
	}
	return nil
}

// Marshal serializes the rule file to YAML.
func (f *File) Marshal() ([]byte, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	data, err := yaml.Marshal(f)
	if err != nil {
		return nil, errors.ValidationError("failed to serialize rule file: " + err.Error())
	}
	return data, nil
}

// WriteFile validates the rule file and writes it to path.
func (f *File) WriteFile(path string) error {
	data, err := f.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// LoadFile reads and parses a rule file from path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("failed to read rule file", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.ConfigError("failed to parse rule file", err)
	}
	return &f, nil
}
