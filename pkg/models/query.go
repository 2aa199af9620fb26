// Package models defines the shared data model for Prometheus and
// Grafana API interactions.
package models

import (
	"fmt"
	"time"

	"github.com/prom-tools/promkit/pkg/errors"
)

// QueryType distinguishes instant from range queries.
type QueryType string

const (
	QueryTypeInstant QueryType = "instant"
	QueryTypeRange   QueryType = "range"
)

// Query is a unified query definition for both instant and range queries.
// A query is a range query when both Start and End are set.
type Query struct {
	Name        string `yaml:"name,omitempty" json:"name,omitempty"`
	Expr        string `yaml:"query" json:"query"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Category    string `yaml:"category,omitempty" json:"category,omitempty"`
	Timeout     string `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// Range query fields
	Start *time.Time `yaml:"start,omitempty" json:"start,omitempty"`
	End   *time.Time `yaml:"end,omitempty" json:"end,omitempty"`
	Step  string     `yaml:"step,omitempty" json:"step,omitempty"`
}

// NewQuery creates a named instant query.
func NewQuery(name, expr string) Query {
	return Query{Name: name, Expr: expr}
}

// NewRangeQuery creates a named range query.
func NewRangeQuery(name, expr string, start, end time.Time, step string) Query {
	return Query{Name: name, Expr: expr, Start: &start, End: &end, Step: step}
}

// IsRangeQuery reports whether both time bounds are set.
func (q Query) IsRangeQuery() bool {
	return q.Start != nil && q.End != nil
}

// Type returns the query type.
func (q Query) Type() QueryType {
	if q.IsRangeQuery() {
		return QueryTypeRange
	}
	return QueryTypeInstant
}

// DisplayName returns the query name, falling back to a truncated
// expression.
func (q Query) DisplayName() string {
	if q.Name != "" {
		return q.Name
	}
	if len(q.Expr) > 50 {
		return q.Expr[:50] + "..."
	}
	return q.Expr
}

// Validate checks the query is executable.
func (q Query) Validate() error {
	if q.Expr == "" {
		return errors.ValidationError("query expression is required")
	}
	if q.IsRangeQuery() && q.Step == "" {
		return errors.ValidationError(fmt.Sprintf("range query %q requires a step", q.DisplayName()))
	}
	return nil
}

func (q Query) String() string {
	name := "no_name"
	if q.Name != "" {
		name = fmt.Sprintf("name=%q", q.Name)
	}
	return fmt.Sprintf("Query(%s, expr=%q, type=%s)", name, q.Expr, q.Type())
}
