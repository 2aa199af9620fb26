package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// SamplePoint is one timestamped value within a range-query series.
type SamplePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// Metric is a unified metric supporting both instant and series data.
// An instant metric carries Value/Timestamp; a range metric carries
// Values.
type Metric struct {
	Name      string            `json:"name"`
	Labels    map[string]string `json:"labels,omitempty"`
	Value     *float64          `json:"value,omitempty"`
	Timestamp *time.Time        `json:"timestamp,omitempty"`
	Values    []SamplePoint     `json:"values,omitempty"`
}

func (m Metric) String() string {
	switch {
	case m.Value != nil:
		return fmt.Sprintf("Metric(name=%q, value=%g)", m.Name, *m.Value)
	case len(m.Values) > 0:
		return fmt.Sprintf("Metric(name=%q, points=%d)", m.Name, len(m.Values))
	default:
		return fmt.Sprintf("Metric(name=%q)", m.Name)
	}
}

// QueryResult is the unified result for instant and range queries.
// Failed queries produce a result with Success=false rather than an
// error, so batch execution never aborts sibling queries.
type QueryResult struct {
	QueryName     string          `json:"query_name,omitempty"`
	Expr          string          `json:"query"`
	Type          QueryType       `json:"query_type"`
	Success       bool            `json:"success"`
	Status        string          `json:"status"`
	Metrics       []Metric        `json:"metrics,omitempty"`
	Error         string          `json:"error,omitempty"`
	ExecutionTime time.Duration   `json:"execution_time,omitempty"`
	Raw           json.RawMessage `json:"data,omitempty"`
}

// MetricCount returns the number of metrics in the result.
func (r QueryResult) MetricCount() int {
	return len(r.Metrics)
}

// Summary returns a compact view of the result for logging and
// debugging. Failed results include the error message.
func (r QueryResult) Summary() map[string]any {
	summary := map[string]any{
		"query_name":     r.QueryName,
		"query":          r.Expr,
		"query_type":     r.Type,
		"success":        r.Success,
		"status":         r.Status,
		"metric_count":   r.MetricCount(),
		"execution_time": r.ExecutionTime,
	}
	if !r.Success {
		summary["error"] = r.Error
	}
	return summary
}

// DisplayName returns the query name, falling back to a truncated
// expression.
func (r QueryResult) DisplayName() string {
	if r.QueryName != "" {
		return r.QueryName
	}
	if len(r.Expr) > 50 {
		return r.Expr[:50] + "..."
	}
	return r.Expr
}

// apiResponse mirrors the Prometheus query API envelope.
type apiResponse struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
	Data   struct {
		ResultType string `json:"resultType"`
		Result     []struct {
			Metric map[string]string   `json:"metric"`
			Value  []json.RawMessage   `json:"value,omitempty"`
			Values [][]json.RawMessage `json:"values,omitempty"`
		} `json:"result"`
	} `json:"data"`
}

// ResultFromResponse parses a Prometheus query API payload into a
// QueryResult. Vector results become instant metrics, matrix results
// become series metrics.
func ResultFromResponse(queryName, expr string, queryType QueryType, payload []byte) QueryResult {
	result := QueryResult{
		QueryName: queryName,
		Expr:      expr,
		Type:      queryType,
		Raw:       json.RawMessage(payload),
	}

	var resp apiResponse
	if err := json.Unmarshal(payload, &resp); err != nil {
		result.Status = "error"
		result.Error = fmt.Sprintf("malformed response: %v", err)
		return result
	}

	result.Status = resp.Status
	if resp.Status != "success" {
		result.Error = resp.Error
		if result.Error == "" {
			result.Error = "unknown error"
		}
		return result
	}
	result.Success = true

	for _, item := range resp.Data.Result {
		name := item.Metric["__name__"]
		if name == "" {
			name = "unknown"
		}
		labels := make(map[string]string, len(item.Metric))
		for k, v := range item.Metric {
			if k != "__name__" {
				labels[k] = v
			}
		}

		switch resp.Data.ResultType {
		case "vector", "scalar":
			ts, value, err := parseSamplePair(item.Value)
			if err != nil {
				continue
			}
			result.Metrics = append(result.Metrics, Metric{
				Name:      name,
				Labels:    labels,
				Value:     &value,
				Timestamp: &ts,
			})

		case "matrix":
			metric := Metric{Name: name, Labels: labels}
			for _, pair := range item.Values {
				ts, value, err := parseSamplePair(pair)
				if err != nil {
					continue
				}
				metric.Values = append(metric.Values, SamplePoint{Timestamp: ts, Value: value})
			}
			result.Metrics = append(result.Metrics, metric)
		}
	}

	return result
}

// ResultFromError builds a failed QueryResult from an execution error.
func ResultFromError(queryName, expr string, queryType QueryType, execTime time.Duration, err error) QueryResult {
	return QueryResult{
		QueryName:     queryName,
		Expr:          expr,
		Type:          queryType,
		Success:       false,
		Status:        "error",
		Error:         err.Error(),
		ExecutionTime: execTime,
	}
}

// parseSamplePair decodes a Prometheus [timestamp, "value"] pair.
func parseSamplePair(pair []json.RawMessage) (time.Time, float64, error) {
	if len(pair) < 2 {
		return time.Time{}, 0, fmt.Errorf("sample pair has %d elements", len(pair))
	}

	var ts float64
	if err := json.Unmarshal(pair[0], &ts); err != nil {
		return time.Time{}, 0, err
	}

	var raw string
	if err := json.Unmarshal(pair[1], &raw); err != nil {
		return time.Time{}, 0, err
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return time.Time{}, 0, err
	}

	sec := int64(ts)
	nsec := int64((ts - float64(sec)) * 1e9)
	return time.Unix(sec, nsec), value, nil
}
