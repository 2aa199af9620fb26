package models

import (
	"strings"
	"testing"
	"time"
)

func TestQueryType(t *testing.T) {
	start := time.Now().Add(-2 * time.Hour)
	end := time.Now()

	tests := []struct {
		name  string
		query Query
		want  QueryType
	}{
		{"bare expr", NewQuery("", "up"), QueryTypeInstant},
		{"named instant", NewQuery("availability", "up"), QueryTypeInstant},
		{"range", NewRangeQuery("cpu", "rate(cpu[5m])", start, end, "1m"), QueryTypeRange},
		{"start only is instant", Query{Expr: "up", Start: &start}, QueryTypeInstant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.query.Type(); got != tt.want {
				t.Errorf("Type() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestQueryValidate(t *testing.T) {
	start := time.Now().Add(-time.Hour)
	end := time.Now()

	tests := []struct {
		name    string
		query   Query
		wantErr bool
	}{
		{"valid instant", NewQuery("", "up"), false},
		{"valid range", NewRangeQuery("", "up", start, end, "30s"), false},
		{"empty expr", Query{}, true},
		{"range without step", Query{Expr: "up", Start: &start, End: &end}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.query.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQueryDisplayName(t *testing.T) {
	if got := NewQuery("service up", "up").DisplayName(); got != "service up" {
		t.Errorf("DisplayName() = %q, want name", got)
	}

	long := strings.Repeat("x", 80)
	got := NewQuery("", long).DisplayName()
	if len(got) != 53 || !strings.HasSuffix(got, "...") {
		t.Errorf("DisplayName() = %q, want 50 chars plus ellipsis", got)
	}
}

func TestResultFromResponseVector(t *testing.T) {
	payload := `{
		"status": "success",
		"data": {
			"resultType": "vector",
			"result": [
				{"metric": {"__name__": "up", "job": "prometheus", "instance": "localhost:9090"}, "value": [1693400000.123, "1"]},
				{"metric": {"__name__": "up", "job": "node"}, "value": [1693400000.123, "0"]}
			]
		}
	}`

	result := ResultFromResponse("availability", "up", QueryTypeInstant, []byte(payload))

	if !result.Success {
		t.Fatalf("Success = false, error = %s", result.Error)
	}
	if result.MetricCount() != 2 {
		t.Fatalf("MetricCount() = %d, want 2", result.MetricCount())
	}

	first := result.Metrics[0]
	if first.Name != "up" {
		t.Errorf("Name = %q, want up", first.Name)
	}
	if first.Value == nil || *first.Value != 1 {
		t.Errorf("Value = %v, want 1", first.Value)
	}
	if first.Labels["job"] != "prometheus" {
		t.Errorf("labels = %v, want job=prometheus", first.Labels)
	}
	if _, hasName := first.Labels["__name__"]; hasName {
		t.Error("__name__ must not be kept as a label")
	}
	if first.Timestamp == nil || first.Timestamp.Unix() != 1693400000 {
		t.Errorf("Timestamp = %v, want 1693400000", first.Timestamp)
	}
}

func TestResultFromResponseMatrix(t *testing.T) {
	payload := `{
		"status": "success",
		"data": {
			"resultType": "matrix",
			"result": [
				{"metric": {"__name__": "cpu"}, "values": [[1693400000, "0.5"], [1693400060, "0.75"]]}
			]
		}
	}`

	result := ResultFromResponse("", "rate(cpu[5m])", QueryTypeRange, []byte(payload))

	if !result.Success {
		t.Fatalf("Success = false, error = %s", result.Error)
	}
	if result.MetricCount() != 1 {
		t.Fatalf("MetricCount() = %d, want 1", result.MetricCount())
	}

	metric := result.Metrics[0]
	if len(metric.Values) != 2 {
		t.Fatalf("len(Values) = %d, want 2", len(metric.Values))
	}
	if metric.Values[1].Value != 0.75 {
		t.Errorf("Values[1].Value = %g, want 0.75", metric.Values[1].Value)
	}
	if metric.Value != nil {
		t.Error("range metric should not carry an instant value")
	}
}

func TestResultFromResponseFailure(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		errWant string
	}{
		{"api error", `{"status": "error", "error": "parse error at char 4"}`, "parse error"},
		{"api error without message", `{"status": "error"}`, "unknown error"},
		{"malformed json", `{"status": `, "malformed response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ResultFromResponse("", "up{", QueryTypeInstant, []byte(tt.payload))
			if result.Success {
				t.Fatal("Success = true, want false")
			}
			if !strings.Contains(result.Error, tt.errWant) {
				t.Errorf("Error = %q, want substring %q", result.Error, tt.errWant)
			}
		})
	}
}

func TestResultFromError(t *testing.T) {
	result := ResultFromError("mem", "memory_bytes", QueryTypeInstant, 120*time.Millisecond, errTest{})

	if result.Success {
		t.Error("Success = true, want false")
	}
	if result.Status != "error" {
		t.Errorf("Status = %q, want error", result.Status)
	}
	if result.ExecutionTime != 120*time.Millisecond {
		t.Errorf("ExecutionTime = %v, want 120ms", result.ExecutionTime)
	}
}

type errTest struct{}

func (errTest) Error() string { return "boom" }

func TestResultSummary(t *testing.T) {
	tests := []struct {
		name      string
		result    QueryResult
		wantError bool
	}{
		{
			name: "successful result",
			result: QueryResult{
				QueryName:     "uptime",
				Expr:          "up",
				Type:          QueryTypeInstant,
				Success:       true,
				Status:        "success",
				Metrics:       []Metric{{Name: "up"}, {Name: "up"}},
				ExecutionTime: 42 * time.Millisecond,
			},
		},
		{
			name: "failed result",
			result: QueryResult{
				Expr:   "up{",
				Type:   QueryTypeInstant,
				Status: "error",
				Error:  "parse error",
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := tt.result.Summary()

			if summary["query"] != tt.result.Expr {
				t.Errorf("summary[query] = %v, want %q", summary["query"], tt.result.Expr)
			}
			if summary["success"] != tt.result.Success {
				t.Errorf("summary[success] = %v, want %v", summary["success"], tt.result.Success)
			}
			if summary["status"] != tt.result.Status {
				t.Errorf("summary[status] = %v, want %q", summary["status"], tt.result.Status)
			}
			if summary["metric_count"] != len(tt.result.Metrics) {
				t.Errorf("summary[metric_count] = %v, want %d", summary["metric_count"], len(tt.result.Metrics))
			}
			if summary["execution_time"] != tt.result.ExecutionTime {
				t.Errorf("summary[execution_time] = %v, want %v", summary["execution_time"], tt.result.ExecutionTime)
			}

			errVal, ok := summary["error"]
			if tt.wantError {
				if !ok || errVal != tt.result.Error {
					t.Errorf("summary[error] = %v, want %q", errVal, tt.result.Error)
				}
			} else if ok {
				t.Errorf("summary[error] = %v, want absent", errVal)
			}
		})
	}
}
