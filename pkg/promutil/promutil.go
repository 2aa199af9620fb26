// Package promutil provides small helpers shared across the toolkit.
package promutil

import (
	"fmt"
	"regexp"
	"time"

	"github.com/prom-tools/promkit/pkg/errors"
)

var invalidMetricChars = regexp.MustCompile(`[^a-zA-Z0-9_]`)

// ParseTimeRange resolves a start/end pair from flexible inputs.
// Each bound may be an RFC3339 string, a duration string meaning
// "that long ago" (e.g. "2h"), or empty. An empty end means now;
// start is required.
func ParseTimeRange(start, end string) (time.Time, time.Time, error) {
	now := time.Now()

	startTime, err := parseTimeBound(start, now)
	if err != nil {
		return time.Time{}, time.Time{}, errors.ValidationError(fmt.Sprintf("invalid start time %q: %v", start, err))
	}

	endTime := now
	if end != "" {
		endTime, err = parseTimeBound(end, now)
		if err != nil {
			return time.Time{}, time.Time{}, errors.ValidationError(fmt.Sprintf("invalid end time %q: %v", end, err))
		}
	}

	if endTime.Before(startTime) {
		return time.Time{}, time.Time{}, errors.ValidationError("end time is before start time")
	}

	return startTime, endTime, nil
}

func parseTimeBound(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("time value is empty")
	}

	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts, nil
	}

	// Duration form: "2h" means two hours ago
	if d, err := time.ParseDuration(value); err == nil {
		return now.Add(-d), nil
	}

	return time.Time{}, fmt.Errorf("not RFC3339 or a duration")
}

// FormatDuration formats a duration as a short human-readable string.
func FormatDuration(d time.Duration) string {
	seconds := d.Seconds()
	switch {
	case seconds < 60:
		return fmt.Sprintf("%.2fs", seconds)
	case seconds < 3600:
		return fmt.Sprintf("%.2fm", seconds/60)
	default:
		return fmt.Sprintf("%.2fh", seconds/3600)
	}
}

// SanitizeMetricName replaces characters that are invalid in a
// Prometheus metric name and prefixes names that would start with a
// digit or underscore.
func SanitizeMetricName(name string) string {
	sanitized := invalidMetricChars.ReplaceAllString(name, "_")
	if sanitized == "" {
		return sanitized
	}
	first := sanitized[0]
	if (first >= '0' && first <= '9') || first == '_' {
		sanitized = "metric_" + sanitized
	}
	return sanitized
}

// MergeLabels merges label sets, later sets taking precedence.
func MergeLabels(labelSets ...map[string]string) map[string]string {
	result := make(map[string]string)
	for _, labels := range labelSets {
		for k, v := range labels {
			result[k] = v
		}
	}
	return result
}
