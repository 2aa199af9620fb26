package observability

import (
	"sync"
	"testing"
	"time"
)

func TestMetricsRecordRequest(t *testing.T) {
	m := NewMetrics()

	m.RecordRequest("api/v1/query", 100*time.Millisecond, true)
	m.RecordRequest("api/v1/query", 300*time.Millisecond, false)
	m.RecordRequest("api/v1/targets", 50*time.Millisecond, true)

	snap := m.Snapshot()

	query := snap["api/v1/query"]
	if query.Requests != 2 {
		t.Errorf("Requests = %d, want 2", query.Requests)
	}
	if query.Failures != 1 {
		t.Errorf("Failures = %d, want 1", query.Failures)
	}
	if query.TotalLatency != 400*time.Millisecond {
		t.Errorf("TotalLatency = %v, want 400ms", query.TotalLatency)
	}
	if query.MaxLatency != 300*time.Millisecond {
		t.Errorf("MaxLatency = %v, want 300ms", query.MaxLatency)
	}

	if snap["api/v1/targets"].Requests != 1 {
		t.Errorf("targets Requests = %d, want 1", snap["api/v1/targets"].Requests)
	}
}

func TestMetricsCacheStats(t *testing.T) {
	m := NewMetrics()
	m.RecordCacheHit(true)
	m.RecordCacheHit(true)
	m.RecordCacheHit(false)

	hits, misses := m.CacheStats()
	if hits != 2 || misses != 1 {
		t.Errorf("CacheStats() = (%d, %d), want (2, 1)", hits, misses)
	}
}

func TestMetricsConcurrentAccess(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				m.RecordRequest("api/v1/query", time.Millisecond, true)
			}
		}()
	}
	wg.Wait()

	if got := m.Snapshot()["api/v1/query"].Requests; got != 1000 {
		t.Errorf("Requests = %d, want 1000", got)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("api/health", time.Millisecond, true)

	snap := m.Snapshot()
	entry := snap["api/health"]
	entry.Requests = 99

	if m.Snapshot()["api/health"].Requests != 1 {
		t.Error("mutating a snapshot must not affect the collector")
	}
}
