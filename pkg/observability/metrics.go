// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"sync"
	"time"
)

// Metrics collects per-endpoint request statistics for the API clients.
type Metrics struct {
	mu        sync.Mutex
	endpoints map[string]*EndpointStats
	cacheHits int64
	cacheMiss int64
}

// EndpointStats holds aggregate statistics for one API endpoint.
type EndpointStats struct {
	Requests     int64
	Failures     int64
	TotalLatency time.Duration
	MaxLatency   time.Duration
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		endpoints: make(map[string]*EndpointStats),
	}
}

// RecordRequest records one API request against an endpoint.
func (m *Metrics) RecordRequest(endpoint string, duration time.Duration, success bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.endpoints[endpoint]
	if !ok {
		stats = &EndpointStats{}
		m.endpoints[endpoint] = stats
	}

	stats.Requests++
	if !success {
		stats.Failures++
	}
	stats.TotalLatency += duration
	if duration > stats.MaxLatency {
		stats.MaxLatency = duration
	}
}

// RecordCacheHit records a cache hit or miss.
func (m *Metrics) RecordCacheHit(hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.cacheHits++
	} else {
		m.cacheMiss++
	}
}

// Snapshot returns a copy of the per-endpoint statistics.
func (m *Metrics) Snapshot() map[string]EndpointStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[string]EndpointStats, len(m.endpoints))
	for endpoint, stats := range m.endpoints {
		out[endpoint] = *stats
	}
	return out
}

// CacheStats returns the cache hit and miss counts.
func (m *Metrics) CacheStats() (hits, misses int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cacheHits, m.cacheMiss
}
