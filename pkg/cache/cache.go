// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package cache provides caching for query results.
package cache

import (
	"context"
	"time"
)

// Cache is the cache interface.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Entry represents a cache entry.
type Entry struct {
	Key       string
	Value     []byte
	ExpiresAt time.Time
}

// CacheError represents a cache error.
type CacheError struct {
	Code string
}

func (e *CacheError) Error() string {
	return e.Code
}

// ErrCacheMiss is returned when a key is absent or expired.
var ErrCacheMiss = &CacheError{Code: "CACHE_MISS"}
