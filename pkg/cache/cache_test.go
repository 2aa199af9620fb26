// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheSetGet(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != "v" {
		t.Errorf("Get() = %q, want v", got)
	}
}

func TestMemoryCacheMiss(t *testing.T) {
	c := NewMemoryCache()
	if _, err := c.Get(context.Background(), "absent"); err != ErrCacheMiss {
		t.Errorf("Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	if err := c.Set(ctx, "k", []byte("v"), -time.Second); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := c.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("expired Get() error = %v, want ErrCacheMiss", err)
	}
	if removed := c.Prune(); removed != 1 {
		t.Errorf("Prune() = %d, want 1", removed)
	}
}

func TestMemoryCacheDeleteAndClear(t *testing.T) {
	c := NewMemoryCache()
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	if err := c.Delete(ctx, "a"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := c.Get(ctx, "a"); err != ErrCacheMiss {
		t.Error("deleted key should miss")
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := c.Get(ctx, "b"); err != ErrCacheMiss {
		t.Error("cleared key should miss")
	}
}

func TestDiskCache(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewDiskCache() error = %v", err)
	}
	ctx := context.Background()

	if err := c.Set(ctx, "query:up", []byte(`{"status":"success"}`), time.Minute); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := c.Get(ctx, "query:up")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(got) != `{"status":"success"}` {
		t.Errorf("Get() = %q", got)
	}

	if _, err := c.Get(ctx, "other"); err != ErrCacheMiss {
		t.Errorf("Get(other) error = %v, want ErrCacheMiss", err)
	}
}

func TestDiskCacheExpiry(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	c.Set(ctx, "k", []byte("v"), -time.Second)
	if _, err := c.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("expired Get() error = %v, want ErrCacheMiss", err)
	}
}

func TestDiskCacheClear(t *testing.T) {
	c, err := NewDiskCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	c.Set(ctx, "a", []byte("1"), time.Minute)
	c.Set(ctx, "b", []byte("2"), time.Minute)

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if _, err := c.Get(ctx, "a"); err != ErrCacheMiss {
		t.Error("cleared key should miss")
	}
}

func TestKeyGenerator(t *testing.T) {
	kg := NewKeyGenerator()

	k1 := kg.Generate("up", "now")
	k2 := kg.Generate("up", "now")
	k3 := kg.Generate("up", "later")

	if k1 != k2 {
		t.Error("same inputs should produce the same key")
	}
	if k1 == k3 {
		t.Error("different inputs should produce different keys")
	}
	if k1[:8] != "promkit:" {
		t.Errorf("key prefix = %q, want promkit:", k1[:8])
	}
}

func TestKeyGeneratorQueryBucketing(t *testing.T) {
	kg := NewKeyGenerator()
	base := time.Date(2026, 8, 1, 12, 0, 10, 0, time.UTC)

	k1 := kg.GenerateForQuery("up", base, time.Minute)
	k2 := kg.GenerateForQuery("up", base.Add(30*time.Second), time.Minute)
	k3 := kg.GenerateForQuery("up", base.Add(2*time.Minute), time.Minute)

	if k1 != k2 {
		t.Error("timestamps in the same bucket should share a key")
	}
	if k1 == k3 {
		t.Error("timestamps in different buckets should not share a key")
	}
}
