// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// DiskCache is a disk-based cache. Entries are stored one file per key
// as JSON with an embedded expiry.
type DiskCache struct {
	path string
}

type diskEntry struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewDiskCache creates a new disk cache rooted at path.
func NewDiskCache(path string) (*DiskCache, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{path: path}, nil
}

func (d *DiskCache) entryPath(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(d.path, hex.EncodeToString(sum[:])+".json")
}

// Get retrieves a value from disk cache.
func (d *DiskCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(d.entryPath(key))
	if err != nil {
		return nil, ErrCacheMiss
	}

	var entry diskEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, ErrCacheMiss
	}
	if time.Now().After(entry.ExpiresAt) {
		os.Remove(d.entryPath(key))
		return nil, ErrCacheMiss
	}
	return entry.Value, nil
}

// Set stores a value in disk cache.
func (d *DiskCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	entry := diskEntry{
		Key:       key,
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	return os.WriteFile(d.entryPath(key), data, 0o600)
}

// Delete removes a value from disk cache.
func (d *DiskCache) Delete(ctx context.Context, key string) error {
	err := os.Remove(d.entryPath(key))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Clear removes all entries from disk cache.
func (d *DiskCache) Clear(ctx context.Context) error {
	entries, err := os.ReadDir(d.path)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(d.path, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}
