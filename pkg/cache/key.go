// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// KeyGenerator generates cache keys.
type KeyGenerator struct {
	prefix string
}

// NewKeyGenerator creates a new key generator.
func NewKeyGenerator() *KeyGenerator {
	return &KeyGenerator{
		prefix: "promkit",
	}
}

// Generate generates a cache key from inputs using a SHA256 digest.
func (kg *KeyGenerator) Generate(inputs ...string) string {
	h := sha256.New()
	for _, input := range inputs {
		h.Write([]byte(input))
	}
	return kg.prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

// GenerateForQuery generates a key for a query evaluated at a point in time.
// The timestamp is bucketed so repeated evaluations within the same bucket
// share a key.
func (kg *KeyGenerator) GenerateForQuery(expr string, ts time.Time, bucket time.Duration) string {
	if bucket <= 0 {
		bucket = time.Minute
	}
	truncated := ts.Truncate(bucket).Unix()
	return kg.Generate(expr, strconv.FormatInt(truncated, 10))
}
