// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package prometheus

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/models"
	"github.com/prom-tools/promkit/pkg/observability"
)

// defaultMaxConcurrent bounds concurrent query execution when the
// caller does not set a limit.
const defaultMaxConcurrent = 10

// MultiOptions configures QueryMultiple.
type MultiOptions struct {
	// Time is the shared evaluation time for instant queries.
	Time time.Time
	// MaxConcurrent bounds concurrent execution. Defaults to 10.
	MaxConcurrent int
}

// QueryMultiple executes queries concurrently and returns one result
// per query in input order. Individual query failures are recorded in
// the corresponding QueryResult; the returned error covers only
// validation and context cancellation.
func (c *Client) QueryMultiple(ctx context.Context, queries []models.Query, opts MultiOptions) ([]models.QueryResult, error) {
	for _, q := range queries {
		if err := q.Validate(); err != nil {
			return nil, err
		}
	}
	if len(queries) == 0 {
		return nil, nil
	}

	maxConcurrent := opts.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	c.logger.Debug("executing query batch",
		observability.Int("queries", len(queries)),
		observability.Int("max_concurrent", maxConcurrent))

	sem := semaphore.NewWeighted(int64(maxConcurrent))
	results := make([]models.QueryResult, len(queries))

	var wg sync.WaitGroup
	for i, q := range queries {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = models.ResultFromError(q.Name, q.Expr, q.Type(), 0, errors.TimeoutError("query cancelled", err))
			continue
		}
		wg.Add(1)
		go func(idx int, query models.Query) {
			defer wg.Done()
			defer sem.Release(1)
			results[idx] = c.runOne(ctx, query, opts.Time)
		}(i, q)
	}
	wg.Wait()

	return results, ctx.Err()
}

func (c *Client) runOne(ctx context.Context, q models.Query, evalTime time.Time) models.QueryResult {
	start := time.Now()

	var result models.QueryResult
	if q.IsRangeQuery() {
		result = c.QueryRange(ctx, q.Expr, *q.Start, *q.End, q.Step, QueryOptions{Timeout: q.Timeout})
	} else {
		result = c.Query(ctx, q.Expr, QueryOptions{Time: evalTime, Timeout: q.Timeout})
	}

	result.ExecutionTime = time.Since(start)
	if q.Name != "" {
		result.QueryName = q.Name
	}
	return result
}
