// Copyright 2026 Prom Tools. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

// Package httpapi provides the shared HTTP client used by the
// Prometheus and Grafana API clients. It layers authentication,
// client-side rate limiting, bounded retries and typed errors over
// net/http.
package httpapi

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/prom-tools/promkit/pkg/errors"
	"github.com/prom-tools/promkit/pkg/observability"
)

// Options configures a Client.
type Options struct {
	BaseURL    string
	Auth       AuthProvider
	Timeout    time.Duration
	MaxRetries int
	// RateLimit is the maximum request rate in requests per second.
	// Zero means unlimited.
	RateLimit int
	VerifySSL bool
	Logger    observability.Logger
	Metrics   *observability.Metrics
	// ErrorType is the error classification applied to non-auth,
	// non-rate-limit API failures.
	ErrorType errors.ErrorType
}

// Client is an HTTP API client.
type Client struct {
	baseURL    string
	auth       AuthProvider
	httpClient *http.Client
	maxRetries int
	limiter    *rate.Limiter
	logger     observability.Logger
	metrics    *observability.Metrics
	errType    errors.ErrorType
}

// NewClient creates a new client from opts.
func NewClient(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !opts.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	auth := opts.Auth
	if auth == nil {
		auth = NoAuth{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = observability.NewNopLogger()
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateLimit)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		auth:       auth,
		httpClient: &http.Client{Timeout: timeout, Transport: transport},
		maxRetries: opts.MaxRetries,
		limiter:    limiter,
		logger:     logger,
		metrics:    opts.Metrics,
		errType:    opts.ErrorType,
	}
}

// BaseURL returns the normalized base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs an HTTP request against path and returns the response
// body. Query parameters in params are appended to the URL. Failed
// requests are retried with exponential backoff when the failure is
// retryable.
func (c *Client) Do(ctx context.Context, method, path string, params url.Values, body []byte) ([]byte, error) {
	requestID := uuid.New().String()
	log := c.logger.With(
		observability.String("request_id", requestID),
		observability.String("method", method),
		observability.String("path", path),
	)

	var result []byte
	attempt := 0
	operation := func() error {
		attempt++
		data, err := c.doOnce(ctx, log, method, path, params, body, requestID)
		if err != nil {
			if errors.IsRetryable(err) && attempt <= c.maxRetries {
				log.Warn("request failed, retrying",
					observability.Int("attempt", attempt),
					observability.Err(err))
				return err
			}
			return backoff.Permanent(err)
		}
		result = data
		return nil
	}

	policy := backoff.WithContext(newBackoff(), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		log.Error("request failed", observability.Err(err))
		return nil, err
	}
	return result, nil
}

func newBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = 10 * time.Second
	b.MaxElapsedTime = 2 * time.Minute
	return b
}

func (c *Client) doOnce(ctx context.Context, log observability.Logger, method, path string, params url.Values, body []byte, requestID string) ([]byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, errors.TimeoutError("rate limiter wait interrupted", err)
		}
	}

	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, errors.New(c.errType, "failed to build request", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.auth.Apply(req)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		c.record(path, elapsed, false)
		if ctx.Err() == context.DeadlineExceeded || isTimeout(err) {
			return nil, errors.TimeoutError(fmt.Sprintf("request to %s timed out", path), err)
		}
		return nil, errors.New(c.errType, fmt.Sprintf("request to %s failed", path), err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.record(path, elapsed, false)
		return nil, errors.New(c.errType, "failed to read response body", err)
	}

	if resp.StatusCode >= 400 {
		c.record(path, elapsed, false)
		return nil, c.statusError(resp, data)
	}

	c.record(path, elapsed, true)
	log.Debug("request completed",
		observability.Int("status", resp.StatusCode),
		observability.Duration("duration", elapsed))
	return data, nil
}

func (c *Client) statusError(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := 1
		if v := resp.Header.Get("Retry-After"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 {
				retryAfter = n
			}
		}
		return errors.RateLimitError(retryAfter)
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return errors.AuthError(fmt.Sprintf("authentication failed (HTTP %d)", resp.StatusCode)).WithStatus(resp.StatusCode)
	default:
		msg := strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return errors.New(c.errType, msg, nil).WithStatus(resp.StatusCode)
	}
}

func (c *Client) record(endpoint string, d time.Duration, success bool) {
	if c.metrics != nil {
		c.metrics.RecordRequest(endpoint, d, success)
	}
}

func isTimeout(err error) bool {
	type timeout interface{ Timeout() bool }
	for e := err; e != nil; {
		if t, ok := e.(timeout); ok && t.Timeout() {
			return true
		}
		u, ok := e.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		e = u.Unwrap()
	}
	return false
}

// GetJSON performs a GET request and decodes the JSON response into out.
func (c *Client) GetJSON(ctx context.Context, path string, params url.Values, out any) error {
	data, err := c.Do(ctx, http.MethodGet, path, params, nil)
	if err != nil {
		return err
	}
	return c.decode(data, out)
}

// PostJSON performs a POST request with a JSON body and decodes the
// response into out. Either in or out may be nil.
func (c *Client) PostJSON(ctx context.Context, path string, in, out any) error {
	body, err := c.encode(in)
	if err != nil {
		return err
	}
	data, err := c.Do(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return err
	}
	return c.decode(data, out)
}

// Post performs a POST request with query parameters and no body,
// returning the raw response. Prometheus admin endpoints take their
// arguments this way.
func (c *Client) Post(ctx context.Context, path string, params url.Values) ([]byte, error) {
	return c.Do(ctx, http.MethodPost, path, params, nil)
}

// PutJSON performs a PUT request with a JSON body and decodes the
// response into out.
func (c *Client) PutJSON(ctx context.Context, path string, in, out any) error {
	body, err := c.encode(in)
	if err != nil {
		return err
	}
	data, err := c.Do(ctx, http.MethodPut, path, nil, body)
	if err != nil {
		return err
	}
	return c.decode(data, out)
}

// DeleteJSON performs a DELETE request and decodes the response into out.
func (c *Client) DeleteJSON(ctx context.Context, path string, out any) error {
	data, err := c.Do(ctx, http.MethodDelete, path, nil, nil)
	if err != nil {
		return err
	}
	return c.decode(data, out)
}

// GetText performs a GET request and returns the response body as a
// string. Used for health probes that return plain text.
func (c *Client) GetText(ctx context.Context, path string) (string, error) {
	data, err := c.Do(ctx, http.MethodGet, path, nil, nil)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (c *Client) encode(in any) ([]byte, error) {
	if in == nil {
		return nil, nil
	}
	if raw, ok := in.([]byte); ok {
		return raw, nil
	}
	body, err := json.Marshal(in)
	if err != nil {
		return nil, errors.New(c.errType, "failed to encode request body", err)
	}
	return body, nil
}

func (c *Client) decode(data []byte, out any) error {
	if out == nil {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = append((*raw)[:0], data...)
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return errors.New(c.errType, "failed to decode response", err)
	}
	return nil
}
