// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package httpx centralizes outbound HTTP calls behind a single retrying
// client. Transient upstream failures (HTTP 429 and 5xx, plus network
// errors) are retried with capped exponential backoff; any other status is
// surfaced immediately. Callers build their own *http.Request (auth
// headers, multipart bodies, form encoding) and hand it over; the request
// body is buffered once and replayed on every attempt.
package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
)

// retryableStatus is the fixed set of status codes worth retrying.
var retryableStatus = map[int]bool{
	http.StatusTooManyRequests:     true,
	http.StatusInternalServerError: true,
	http.StatusBadGateway:          true,
	http.StatusServiceUnavailable:  true,
	http.StatusGatewayTimeout:      true,
}

// RemoteError describes a failed remote call. Transient marks errors that
// were retried before being surfaced (429/5xx after exhausting attempts);
// everything else is a hard rejection.
type RemoteError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Transient  bool
}

func (e *RemoteError) Error() string {
	kind := "rejected"
	if e.Transient {
		kind = "transient (retries exhausted)"
	}
	return fmt.Sprintf("%s %s: remote %s with status %d: %s", e.Method, e.URL, kind, e.StatusCode, truncate(e.Body, 300))
}

// IsTransientStatus reports whether a status code belongs to the retryable set.
func IsTransientStatus(code int) bool { return retryableStatus[code] }

// Response is a fully-read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool { return r.StatusCode >= 200 && r.StatusCode < 300 }

// JSON decodes the response body into v.
func (r *Response) JSON(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// Client wraps an http.Client with a retry budget. Safe for concurrent use.
type Client struct {
	http        *http.Client
	maxAttempts int
	baseDelay   time.Duration
	capDelay    time.Duration
}

// New creates a retrying client. retries is the number of attempts after the
// first; zero disables retrying entirely.
func New(timeout time.Duration, retries int) *Client {
	if retries < 0 {
		retries = 0
	}
	return &Client{
		http:        &http.Client{Timeout: timeout},
		maxAttempts: retries,
		baseDelay:   500 * time.Millisecond,
		capDelay:    8 * time.Second,
	}
}

// Do performs the request, retrying transient failures. The final response
// is returned even when its status is non-2xx so callers can inspect the
// body; use DoOK when any non-2xx should be an error. The request body is
// read once up front and replayed on each attempt.
func (c *Client) Do(req *http.Request) (*Response, error) {
	var payload []byte
	if req.Body != nil {
		b, err := io.ReadAll(req.Body)
		req.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		payload = b
	}

	var resp *Response
	backoff := retry.WithMaxRetries(uint64(c.maxAttempts),
		retry.WithCappedDuration(c.capDelay, retry.NewExponential(c.baseDelay)))

	err := retry.Do(req.Context(), backoff, func(ctx context.Context) error {
		attempt := req.Clone(ctx)
		if payload != nil {
			attempt.Body = io.NopCloser(bytes.NewReader(payload))
			attempt.ContentLength = int64(len(payload))
		}

		res, err := c.http.Do(attempt)
		if err != nil {
			slog.Warn("remote call failed, will retry", "method", req.Method, "url", req.URL.String(), "error", err)
			return retry.RetryableError(err)
		}
		defer res.Body.Close()

		b, err := io.ReadAll(res.Body)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("read response body: %w", err))
		}

		resp = &Response{StatusCode: res.StatusCode, Header: res.Header.Clone(), Body: b}
		if retryableStatus[res.StatusCode] {
			slog.Warn("remote returned transient status", "method", req.Method, "url", req.URL.String(), "status", res.StatusCode)
			return retry.RetryableError(&RemoteError{
				Method: req.Method, URL: req.URL.String(), StatusCode: res.StatusCode,
				Body: string(b), Transient: true,
			})
		}
		return nil
	})

	if err != nil {
		// Exhausted retries on a transient status: hand back the last
		// response so the caller still sees what the remote said.
		var re *RemoteError
		if errors.As(err, &re) && resp != nil {
			return resp, nil
		}
		return nil, err
	}
	return resp, nil
}

// DoOK is Do with a 2xx requirement: any other final status becomes a
// *RemoteError (Transient set when the status was in the retryable set).
func (c *Client) DoOK(req *http.Request) (*Response, error) {
	resp, err := c.Do(req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, &RemoteError{
			Method: req.Method, URL: req.URL.String(), StatusCode: resp.StatusCode,
			Body: string(resp.Body), Transient: retryableStatus[resp.StatusCode],
		}
	}
	return resp, nil
}

// DoJSON is DoOK plus decoding the response body into out (when non-nil).
// The caller sets its own Content-Type; not every JSON API takes a JSON
// request body.
func (c *Client) DoJSON(req *http.Request, out any) error {
	resp, err := c.DoOK(req)
	if err != nil {
		return err
	}
	if out != nil {
		return resp.JSON(out)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
