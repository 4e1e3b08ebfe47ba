// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package liveness checks that a published URL is actually reachable
// before the log store records it as PUBLISHED. The check fetches over
// an SSRF-guarded client since target URLs come from operator-managed
// destination rows, not trusted code.
package liveness

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/doyensec/safeurl"
)

// minBodyLength is the threshold below which a 200 response still counts
// as dead: platform error pages and empty shells are shorter than any
// real post.
const minBodyLength = 100

// maxBodyRead bounds how much of the response we pull in.
const maxBodyRead = 64 * 1024

// Checker verifies URLs resolve to live content.
type Checker struct {
	client *http.Client
}

// New creates a Checker with the given timeout. Private, loopback, and
// link-local addresses are blocked by the wrapped client, which also
// validates resolved IPs in the dialer so DNS rebinding can't slip past.
func New(timeout time.Duration) *Checker {
	config := safeurl.GetConfigBuilder().
		SetTimeout(timeout).
		SetAllowedSchemes("http", "https").
		SetAllowedPorts(80, 443).
		Build()
	return &Checker{client: safeurl.Client(config).Client}
}

// NewUnguarded creates a Checker that talks to any address, loopback
// included. Only for tests.
func NewUnguarded(timeout time.Duration) *Checker {
	return &Checker{client: &http.Client{Timeout: timeout}}
}

// DeadURLError reports a URL that failed the liveness check.
type DeadURLError struct {
	URL        string
	StatusCode int
	BodyLength int
}

func (e *DeadURLError) Error() string {
	if e.StatusCode != http.StatusOK {
		return fmt.Sprintf("liveness: %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("liveness: %s body too short (%d chars, need > %d)", e.URL, e.BodyLength, minBodyLength)
}

// Check fetches the URL and returns nil only when the response is HTTP
// 200 with a body longer than 100 characters. Any other outcome returns
// an error so the caller blocks the transition instead of silently
// skipping it.
func (c *Checker) Check(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("liveness request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("liveness fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyRead))
	if err != nil {
		return fmt.Errorf("liveness read %s: %w", rawURL, err)
	}

	if resp.StatusCode != http.StatusOK || len(body) <= minBodyLength {
		return &DeadURLError{URL: rawURL, StatusCode: resp.StatusCode, BodyLength: len(body)}
	}
	return nil
}
