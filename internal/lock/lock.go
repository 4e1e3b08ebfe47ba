// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package lock provides per-slug Redis locks so two pipeline runs never
// publish the same slug concurrently. Locking is optional: without a
// Redis address every acquire succeeds, keeping single-instance
// deployments dependency-free.
package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "autopress:lock:"

// Locker hands out slug locks backed by SET NX PX.
type Locker struct {
	client *redis.Client
}

// New creates a Locker. Returns (nil, nil) when addr is empty; a nil
// Locker is safe to use and never blocks anything.
func New(addr, password string) (*Locker, error) {
	if addr == "" {
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return &Locker{client: client}, nil
}

// HeldError reports a slug already locked by another run.
type HeldError struct {
	Slug string
}

func (e *HeldError) Error() string {
	return fmt.Sprintf("slug %q is locked by another run", e.Slug)
}

// Acquire takes the lock for a slug, expiring after ttl in case the
// holder crashes. Returns a release func; callers defer it.
func (l *Locker) Acquire(ctx context.Context, slug string, ttl time.Duration) (func(), error) {
	if l == nil {
		return func() {}, nil
	}
	key := keyPrefix + slug
	ok, err := l.client.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lock %s: %w", key, err)
	}
	if !ok {
		return nil, &HeldError{Slug: slug}
	}
	return func() {
		// Best effort; the TTL cleans up after a failed release.
		l.client.Del(context.Background(), key)
	}, nil
}

// Close releases the Redis connection.
func (l *Locker) Close() error {
	if l == nil {
		return nil
	}
	return l.client.Close()
}
