// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package poll runs a fetch on a fixed interval and keeps the last good result.

A [Poller] fetches once immediately when started and then once per tick
until its context is cancelled. A failed fetch is logged and never replaces
the previous value; the snapshot is marked stale instead.
*/
package poll

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Fetcher produces a fresh value. It must honour ctx cancellation.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Snapshot is a point-in-time view of a poller's state.
type Snapshot[T any] struct {
	Value     T         `json:"value"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale"`
	LastError string    `json:"last_error,omitempty"`
}

// Poller keeps the most recent successful result of a [Fetcher].
//
// It is safe for concurrent use; [Poller.Run] must be called at most once.
type Poller[T any] struct {
	name     string
	interval time.Duration
	timeout  time.Duration
	fetch    Fetcher[T]
	logger   *slog.Logger

	mu        sync.RWMutex
	value     T
	hasValue  bool
	fetchedAt time.Time
	lastErr   error
}

// New creates a Poller. timeout bounds each fetch; zero means the interval.
func New[T any](name string, interval, timeout time.Duration, fetch func(context.Context) (T, error), logger *slog.Logger) *Poller[T] {
	if timeout <= 0 || timeout > interval {
		timeout = interval
	}
	return &Poller[T]{
		name:     name,
		interval: interval,
		timeout:  timeout,
		fetch:    fetch,
		logger:   logger.With(slog.String("poller", name)),
	}
}

// Name returns the poller's name as used in logs.
func (poller *Poller[T]) Name() string {
	return poller.name
}

// Run fetches immediately and then every interval until ctx is done.
func (poller *Poller[T]) Run(ctx context.Context) {
	poller.logger.Info("poller_started", slog.Duration("interval", poller.interval))
	defer poller.logger.Info("poller_stopped")

	poller.Refresh(ctx)

	ticker := time.NewTicker(poller.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			poller.Refresh(ctx)
		}
	}
}

// Refresh performs a single fetch and records its outcome.
func (poller *Poller[T]) Refresh(ctx context.Context) {
	fetchCtx, cancel := context.WithTimeout(ctx, poller.timeout)
	defer cancel()

	value, err := poller.fetch(fetchCtx)

	// Shutdown interrupts are not upstream failures.
	if err != nil && ctx.Err() != nil {
		return
	}

	poller.mu.Lock()
	defer poller.mu.Unlock()

	if err != nil {
		poller.lastErr = err
		poller.logger.Warn("poller_fetch_failed", slog.Bool("has_value", poller.hasValue), slog.Any("error", err))
		return
	}

	poller.value = value
	poller.hasValue = true
	poller.fetchedAt = time.Now()
	poller.lastErr = nil
}

// Snapshot returns the current state. ok is false until the first success.
func (poller *Poller[T]) Snapshot() (snapshot Snapshot[T], ok bool) {
	poller.mu.RLock()
	defer poller.mu.RUnlock()

	if !poller.hasValue {
		return Snapshot[T]{}, false
	}

	snapshot = Snapshot[T]{
		Value:     poller.value,
		FetchedAt: poller.fetchedAt,
		Stale:     poller.lastErr != nil,
	}
	if poller.lastErr != nil {
		snapshot.LastError = poller.lastErr.Error()
	}
	return snapshot, true
}

// Err returns the error of the most recent fetch, or nil if it succeeded.
func (poller *Poller[T]) Err() error {
	poller.mu.RLock()
	defer poller.mu.RUnlock()
	return poller.lastErr
}
