// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Feeds: Upstream polling intervals.
  - Transport: Header names and JSON field identifiers.
*/
package constants

import "time"

// # Metadata

const (
	AppName = "churchos-api"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 50.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 100

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Feeds

const (
	// DashboardPollInterval matches the prophecy dashboard refresh cadence.
	DashboardPollInterval = 30 * time.Second

	// PrayerSessionsPollInterval matches the prayer portal session refresh cadence.
	PrayerSessionsPollInterval = 5 * time.Second

	// PrayerLogsPollInterval matches the prayer portal log refresh cadence.
	PrayerLogsPollInterval = 3 * time.Second

	// UpstreamRequestTimeout bounds a single upstream fetch.
	UpstreamRequestTimeout = 4 * time.Second
)

// # Transport

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderRetryAfter    = "Retry-After"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixNavigation = "nav:visible:"
)
