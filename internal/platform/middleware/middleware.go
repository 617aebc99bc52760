// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware provides the cross-cutting HTTP processing chain.

It acts as a series of decorators around the standard http.Handler, injecting
traceability, safety, and security into every request lifecycle.

Standard Stack:

  - Trace: RequestID generation for log correlation.
  - Origin: ClientIP resolution behind trusted proxies only.
  - Log: Structured Activity logging (slog).
  - Guard: Rate limiting and CORS validation.
  - Safe: Panic recovery to prevent server crashes.
  - Access: Bearer authentication plus role and permission gates.
*/
package middleware

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"runtime"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/taibuivan/churchos/internal/platform/apperr"
	"github.com/taibuivan/churchos/internal/platform/constants"
	"github.com/taibuivan/churchos/internal/platform/ctxutil"
	"github.com/taibuivan/churchos/internal/platform/respond"
)

// # Request Tracing

// RequestID attaches a correlation ID to every request for log tracing.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// 1. Reuse the caller's ID when present
			requestID := request.Header.Get(constants.HeaderXRequestID)

			// 2. Otherwise mint a time-sortable UUID v7
			if requestID == "" {
				uuidV7, err := uuid.NewV7()
				if err != nil {
					requestID = uuid.New().String()
				} else {
					requestID = uuidV7.String()
				}
			}

			// 3. Inject into context and response headers
			ctx := ctxutil.WithRequestID(request.Context(), requestID)
			writer.Header().Set(constants.HeaderXRequestID, requestID)

			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// # Activity Logging

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (recorder *statusRecorder) WriteHeader(code int) {
	recorder.status = code
	recorder.ResponseWriter.WriteHeader(code)
}

// StructuredLogger logs every request status and latency.
// It also injects a request-specific logger into the context.
func StructuredLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			startTime := time.Now()

			// 1. Create a sub-logger for this specific request
			requestLogger := logger.With(
				slog.String("request_id", ctxutil.GetRequestID(request.Context())),
				slog.String("method", request.Method),
				slog.String("path", request.URL.Path),
				slog.String("ip", RealIP(request)),
			)

			// 2. Inject this logger into the context for downstream use
			ctx := ctxutil.WithLogger(request.Context(), requestLogger)
			wrappedWriter := &statusRecorder{ResponseWriter: writer, status: http.StatusOK}
			enriched := request.WithContext(ctx)

			next.ServeHTTP(wrappedWriter, enriched)

			// 3. Final log entry after the request is finished
			logLevel := slog.LevelInfo
			if wrappedWriter.status >= 500 {
				logLevel = slog.LevelError
			} else if wrappedWriter.status >= 400 {
				logLevel = slog.LevelWarn
			}

			attrs := []any{
				slog.Int("status", wrappedWriter.status),
				slog.Int64("latency_ms", time.Since(startTime).Milliseconds()),
				slog.String("user_agent", request.UserAgent()),
			}

			// Authentication runs further down the chain, so read the claims
			// from the holder it filled in.
			if holder := identityFrom(ctx); holder != nil && holder.userID != "" {
				attrs = append(attrs, slog.String("user_id", holder.userID), slog.String("role", holder.role))
			}

			requestLogger.Log(ctx, logLevel, "http_request_finished", attrs...)
		})
	}
}

// identityHolder lets inner middleware report the authenticated user back to
// the request logger, which finishes after them.
type identityHolder struct {
	userID string
	role   string
}

type identityKey struct{}

func identityFrom(ctx context.Context) *identityHolder {
	holder, _ := ctx.Value(identityKey{}).(*identityHolder)
	return holder
}

// TrackIdentity installs the holder read by [StructuredLogger]. It must run
// before [StructuredLogger] in the chain.
func TrackIdentity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctx := context.WithValue(request.Context(), identityKey{}, &identityHolder{})
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

// # Rate Limiting

type rateLimitClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit limits requests per IP using the token bucket algorithm.
//
// Idle clients are evicted by a background goroutine that stops when ctx is done.
func RateLimit(ctx context.Context, rps float64, burst int) func(http.Handler) http.Handler {
	var (
		mu      sync.Mutex
		clients = make(map[string]*rateLimitClient)
	)

	go func() {
		ticker := time.NewTicker(constants.RateLimitCleanupInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				mu.Lock()
				for ip, clientInfo := range clients {
					if time.Since(clientInfo.lastSeen) > constants.RateLimitClientTTL {
						delete(clients, ip)
					}
				}
				mu.Unlock()
			case <-ctx.Done():
				return
			}
		}
	}()

	retryAfter := int(1 / rps)
	if retryAfter < 1 {
		retryAfter = 1
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			clientIP := RealIP(request)

			mu.Lock()
			clientInfo, found := clients[clientIP]
			if !found {
				clientInfo = &rateLimitClient{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
				clients[clientIP] = clientInfo
			}
			clientInfo.lastSeen = time.Now()
			allowed := clientInfo.limiter.Allow()
			mu.Unlock()

			if !allowed {
				writer.Header().Set(constants.HeaderRetryAfter, strconv.Itoa(retryAfter))
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// # Reliability & Safety

// PanicRecovery recovers from panics, logs stack trace, and returns 500.
func PanicRecovery() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					stackTrace := make([]byte, 2048)
					length := runtime.Stack(stackTrace, false)

					ctxutil.GetLogger(request.Context()).ErrorContext(request.Context(), "panic_recovered",
						slog.Any("error", recovered),
						slog.String("stack", string(stackTrace[:length])),
					)

					respond.Error(writer, request, apperr.Internal(nil))
				}
			}()

			next.ServeHTTP(writer, request)
		})
	}
}

// # Cross-Origin Resource Sharing

// AppConfig defines the behavior needed by the CORS middleware.
type AppConfig interface {
	IsDevelopment() bool
	AllowedOrigins() []string
}

// productionOrigin admits the hosted shell; its subdomains are admitted too.
const productionOrigin = "https://churchos.app"

// CORS handles Cross-Origin Resource Sharing based on application environment.
//
// Development accepts any origin; otherwise only *.churchos.app and the
// configured extra origins are allowed.
func CORS(cfg AppConfig) func(http.Handler) http.Handler {
	extra := cfg.AllowedOrigins()
	development := cfg.IsDevelopment()

	return cors.Handler(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			if development || origin == productionOrigin {
				return true
			}
			if strings.HasPrefix(origin, "https://") && strings.HasSuffix(origin, ".churchos.app") {
				return true
			}
			for _, allowed := range extra {
				if origin == allowed {
					return true
				}
			}
			return false
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "Content-Length", "Authorization", constants.HeaderXRequestID},
		ExposedHeaders:   []string{"Content-Length", constants.HeaderXRequestID},
		AllowCredentials: true,
		MaxAge:           300,
	})
}

// # Middleware Helpers

// ClientIP resolves the caller's address once per request.
//
// Forwarding headers are honoured only when the direct peer is inside one of
// the trusted prefixes. X-Real-IP wins over X-Forwarded-For; in the latter the
// rightmost address outside the trusted prefixes is the client. Anything
// unparsable falls back to the peer address.
func ClientIP(trusted []netip.Prefix) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ip := resolveClientIP(request, trusted)
			next.ServeHTTP(writer, request.WithContext(ctxutil.WithClientIP(request.Context(), ip)))
		})
	}
}

func resolveClientIP(request *http.Request, trusted []netip.Prefix) string {
	peer := remoteHost(request)

	peerAddr, err := netip.ParseAddr(peer)
	if err != nil || !isTrusted(peerAddr, trusted) {
		return peer
	}

	if realIP, err := netip.ParseAddr(strings.TrimSpace(request.Header.Get(constants.HeaderXRealIP))); err == nil {
		return realIP.String()
	}

	hops := strings.Split(request.Header.Get(constants.HeaderXForwardedFor), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop, err := netip.ParseAddr(strings.TrimSpace(hops[i]))
		if err != nil {
			break
		}
		if !isTrusted(hop, trusted) || i == 0 {
			return hop.String()
		}
	}
	return peer
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, prefix := range trusted {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func remoteHost(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}

// RealIP returns the address resolved by [ClientIP], or the peer address
// when that middleware has not run.
func RealIP(request *http.Request) string {
	if ip := ctxutil.GetClientIP(request.Context()); ip != "" {
		return ip
	}
	return remoteHost(request)
}
