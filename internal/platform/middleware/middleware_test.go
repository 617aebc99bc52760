// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/internal/platform/ctxutil"
	"github.com/taibuivan/churchos/internal/platform/middleware"
	"github.com/taibuivan/churchos/internal/platform/sec"
)

// stubVerifier accepts exactly one token string.
type stubVerifier struct {
	token  string
	claims *sec.AuthClaims
}

func (v stubVerifier) VerifyToken(tokenStr string) (*sec.AuthClaims, error) {
	if tokenStr != v.token {
		return nil, errors.New("bad token")
	}
	return v.claims, nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})
}

func errorCode(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body.Code
}

/*
TestRequestID verifies that an incoming ID is echoed and a missing one is minted.
*/
func TestRequestID(t *testing.T) {
	var seen string
	handler := middleware.RequestID()(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		seen = ctxutil.GetRequestID(request.Context())
	}))

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("X-Request-ID", "abc-123")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", recorder.Header().Get("X-Request-ID"))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, seen)
	assert.NotEqual(t, "abc-123", seen)
}

/*
TestAuthenticate covers anonymous, malformed, rejected and accepted credentials.
*/
func TestAuthenticate(t *testing.T) {
	verifier := stubVerifier{
		token: "good",
		claims: &sec.AuthClaims{
			UserID:      "u-1",
			Name:        "Prophet Sarah",
			Role:        "Apostle",
			Permissions: []string{"start_livestreams"},
		},
	}

	var principal access.User
	var authenticated bool
	handler := middleware.Authenticate(verifier)(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal, authenticated = ctxutil.GetPrincipal(request.Context())
		writer.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantAuth   bool
	}{
		{"anonymous", "", http.StatusOK, false},
		{"wrong_scheme", "Basic good", http.StatusUnauthorized, false},
		{"bad_token", "Bearer nope", http.StatusUnauthorized, false},
		{"valid_token", "Bearer good", http.StatusOK, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authenticated = false
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				request.Header.Set("Authorization", tt.header)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantAuth, authenticated)
		})
	}

	assert.Equal(t, access.RoleApostle, principal.Role)
	assert.True(t, principal.Permissions.Has(access.PermStartLivestreams))
}

/*
TestAuthenticate_UnknownRole verifies that a token with an unrecognized role is refused.
*/
func TestAuthenticate_UnknownRole(t *testing.T) {
	verifier := stubVerifier{token: "t", claims: &sec.AuthClaims{UserID: "u", Role: "Bishop"}}
	handler := middleware.Authenticate(verifier)(okHandler())

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer t")
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, recorder))
}

func withPrincipal(request *http.Request, user access.User) *http.Request {
	return request.WithContext(ctxutil.WithPrincipal(request.Context(), user))
}

/*
TestRequirePermission verifies the 401/403/200 ladder.
*/
func TestRequirePermission(t *testing.T) {
	handler := middleware.RequirePermission(access.PermManageUsers)(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, withPrincipal(httptest.NewRequest(http.MethodGet, "/", nil),
		access.User{Role: access.RoleNationSeer}))
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "FORBIDDEN", errorCode(t, recorder))

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, withPrincipal(httptest.NewRequest(http.MethodGet, "/", nil),
		access.User{Role: access.RoleDeacon, Permissions: access.NewSet("manage_users")}))
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestRequireRole verifies the hierarchy comparison.
*/
func TestRequireRole(t *testing.T) {
	handler := middleware.RequireRole(access.RoleElder)(okHandler())

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, withPrincipal(httptest.NewRequest(http.MethodGet, "/", nil),
		access.User{Role: access.RoleDeacon}))
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	recorder = httptest.NewRecorder()
	handler.ServeHTTP(recorder, withPrincipal(httptest.NewRequest(http.MethodGet, "/", nil),
		access.User{Role: access.RoleApostle}))
	assert.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	middleware.RequireAuth(okHandler()).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestRateLimit verifies that requests beyond the burst are rejected with Retry-After.
*/
func TestRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.RateLimit(ctx, 1, 2)(okHandler())

	codes := make([]int, 0, 3)
	for range 3 {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "10.0.0.7:4000"
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
		if recorder.Code == http.StatusTooManyRequests {
			assert.Equal(t, "1", recorder.Header().Get("Retry-After"))
			assert.Equal(t, "RATE_LIMITED", errorCode(t, recorder))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	// A different client has its own bucket.
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "10.0.0.8:4000"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	assert.Equal(t, http.StatusOK, recorder.Code)
}

/*
TestPanicRecovery verifies a panicking handler produces a 500 envelope.
*/
func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Equal(t, "INTERNAL_ERROR", errorCode(t, recorder))
}

type corsConfig struct{ development bool }

func (c corsConfig) IsDevelopment() bool      { return c.development }
func (c corsConfig) AllowedOrigins() []string { return []string{"https://partner.example"} }

/*
TestCORS checks the production origin policy.
*/
func TestCORS(t *testing.T) {
	handler := middleware.CORS(corsConfig{})(okHandler())

	tests := []struct {
		origin  string
		allowed bool
	}{
		{"https://churchos.app", true},
		{"https://preview.churchos.app", true},
		{"https://partner.example", true},
		{"https://evil.example", false},
		{"https://evilchurchos.app", false},
	}

	for _, tt := range tests {
		t.Run(tt.origin, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.Header.Set("Origin", tt.origin)
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			if tt.allowed {
				assert.Equal(t, tt.origin, recorder.Header().Get("Access-Control-Allow-Origin"))
			} else {
				assert.Empty(t, recorder.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

/*
TestClientIP verifies forwarding headers only count behind a trusted proxy.
*/
func TestClientIP(t *testing.T) {
	trusted := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name         string
		remoteAddr   string
		realIP       string
		forwardedFor string
		want         string
	}{
		{"direct_no_headers", "192.0.2.1:5555", "", "", "192.0.2.1"},
		{"direct_spoofed_real_ip", "192.0.2.1:5555", "198.51.100.4", "", "192.0.2.1"},
		{"direct_spoofed_forwarded", "192.0.2.1:5555", "", "203.0.113.9", "192.0.2.1"},
		{"proxy_real_ip", "10.1.2.3:443", "198.51.100.4", "203.0.113.9", "198.51.100.4"},
		{"proxy_forwarded_rightmost_untrusted", "10.1.2.3:443", "", "6.6.6.6, 203.0.113.9, 10.0.0.5", "203.0.113.9"},
		{"proxy_all_hops_trusted", "10.1.2.3:443", "", "10.9.9.9, 10.0.0.5", "10.9.9.9"},
		{"proxy_garbage_headers", "10.1.2.3:443", "not-an-ip", "also-not", "10.1.2.3"},
		{"proxy_no_headers", "10.1.2.3:443", "", "", "10.1.2.3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.ClientIP(trusted)(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
				seen = middleware.RealIP(request)
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			request.RemoteAddr = tt.remoteAddr
			if tt.realIP != "" {
				request.Header.Set("X-Real-IP", tt.realIP)
			}
			if tt.forwardedFor != "" {
				request.Header.Set("X-Forwarded-For", tt.forwardedFor)
			}

			handler.ServeHTTP(httptest.NewRecorder(), request)
			assert.Equal(t, tt.want, seen)
		})
	}
}

/*
TestRealIP_WithoutResolver verifies the peer address is used when nothing was resolved.
*/
func TestRealIP_WithoutResolver(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "192.0.2.1:5555"
	request.Header.Set("X-Real-IP", "198.51.100.4")
	assert.Equal(t, "192.0.2.1", middleware.RealIP(request))
}

/*
TestRateLimit_SpoofedHeadersShareBucket verifies a direct client cannot rotate
forwarding headers to get fresh buckets.
*/
func TestRateLimit_SpoofedHeadersShareBucket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler := middleware.ClientIP(nil)(middleware.RateLimit(ctx, 1, 1)(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})))

	var codes []int
	for _, spoofed := range []string{"198.51.100.1", "198.51.100.2"} {
		request := httptest.NewRequest(http.MethodGet, "/", nil)
		request.RemoteAddr = "192.0.2.50:4000"
		request.Header.Set("X-Forwarded-For", spoofed)
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, request)
		codes = append(codes, recorder.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
