// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strings"

	"github.com/taibuivan/churchos/internal/access"
	"github.com/taibuivan/churchos/internal/platform/apperr"
	"github.com/taibuivan/churchos/internal/platform/ctxutil"
	"github.com/taibuivan/churchos/internal/platform/respond"
	"github.com/taibuivan/churchos/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify tokens in middleware.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (*sec.AuthClaims, error)
}

// Authenticate extracts and verifies the JWT from the Authorization header.
//
// # Flow
//  1. No 'Authorization' header: the request proceeds as anonymous.
//  2. Malformed header, bad signature or unknown role: 401.
//  3. Otherwise the claims and the resolved [access.User] are put in the context.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			scheme, tokenStr, found := strings.Cut(authHeader, " ")
			if !found || !strings.EqualFold(scheme, "bearer") || tokenStr == "" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Token Verification ─────────────────────────────────────────
			claims, err := verifier.VerifyToken(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			user, err := claims.User()
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Token carries an unknown role"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			if holder := identityFrom(request.Context()); holder != nil {
				holder.userID = claims.UserID
				holder.role = user.Role.String()
			}

			ctx := ctxutil.WithAuthUser(request.Context(), claims)
			ctx = ctxutil.WithPrincipal(ctx, user)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if _, ok := ctxutil.GetPrincipal(request.Context()); !ok {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose principal sits below role in the hierarchy.
// It implies [RequireAuth].
func RequireRole(role access.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user, ok := ctxutil.GetPrincipal(request.Context())
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !user.Role.AtLeast(role) {
				respond.Error(writer, request, apperr.Forbidden("Insufficient role"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}

// RequirePermission blocks requests whose principal does not hold permission.
// It implies [RequireAuth].
func RequirePermission(permission access.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			user, ok := ctxutil.GetPrincipal(request.Context())
			if !ok {
				respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
				return
			}

			if !user.Permissions.Has(permission) {
				respond.Error(writer, request, apperr.Forbidden("Missing permission "+string(permission)))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
