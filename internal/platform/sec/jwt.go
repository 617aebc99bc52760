// Copyright (c) 2026 ChurchOS. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (JWT verification)
// from the domain logic. Identity itself is owned by the external identity
// provider; the API only verifies the RS256 access tokens it issues and turns
// their claims into an [access.User].
package sec

import (
	"crypto/rsa"
	"fmt"
	"os"

	"github.com/golang-jwt/jwt/v5"

	"github.com/taibuivan/churchos/internal/access"
)

// AuthClaims represents the payload embedded inside a JWT Access Token.
//
// # Why custom claims?
//
// Role and permissions travel inside the token so that the navigation filter
// can run WITHOUT querying the member directory on every request.
type AuthClaims struct {
	jwt.RegisteredClaims

	// Custom application claims are abbreviated to keep the JWT payload small.
	UserID      string   `json:"uid"`
	Name        string   `json:"unm"`
	Role        string   `json:"rol"`
	Permissions []string `json:"prm,omitempty"`
}

// User converts the claims into the subject of an access decision.
//
// Unknown role names are rejected here so the access filter only ever sees
// valid roles. Permission names are taken as-is; names outside the catalog
// simply never match a navigation item.
func (claims *AuthClaims) User() (access.User, error) {
	role, err := access.ParseRole(claims.Role)
	if err != nil {
		return access.User{}, err
	}
	return access.User{
		Name:        claims.Name,
		Role:        role,
		Permissions: access.NewSet(claims.Permissions...),
	}, nil
}

// TokenService verifies RS256 access tokens minted by the identity provider.
type TokenService struct {
	publicKey *rsa.PublicKey
	issuer    string
}

// NewTokenService creates a verify-only TokenService.
// It reads the RSA public key from the provided filesystem path.
func NewTokenService(publicKeyPath, issuer string) (*TokenService, error) {
	publicKeyData, err := os.ReadFile(publicKeyPath)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to read public key from %s: %w", publicKeyPath, err)
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(publicKeyData)
	if err != nil {
		return nil, fmt.Errorf("auth: failed to parse public key: %w", err)
	}

	return NewVerifier(publicKey, issuer), nil
}

// NewVerifier creates a TokenService from an already parsed public key.
func NewVerifier(publicKey *rsa.PublicKey, issuer string) *TokenService {
	return &TokenService{publicKey: publicKey, issuer: issuer}
}

// VerifyToken checks the signature, issuer and validity of a JWT string.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
		}
		return service.publicKey, nil
	}, jwt.WithIssuer(service.issuer), jwt.WithExpirationRequired())

	if err != nil {
		return nil, fmt.Errorf("auth: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("auth: invalid token claims")
	}

	return claims, nil
}
