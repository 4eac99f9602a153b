// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives, roles and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (hashing, token signing) from
// the domain logic. Tokens are HS256-signed with a shared secret and carry the
// subject's user id; the embedded role is informational only.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrSigningSecretMissing signals a deployment without JWT_SECRET.
	ErrSigningSecretMissing = errors.New("sec: signing secret is not configured")

	// ErrInvalidToken covers bad signatures, expiry and malformed payloads.
	ErrInvalidToken = errors.New("sec: invalid token")
)

// AuthClaims represents the payload embedded inside a bearer token.
type AuthClaims struct {
	jwt.RegisteredClaims

	UserID string `json:"userId"`
	Role   string `json:"role,omitempty"`
}

// TokenService issues and verifies HS256 bearer tokens.
type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a new TokenService. An empty secret is accepted so
// the server can boot; every Issue/Verify call then fails with
// [ErrSigningSecretMissing].
func NewTokenService(secret, issuer string, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Configured reports whether a signing secret is present.
func (service *TokenService) Configured() bool {
	return len(service.secret) > 0
}

// Issue mints a signed token for userID with the role snapshot at login time.
func (service *TokenService) Issue(userID string, role Role) (string, error) {
	if !service.Configured() {
		return "", ErrSigningSecretMissing
	}

	currentTime := service.now()
	claims := AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    service.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(service.ttl)),
		},
		UserID: userID,
		Role:   string(role),
	}

	signedToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(service.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// VerifyToken checks the signature and expiry of tokenString and returns its claims.
func (service *TokenService) VerifyToken(tokenString string) (*AuthClaims, error) {
	if !service.Configured() {
		return nil, ErrSigningSecretMissing
	}

	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return service.secret, nil
	}, jwt.WithTimeFunc(service.now), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Tokens minted before the userId claim existed still carry sub.
	if claims.UserID == "" {
		claims.UserID = claims.Subject
	}
	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	return claims, nil
}
