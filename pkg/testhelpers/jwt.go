// Package testhelpers provides utilities for testing dashboard components.
package testhelpers

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TestJWTSecret is the HS256 secret used by handler tests.
const TestJWTSecret = "test-jwt-secret"

// GenerateTestJWT creates an HS256 token signed with secret and carrying
// roles. The token expires one hour after issue.
func GenerateTestJWT(secret, sub, email, issuer string, roles ...string) string {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": sub,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}
	if email != "" {
		claims["email"] = email
	}
	if issuer != "" {
		claims["iss"] = issuer
	}
	if len(roles) > 0 {
		claims["roles"] = roles
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		panic(err)
	}
	return signed
}

// GenerateTestJWTWithBearer returns token with "Bearer " prefix for Authorization header.
func GenerateTestJWTWithBearer(secret, sub, email, issuer string, roles ...string) string {
	return "Bearer " + GenerateTestJWT(secret, sub, email, issuer, roles...)
}
