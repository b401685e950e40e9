package auth

import (
	"context"
	"slices"
)

// RoleAdmin is required to reveal stored data source secrets and to delete
// data sources.
const RoleAdmin = "admin"

// GetUserIDFromContext extracts the user ID from JWT claims in the context.
// Returns empty string if not authenticated or claims are missing.
func GetUserIDFromContext(ctx context.Context) string {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return ""
	}
	return claims.Subject
}

// HasRole reports whether the caller's claims carry role.
func HasRole(ctx context.Context, role string) bool {
	claims, ok := GetClaims(ctx)
	if !ok || claims == nil {
		return false
	}
	return slices.Contains(claims.Roles, role)
}
