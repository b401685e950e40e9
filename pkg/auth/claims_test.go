package auth

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
)

func TestGetClaims(t *testing.T) {
	if _, ok := GetClaims(context.Background()); ok {
		t.Fatal("expected no claims in empty context")
	}

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1"}, Email: "a@example.com"}
	ctx := WithClaims(context.Background(), claims, "raw-token")

	got, ok := GetClaims(ctx)
	if !ok || got != claims {
		t.Fatalf("expected stored claims, got %v", got)
	}

	token, ok := GetToken(ctx)
	if !ok || token != "raw-token" {
		t.Errorf("expected raw-token, got %q", token)
	}
}
