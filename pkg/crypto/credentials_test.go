package crypto

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"
)

// openssl rand -base64 32
const testKey = "dGVzdC1rZXktZm9yLXVuaXQtdGVzdHMtMzItYnl0ZXM="

func TestNewSecretBox(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr bool
	}{
		{name: "32-byte base64 key", key: testKey},
		{name: "passphrase", key: "local-dev-passphrase"},
		{name: "short base64 key is hashed", key: base64.StdEncoding.EncodeToString([]byte("sixteen-byte-key"))},
		{name: "empty key", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box, err := NewSecretBox(tt.key)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidKey) {
					t.Fatalf("expected ErrInvalidKey, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if box == nil {
				t.Fatal("expected non-nil SecretBox")
			}
		})
	}
}

func TestSecretBox_SealOpen(t *testing.T) {
	box, err := NewSecretBox(testKey)
	if err != nil {
		t.Fatalf("NewSecretBox: %v", err)
	}

	sealed, err := box.Seal("shpat_0123456789abcdef")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if !strings.HasPrefix(sealed, SealedPrefix) {
		t.Errorf("sealed value %q missing prefix", sealed)
	}
	if strings.Contains(sealed, "shpat_") {
		t.Error("sealed value leaks plaintext")
	}

	opened, err := box.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != "shpat_0123456789abcdef" {
		t.Errorf("Open() = %q", opened)
	}
}

func TestSecretBox_SealIsIdempotent(t *testing.T) {
	box, _ := NewSecretBox(testKey)

	first, _ := box.Seal("token")
	second, err := box.Seal(first)
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if first != second {
		t.Error("sealing a sealed value must not double-encrypt")
	}
}

func TestSecretBox_EmptyAndPlainValuesPassThrough(t *testing.T) {
	box, _ := NewSecretBox(testKey)

	if got, _ := box.Seal(""); got != "" {
		t.Errorf("Seal(\"\") = %q", got)
	}
	if got, _ := box.Open("legacy-plaintext"); got != "legacy-plaintext" {
		t.Errorf("Open(plain) = %q", got)
	}
}

func TestSecretBox_WrongKey(t *testing.T) {
	box1, _ := NewSecretBox(testKey)
	box2, _ := NewSecretBox("another-passphrase")

	sealed, _ := box1.Seal("password123")
	if _, err := box2.Open(sealed); !errors.Is(err, ErrDecryptionFailed) {
		t.Errorf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestSecretBox_CorruptPayload(t *testing.T) {
	box, _ := NewSecretBox(testKey)

	for _, v := range []string{SealedPrefix + "!!!not-base64", SealedPrefix + "c2hvcnQ="} {
		if _, err := box.Open(v); !errors.Is(err, ErrDecryptionFailed) {
			t.Errorf("Open(%q): expected ErrDecryptionFailed, got %v", v, err)
		}
	}
}
