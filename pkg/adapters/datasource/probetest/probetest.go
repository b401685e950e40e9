// Package probetest provides fakes for exercising live probes without network access.
package probetest

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
)

// GoogleTokenURL is the token endpoint answered by Transport.
const GoogleTokenURL = "https://oauth2.googleapis.com/token"

// Handler answers one intercepted request.
type Handler func(r *http.Request) (*http.Response, error)

// Transport routes requests to a handler and records them. OAuth token
// exchanges against GoogleTokenURL are answered automatically.
type Transport struct {
	mu       sync.Mutex
	handler  Handler
	requests []*http.Request
}

// NewTransport returns a Transport that answers API calls with h.
func NewTransport(h Handler) *Transport {
	return &Transport{handler: h}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.URL.String() == GoogleTokenURL {
		return JSON(r, http.StatusOK, `{"access_token":"ya29.fake-access","token_type":"Bearer","expires_in":3600}`), nil
	}

	t.mu.Lock()
	t.requests = append(t.requests, r)
	t.mu.Unlock()
	return t.handler(r)
}

// Requests returns the non-token requests seen so far.
func (t *Transport) Requests() []*http.Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*http.Request(nil), t.requests...)
}

// Env returns a ProbeEnv whose HTTP client uses t.
func (t *Transport) Env() datasource.ProbeEnv {
	return datasource.ProbeEnv{
		HTTPClient: &http.Client{Transport: t},
		Timeout:    5 * time.Second,
		TCPTimeout: time.Second,
	}
}

// JSON builds a response with a JSON body.
func JSON(r *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Status:     http.StatusText(status),
		Header:     http.Header{"Content-Type": {"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    r,
	}
}

// ServiceAccountJSON returns a syntactically valid service account key with a
// freshly generated RSA key and GoogleTokenURL as its token endpoint.
func ServiceAccountJSON(t *testing.T) string {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(key)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der})

	b, err := json.Marshal(map[string]string{
		"type":           "service_account",
		"project_id":     "metricnex-test",
		"private_key_id": "test-key",
		"private_key":    string(pemKey),
		"client_email":   "reporter@metricnex-test.iam.gserviceaccount.com",
		"token_uri":      GoogleTokenURL,
	})
	if err != nil {
		t.Fatalf("marshal service account: %v", err)
	}
	return string(b)
}
