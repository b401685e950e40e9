package datasource

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// UserAgent identifies outbound probe requests.
const UserAgent = "metricnex-dashboard/live-test"

// maxDrainBytes bounds how much of a probe response body is read.
const maxDrainBytes = 64 << 10

// HTTPProbe sends req with env's client and passes on any 2xx status.
// Non-2xx responses fail with "HTTP <code>".
func HTTPProbe(env ProbeEnv, req *http.Request, name, okMessage string) models.Check {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", UserAgent)
	}

	resp, err := env.HTTPClient.Do(req)
	if err != nil {
		return ProbeFailed(name, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.Check{Name: name, Message: fmt.Sprintf("HTTP %d", resp.StatusCode)}
	}
	return models.Check{Name: name, OK: true, Message: okMessage}
}

// TCPProbe dials host:port within env.TCPTimeout.
func TCPProbe(ctx context.Context, env ProbeEnv, host string, port int) models.Check {
	const name = "TCP connect"

	ctx, cancel := context.WithTimeout(ctx, env.TCPTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		if ctx.Err() != nil {
			return models.Check{Name: name, Message: "Timeout"}
		}
		return ProbeFailed(name, err)
	}
	_ = conn.Close()
	return models.Check{Name: name, OK: true, Message: "Port reachable"}
}

// SQLTimeout is the bound applied to relational live queries.
func SQLTimeout(env ProbeEnv) time.Duration {
	if env.TCPTimeout > 0 {
		return env.TCPTimeout
	}
	return DefaultTCPProbeTimeout
}

// withHTTPClient makes oauth2 token exchanges use env's client.
func withHTTPClient(ctx context.Context, env ProbeEnv) context.Context {
	return context.WithValue(ctx, oauth2.HTTPClient, env.HTTPClient)
}

// GoogleRefreshTokenClient returns an HTTP client that authorizes requests
// with an access token minted from a stored OAuth refresh token.
func GoogleRefreshTokenClient(ctx context.Context, env ProbeEnv, cfg models.ConnectionConfig, scopes ...string) *http.Client {
	conf := &oauth2.Config{
		ClientID:     cfg.Get("clientId"),
		ClientSecret: cfg.Get("clientSecret"),
		Endpoint:     google.Endpoint,
		Scopes:       scopes,
	}
	ctx = withHTTPClient(ctx, env)
	return oauth2.NewClient(ctx, conf.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.Get("refreshToken")}))
}

// GoogleServiceAccountClient returns an HTTP client authorized as the service
// account described by credentialsJSON.
func GoogleServiceAccountClient(ctx context.Context, env ProbeEnv, credentialsJSON []byte, scopes ...string) (*http.Client, error) {
	jwtConf, err := google.JWTConfigFromJSON(credentialsJSON, scopes...)
	if err != nil {
		return nil, fmt.Errorf("invalid service account: %w", err)
	}
	return jwtConf.Client(withHTTPClient(ctx, env)), nil
}
