package facebookads

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/probetest"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

func TestChecks(t *testing.T) {
	checks := Checks(models.ConnectionConfig{"accountId": "act_123", "accessToken": "EAAB"})
	assert.True(t, checks[0].OK)
	assert.True(t, checks[1].OK)

	checks = Checks(models.ConnectionConfig{"accountId": "123"})
	assert.Equal(t, models.Check{Name: "Ad Account ID format", Message: "Must start with act_"}, checks[0])
	assert.False(t, checks[1].OK)
}

func TestProbe_RequestShape(t *testing.T) {
	tr := probetest.NewTransport(func(r *http.Request) (*http.Response, error) {
		return probetest.JSON(r, http.StatusOK, `{"name":"Acme Ads","id":"act_123"}`), nil
	})

	check := Probe(context.Background(), tr.Env(), models.ConnectionConfig{"accountId": "act_123", "accessToken": "EAAB+token"})

	assert.Equal(t, models.Check{Name: "Live API call", OK: true, Message: "Facebook Graph API reachable"}, check)
	reqs := tr.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, "graph.facebook.com", reqs[0].URL.Host)
	assert.Equal(t, "/v17.0/act_123", reqs[0].URL.Path)
	assert.Equal(t, "name", reqs[0].URL.Query().Get("fields"))
	assert.Equal(t, "EAAB+token", reqs[0].URL.Query().Get("access_token"))
	assert.Equal(t, datasource.UserAgent, reqs[0].Header.Get("User-Agent"))
}

func TestValidate_TokenNeverLeaks(t *testing.T) {
	tr := probetest.NewTransport(func(r *http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset by peer")
	})
	v := datasource.NewValidator(tr.Env(), zap.NewNop())

	result := v.Validate(context.Background(), ProviderType, models.ConnectionConfig{
		"accountId":   "act_123",
		"accessToken": "EAABsupersecret",
	}, true)

	assert.Equal(t, models.ValidationFailed, result.Status)
	require.Len(t, result.Checks, 3)
	live := result.Checks[2]
	assert.False(t, live.OK)
	assert.Contains(t, live.Message, "connection reset by peer")
	assert.NotContains(t, live.Message, "EAABsupersecret")
}
