package merchantcenter

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/adapters/datasource/probetest"
	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

func TestChecks(t *testing.T) {
	checks := Checks(models.ConnectionConfig{"merchantId": "12a"})
	require.Len(t, checks, 4)
	assert.Equal(t, models.Check{Name: "Merchant ID", Message: "Numeric Merchant ID"}, checks[0])

	checks = Checks(models.ConnectionConfig{
		"merchantId": "1234567", "clientId": "id", "clientSecret": "s", "refreshToken": "r",
	})
	for _, c := range checks {
		assert.True(t, c.OK, c.Name)
	}
}

func TestProbe(t *testing.T) {
	tr := probetest.NewTransport(func(r *http.Request) (*http.Response, error) {
		return probetest.JSON(r, http.StatusOK, `{"id":"1234567","name":"Acme"}`), nil
	})

	check := Probe(context.Background(), tr.Env(), models.ConnectionConfig{
		"merchantId": "1234567", "clientId": "id", "clientSecret": "s", "refreshToken": "r",
	})

	assert.Equal(t, models.Check{Name: "Live API call", OK: true, Message: "Merchant accessible"}, check)
	reqs := tr.Requests()
	require.Len(t, reqs, 1)
	assert.True(t, strings.HasSuffix(reqs[0].URL.Path, "/1234567/accounts/1234567"), reqs[0].URL.Path)
}

func TestProbe_NotFound(t *testing.T) {
	tr := probetest.NewTransport(func(r *http.Request) (*http.Response, error) {
		return probetest.JSON(r, http.StatusNotFound, `{"error":{"code":404,"message":"Merchant not found"}}`), nil
	})

	check := Probe(context.Background(), tr.Env(), models.ConnectionConfig{
		"merchantId": "1234567", "clientId": "id", "clientSecret": "s", "refreshToken": "r",
	})

	assert.False(t, check.OK)
	assert.Contains(t, check.Message, "Merchant not found")
}
