package postgres

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

func TestFromMap(t *testing.T) {
	cfg := FromMap(models.ConnectionConfig{
		"host":     " db.internal ",
		"port":     "6543",
		"user":     "report",
		"password": " spaced ",
		"database": "shop",
		"ssl":      "TRUE",
	})

	assert.Equal(t, "db.internal", cfg.Host)
	assert.Equal(t, 6543, cfg.Port)
	assert.Equal(t, "report", cfg.User)
	assert.Equal(t, " spaced ", cfg.Password, "passwords are never trimmed")
	assert.Equal(t, "shop", cfg.Database)
	assert.Equal(t, "require", cfg.SSLMode)
}

func TestFromMap_Defaults(t *testing.T) {
	cfg := FromMap(models.ConnectionConfig{"host": "h"})
	assert.Equal(t, DefaultPort(), cfg.Port)
	assert.Equal(t, DefaultSSLMode(), cfg.SSLMode)

	cfg = FromMap(models.ConnectionConfig{"port": "not-a-port", "ssl": "false"})
	assert.Equal(t, DefaultPort(), cfg.Port)
	assert.Equal(t, "disable", cfg.SSLMode)
}

func TestBuildConnectionString_EscapesCredentials(t *testing.T) {
	connStr := buildConnectionString(&Config{
		Host:     "db.example.com",
		Port:     5432,
		User:     "user@corp",
		Password: "p@ss/w#rd?",
		Database: "shop",
		SSLMode:  "require",
	})

	u, err := url.Parse(connStr)
	require.NoError(t, err)
	assert.Equal(t, "db.example.com:5432", u.Host)
	assert.Equal(t, "user@corp", u.User.Username())
	pass, _ := u.User.Password()
	assert.Equal(t, "p@ss/w#rd?", pass)
	assert.Equal(t, "require", u.Query().Get("sslmode"))
}

func TestChecks(t *testing.T) {
	checks := Checks(models.ConnectionConfig{"host": "h", "database": "d", "user": "u", "password": "p"})
	require.Len(t, checks, 5)
	for _, c := range checks {
		assert.True(t, c.OK, c.Name)
	}

	checks = Checks(models.ConnectionConfig{"host": "h", "port": "abc"})
	assert.False(t, checks[1].OK)
	assert.Equal(t, "Port numeric", checks[1].Name)
}
