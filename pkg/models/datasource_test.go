package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionConfig_Masked(t *testing.T) {
	cfg := ConnectionConfig{
		"shopDomain":  "acme.myshopify.com",
		"accessToken": "shpat_123",
		"password":    "",
		"apiToken":    "tok",
		"host":        "db.local",
	}

	masked := cfg.Masked()

	assert.Equal(t, SecretMask, masked["accessToken"])
	assert.Equal(t, "", masked["password"], "empty secrets mask to empty string")
	assert.Equal(t, SecretMask, masked["apiToken"])
	assert.Equal(t, "acme.myshopify.com", masked["shopDomain"])
	assert.Equal(t, "db.local", masked["host"])
	assert.Equal(t, "shpat_123", cfg["accessToken"], "original must be untouched")
}

func TestConnectionConfig_UnmarshalCoercesScalars(t *testing.T) {
	var cfg ConnectionConfig
	err := json.Unmarshal([]byte(`{"host":"db","port":5432,"ssl":true,"ratio":1.5,"gone":null,"sa":{"client_email":"x@y"}}`), &cfg)
	require.NoError(t, err)

	assert.Equal(t, "db", cfg["host"])
	assert.Equal(t, "5432", cfg["port"])
	assert.Equal(t, "true", cfg["ssl"])
	assert.Equal(t, "1.5", cfg["ratio"])
	assert.NotContains(t, cfg, "gone")
	assert.JSONEq(t, `{"client_email":"x@y"}`, cfg["sa"])
}

func TestConnectionConfig_FirstOf(t *testing.T) {
	cfg := ConnectionConfig{"credentialsBase64": "abc", "serviceAccountJson": "{}"}
	assert.Equal(t, "abc", cfg.FirstOf("apiToken", "credentialsBase64", "serviceAccountJson"))
	assert.Equal(t, "", cfg.FirstOf("missing"))
}

func TestDataSource_Masked(t *testing.T) {
	ds := &DataSource{ID: "ds_1", Name: "Shop", Type: "shopify", Config: ConnectionConfig{"accessToken": "secret"}}

	masked := ds.Masked()

	assert.Equal(t, SecretMask, masked.Config["accessToken"])
	assert.Equal(t, "secret", ds.Config["accessToken"])
	assert.Equal(t, "ds_1", masked.ID)
}

func TestExportFormat_Extension(t *testing.T) {
	assert.Equal(t, "xlsx", ExportFormatExcel.Extension())
	assert.Equal(t, "pdf", ExportFormatPDF.Extension())
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", ExportFormatExcel.ContentType())
}
