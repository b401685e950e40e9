package models

import (
	"encoding/json"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/jsonutil"
)

// DataSourceStatus is the outcome of the most recent connection test.
type DataSourceStatus string

const (
	DataSourceStatusConnected    DataSourceStatus = "connected"
	DataSourceStatusDisconnected DataSourceStatus = "disconnected"
	DataSourceStatusUnknown      DataSourceStatus = "unknown"
)

// LastSyncNever is the lastSync value of a data source that was never tested.
const LastSyncNever = "Never"

// SecretMask replaces non-empty secret values in masked views.
const SecretMask = "••••••••"

// SecretKeys is the fixed set of config keys treated as secrets.
var SecretKeys = []string{"accessToken", "password", "apiToken", "clientSecret", "secret"}

// IsSecretKey reports whether key belongs to SecretKeys.
func IsSecretKey(key string) bool {
	for _, k := range SecretKeys {
		if k == key {
			return true
		}
	}
	return false
}

// SensitiveKeys extends SecretKeys with credentials that are encrypted at
// rest but still shown in list views.
var SensitiveKeys = append([]string{"refreshToken", "developerToken", "serviceAccount", "credentialsBase64", "serviceAccountJson"}, SecretKeys...)

// IsSensitiveKey reports whether key belongs to SensitiveKeys.
func IsSensitiveKey(key string) bool {
	for _, k := range SensitiveKeys {
		if k == key {
			return true
		}
	}
	return false
}

// DataSource is a named, typed set of connection parameters for one provider.
type DataSource struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Type     string           `json:"type"`
	Status   DataSourceStatus `json:"status"`
	LastSync string           `json:"lastSync"`
	Config   ConnectionConfig `json:"config"`
}

// ConnectionConfig holds provider parameters. JSON scalars of any kind are
// accepted and stored as strings so numeric ports and boolean flags posted by
// clients survive the round-trip.
type ConnectionConfig map[string]string

// UnmarshalJSON coerces numbers and booleans into strings and drops nulls.
// Nested objects (e.g. a pasted service account) are kept as JSON text.
func (c *ConnectionConfig) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make(ConnectionConfig, len(raw))
	for k, v := range raw {
		if string(v) == "null" {
			continue
		}
		out[k] = jsonutil.FlexibleStringValue(v)
	}
	*c = out
	return nil
}

// Get returns the value for key, or "" when absent.
func (c ConnectionConfig) Get(key string) string {
	return c[key]
}

// FirstOf returns the first non-empty value among keys.
func (c ConnectionConfig) FirstOf(keys ...string) string {
	for _, k := range keys {
		if v := c[k]; v != "" {
			return v
		}
	}
	return ""
}

// Clone returns an independent copy.
func (c ConnectionConfig) Clone() ConnectionConfig {
	out := make(ConnectionConfig, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Masked returns a copy with every secret key replaced by SecretMask
// (or "" when the secret is empty).
func (c ConnectionConfig) Masked() ConnectionConfig {
	out := c.Clone()
	for k, v := range out {
		if !IsSecretKey(k) {
			continue
		}
		if v == "" {
			out[k] = ""
		} else {
			out[k] = SecretMask
		}
	}
	return out
}

// Masked returns a copy of the data source safe to hand to clients.
func (d *DataSource) Masked() *DataSource {
	cp := *d
	cp.Config = d.Config.Masked()
	return &cp
}

// DataSourcePatch is a partial update. Nil fields are left unchanged;
// Config keys are merged into the existing config.
type DataSourcePatch struct {
	Name     *string           `json:"name,omitempty"`
	Type     *string           `json:"type,omitempty"`
	Status   *DataSourceStatus `json:"status,omitempty"`
	LastSync *string           `json:"lastSync,omitempty"`
	Config   ConnectionConfig  `json:"config,omitempty"`
}

// Apply merges the patch into d.
func (p *DataSourcePatch) Apply(d *DataSource) {
	if p.Name != nil {
		d.Name = *p.Name
	}
	if p.Type != nil {
		d.Type = *p.Type
	}
	if p.Status != nil {
		d.Status = *p.Status
	}
	if p.LastSync != nil {
		d.LastSync = *p.LastSync
	}
	if len(p.Config) == 0 {
		return
	}
	if d.Config == nil {
		d.Config = make(ConnectionConfig, len(p.Config))
	}
	for k, v := range p.Config {
		d.Config[k] = v
	}
}
