package datasource

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/emrahub/metricnex-ecommerce-dashboard/pkg/models"
)

// ProviderInfo identifies a provider whose configuration can be validated.
type ProviderInfo struct {
	Type        string `json:"type"`         // "shopify", "google_ads"
	DisplayName string `json:"display_name"` // "Shopify Store"
	ProbeName   string `json:"probe_name"`   // check name used for the live probe
}

// CheckFunc returns the ordered static checks for a configuration.
// It must not perform I/O.
type CheckFunc func(cfg models.ConnectionConfig) []models.Check

// ProbeFunc performs one minimal read-only call against the provider.
// Failures are reported in the returned check, never as errors.
type ProbeFunc func(ctx context.Context, env ProbeEnv, cfg models.ConnectionConfig) models.Check

// Registration binds a provider type to its checks and optional live probe.
type Registration struct {
	Info   ProviderInfo
	Checks CheckFunc
	Probe  ProbeFunc
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Registration)
)

// Register is called by each provider's init() function.
// Thread-safe for concurrent init() calls.
func Register(reg Registration) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[reg.Info.Type] = reg
}

// RegisteredProviders returns info for all registered providers, sorted by type.
func RegisteredProviders() []ProviderInfo {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]ProviderInfo, 0, len(registry))
	for _, reg := range registry {
		result = append(result, reg.Info)
	}
	slices.SortFunc(result, func(a, b ProviderInfo) int {
		return strings.Compare(a.Type, b.Type)
	})
	return result
}

// IsRegistered checks if a provider type has a rule set.
func IsRegistered(providerType string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := registry[providerType]
	return ok
}

func lookup(providerType string) (Registration, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[providerType]
	return reg, ok
}
