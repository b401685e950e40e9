// Package providers holds the static catalog of supported data-source
// provider types and the configuration fields each one expects.
package providers

import (
	_ "embed"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"
)

// FieldType tells clients which input control renders a field.
type FieldType string

const (
	FieldText     FieldType = "text"
	FieldTextarea FieldType = "textarea"
	FieldPassword FieldType = "password"
	FieldNumber   FieldType = "number"
	FieldBoolean  FieldType = "boolean"
)

// Field describes one configuration key of a provider.
type Field struct {
	Key         string    `yaml:"key" json:"key"`
	Label       string    `yaml:"label" json:"label"`
	Type        FieldType `yaml:"type" json:"type"`
	Required    bool      `yaml:"required" json:"required"`
	Placeholder string    `yaml:"placeholder" json:"placeholder,omitempty"`
	HelpText    string    `yaml:"helpText" json:"helpText,omitempty"`
}

// Provider is a third-party data source type.
type Provider struct {
	ID       string  `yaml:"id" json:"id"`
	Name     string  `yaml:"name" json:"name"`
	Category string  `yaml:"category" json:"category"`
	Fields   []Field `yaml:"fields" json:"fields"`
}

// RequiredKeys returns the keys of all required fields in catalog order.
func (p Provider) RequiredKeys() []string {
	var keys []string
	for _, f := range p.Fields {
		if f.Required {
			keys = append(keys, f.Key)
		}
	}
	return keys
}

// Field returns the field with the given key.
func (p Provider) Field(key string) (Field, bool) {
	for _, f := range p.Fields {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

//go:embed catalog.yaml
var catalogYAML []byte

var loadCatalog = sync.OnceValues(func() ([]Provider, error) {
	return parse(catalogYAML)
})

func parse(data []byte) ([]Provider, error) {
	var doc struct {
		Providers []Provider `yaml:"providers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse provider catalog: %w", err)
	}

	seen := make(map[string]bool, len(doc.Providers))
	for _, p := range doc.Providers {
		if p.ID == "" {
			return nil, fmt.Errorf("provider catalog: entry %q has no id", p.Name)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("provider catalog: duplicate id %q", p.ID)
		}
		seen[p.ID] = true
	}
	return doc.Providers, nil
}

// Catalog returns every known provider in catalog order. The returned slice
// is a copy and may be modified by the caller.
func Catalog() []Provider {
	list, err := loadCatalog()
	if err != nil {
		// The catalog is compiled in; a parse failure is a build defect.
		panic(err)
	}
	return slices.Clone(list)
}

// Lookup returns the provider registered under id.
func Lookup(id string) (Provider, bool) {
	for _, p := range Catalog() {
		if p.ID == id {
			return p, true
		}
	}
	return Provider{}, false
}

// IDs returns the identifiers of every known provider.
func IDs() []string {
	list := Catalog()
	ids := make([]string, len(list))
	for i, p := range list {
		ids[i] = p.ID
	}
	return ids
}

// Known reports whether id names a catalogued provider.
func Known(id string) bool {
	_, ok := Lookup(id)
	return ok
}
