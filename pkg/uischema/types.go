package uischema

import (
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-autoform/pkg/dependency"
)

// FieldConfigItem overrides what the resolver derives from the schema for
// one field. Zero values mean "derive from the schema".
type FieldConfigItem struct {
	Label        string         `json:"label,omitempty" yaml:"label,omitempty"`
	Description  string         `json:"description,omitempty" yaml:"description,omitempty"`
	InputProps   map[string]any `json:"inputProps,omitempty" yaml:"inputProps,omitempty"`
	DefaultValue any            `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	Renderer     string         `json:"renderer,omitempty" yaml:"renderer,omitempty"`
	Required     *bool          `json:"required,omitempty" yaml:"required,omitempty"`
	Disabled     bool           `json:"disabled,omitempty" yaml:"disabled,omitempty"`
	Order        *int           `json:"order,omitempty" yaml:"order,omitempty"`
}

// RequiredOverride reports whether the item forces the field required,
// either directly or through inputProps.required.
func (c FieldConfigItem) RequiredOverride() bool {
	if c.Required != nil && *c.Required {
		return true
	}
	return truthyProp(c.InputProps, "required")
}

// ResolveRequired merges the schema verdict with the item. An explicit
// required: false relaxes a schema-required field.
func (c FieldConfigItem) ResolveRequired(schemaRequired bool) bool {
	if c.RequiredOverride() {
		return true
	}
	if c.Required != nil {
		return false
	}
	return schemaRequired
}

// DisabledOverride reports whether the item disables the field.
func (c FieldConfigItem) DisabledOverride() bool {
	return c.Disabled || truthyProp(c.InputProps, "disabled")
}

// Default returns the configured default, preferring DefaultValue over
// inputProps.defaultValue.
func (c FieldConfigItem) Default() (any, bool) {
	if c.DefaultValue != nil {
		return c.DefaultValue, true
	}
	if value, ok := c.InputProps["defaultValue"]; ok && value != nil {
		return value, true
	}
	return nil, false
}

func truthyProp(props map[string]any, key string) bool {
	switch v := props[key].(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	default:
		return false
	}
}

// FieldConfig maps field names to overrides. Keys are matched against a
// field path in this order: the full dotted path, the path with numeric
// segments replaced by "*", then the terminal name.
type FieldConfig map[string]FieldConfigItem

// Lookup finds the item for path.
func (c FieldConfig) Lookup(path []string) (FieldConfigItem, bool) {
	if len(c) == 0 || len(path) == 0 {
		return FieldConfigItem{}, false
	}
	if item, ok := c[strings.Join(path, ".")]; ok {
		return item, true
	}
	if wildcard := NormalizeFieldPath(strings.Join(path, ".")); wildcard != "" {
		if item, ok := c[wildcard]; ok {
			return item, true
		}
	}
	item, ok := c[path[len(path)-1]]
	return item, ok
}

// Clone returns a deep enough copy for callers to mutate maps safely.
func (c FieldConfig) Clone() FieldConfig {
	if c == nil {
		return nil
	}
	out := make(FieldConfig, len(c))
	for key, item := range c {
		cloned := item
		if len(item.InputProps) > 0 {
			cloned.InputProps = make(map[string]any, len(item.InputProps))
			for k, v := range item.InputProps {
				cloned.InputProps[k] = v
			}
		}
		out[key] = cloned
	}
	return out
}

// Keys returns the configured keys sorted.
func (c FieldConfig) Keys() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// NormalizeFieldPath trims segments and replaces array indices with "*"
// so "items.0.name" and "items[2].name" both become "items.*.name".
func NormalizeFieldPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")
	parts := strings.Split(path, ".")
	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, err := strconv.Atoi(part); err == nil {
			part = dependency.Wildcard
		}
		out = append(out, part)
	}
	return strings.Join(out, ".")
}

// Form is the UI configuration for one form.
type Form struct {
	ID           string
	Source       string
	Title        string
	Description  string
	SubmitLabel  string
	Fields       FieldConfig
	Dependencies []dependency.Dependency
}

// Store holds every form loaded from a filesystem.
type Store struct {
	forms map[string]Form
}
