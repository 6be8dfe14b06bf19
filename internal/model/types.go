package model

import (
	"strconv"
	"strings"
)

// Path locates a value in the form value tree. Segments are object keys or
// decimal array indices; the root path is empty.
type Path []string

// ParsePath splits a dotted path. Bracketed indices ("items[0]") are
// accepted.
func ParsePath(raw string) Path {
	raw = strings.TrimSpace(raw)
	raw = strings.ReplaceAll(raw, "[", ".")
	raw = strings.ReplaceAll(raw, "]", "")
	if raw == "" {
		return nil
	}
	var out Path
	for _, segment := range strings.Split(raw, ".") {
		if segment = strings.TrimSpace(segment); segment != "" {
			out = append(out, segment)
		}
	}
	return out
}

// Append returns a new path; the receiver is never modified.
func (p Path) Append(segments ...string) Path {
	out := make(Path, len(p), len(p)+len(segments))
	copy(out, p)
	return append(out, segments...)
}

// Index appends an array index.
func (p Path) Index(i int) Path { return p.Append(strconv.Itoa(i)) }

func (p Path) String() string { return strings.Join(p, ".") }

// Name is the terminal segment.
func (p Path) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Parent drops the terminal segment.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1 : len(p)-1]
}

func (p Path) Equal(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// HasPrefix reports whether prefix is p or one of its ancestors.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix) > len(p) {
		return false
	}
	return p[:len(prefix)].Equal(prefix)
}

// FieldType is the descriptor kind renderers switch on.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeDate    FieldType = "date"
	FieldTypeEnum    FieldType = "enum"
	FieldTypeLiteral FieldType = "literal"
	FieldTypeObject  FieldType = "object"
	FieldTypeArray   FieldType = "array"
	FieldTypeUnion   FieldType = "union"
)

// Composite reports whether the descriptor groups other descriptors.
func (t FieldType) Composite() bool {
	return t == FieldTypeObject || t == FieldTypeArray || t == FieldTypeUnion
}

// InputConstraints are the HTML level attributes of a leaf control.
type InputConstraints struct {
	Type      string   `json:"type"`
	Required  bool     `json:"required,omitempty"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	Step      *float64 `json:"step,omitempty"`
	MinLength *int     `json:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	MinDate   string   `json:"minDate,omitempty"`
	MaxDate   string   `json:"maxDate,omitempty"`
}

// Field is a renderable descriptor. Hidden fields are never emitted.
type Field struct {
	Path        Path             `json:"path"`
	Name        string           `json:"name"`
	Type        FieldType        `json:"type"`
	Label       string           `json:"label"`
	Description string           `json:"description,omitempty"`
	Input       InputConstraints `json:"input"`
	InputProps  map[string]any   `json:"inputProps,omitempty"`
	Renderer    string           `json:"renderer,omitempty"`
	Value       any              `json:"value,omitempty"`
	Default     any              `json:"default,omitempty"`
	Required    bool             `json:"required,omitempty"`
	Disabled    bool             `json:"disabled,omitempty"`
	Options     []any            `json:"options,omitempty"`
	// Coerce names the conversion applied to raw input ("number",
	// "boolean").
	Coerce string `json:"coerce,omitempty"`
	// Discriminator marks the selector of a discriminated union.
	Discriminator bool    `json:"discriminator,omitempty"`
	Children      []Field `json:"children,omitempty"`
	Items         []Item  `json:"items,omitempty"`
}

// Item is one entry of an array descriptor. Key is the stable entry key
// from the field-state controller; Path carries the current position.
type Item struct {
	Key    string  `json:"key"`
	Index  int     `json:"index"`
	Path   Path    `json:"path"`
	Fields []Field `json:"fields,omitempty"`
}

// Entry is the controller view of an array element.
type Entry struct {
	Key string `json:"key"`
}

// FormModel is the outcome of one resolution pass.
type FormModel struct {
	Fields []Field `json:"fields"`
	// Subscriptions lists the value paths whose changes can alter this
	// model: dependency sources, union discriminators and arrays.
	Subscriptions []Path `json:"subscriptions,omitempty"`
}

// Flatten lists leaf descriptors depth first in render order. Union
// selectors are leaves; array items contribute their fields in position
// order.
func (m FormModel) Flatten() []Field {
	var out []Field
	flattenInto(&out, m.Fields)
	return out
}

func flattenInto(out *[]Field, fields []Field) {
	for _, field := range fields {
		switch field.Type {
		case FieldTypeObject, FieldTypeUnion:
			flattenInto(out, field.Children)
		case FieldTypeArray:
			for _, item := range field.Items {
				flattenInto(out, item.Fields)
			}
		default:
			*out = append(*out, field)
		}
	}
}

// Lookup finds the descriptor at a dotted path, composites included.
func (m FormModel) Lookup(path string) (Field, bool) {
	return lookupIn(m.Fields, path)
}

func lookupIn(fields []Field, path string) (Field, bool) {
	for _, field := range fields {
		if field.Name == path {
			return field, true
		}
		if found, ok := lookupIn(field.Children, path); ok {
			return found, true
		}
		for _, item := range field.Items {
			if found, ok := lookupIn(item.Fields, path); ok {
				return found, true
			}
		}
	}
	return Field{}, false
}
