package components

import (
	"strings"

	"github.com/goliatone/go-autoform/pkg/model"
)

// Canonical component names used by the vanilla renderer and default registry.
const (
	NameInput    = "input"
	NameTextarea = "textarea"
	NameSelect   = "select"
	NameBoolean  = "boolean"
	NameLiteral  = "literal"
	NameObject   = "object"
	NameArray    = "array"
	NameUnion    = "union"
)

// ForField picks the component for a descriptor. A renderer name set in the
// field config wins; otherwise composites map by type and leaves by input
// type.
func ForField(field model.Field) string {
	if name := normalize(field.Renderer); name != "" {
		return name
	}
	switch field.Type {
	case model.FieldTypeObject:
		return NameObject
	case model.FieldTypeArray:
		return NameArray
	case model.FieldTypeUnion:
		return NameUnion
	}
	switch strings.TrimSpace(field.Input.Type) {
	case "select":
		return NameSelect
	case "checkbox":
		return NameBoolean
	case "hidden":
		return NameLiteral
	case "textarea":
		return NameTextarea
	default:
		return NameInput
	}
}

// HandlesChrome reports whether the component draws its own label,
// description and errors.
func HandlesChrome(name string) bool {
	switch normalize(name) {
	case NameObject, NameArray, NameUnion, NameLiteral:
		return true
	default:
		return false
	}
}
