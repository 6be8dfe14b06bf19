package schema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidInput is wrapped by coercion failures.
var ErrInvalidInput = errors.New("schema: invalid input")

// CoerceInput converts raw control input for a single node: numeric strings
// become float64 for numbers and numeric enums, boolean strings become bool,
// dates are normalised to DateLayout. Empty strings for numbers become nil.
func CoerceInput(node Node, raw any) (any, error) {
	cls := Classify(node)
	if !cls.Supported() {
		return raw, nil
	}
	switch cls.Kind {
	case KindNumber:
		return coerceNumber(raw)
	case KindEnum:
		if enum, ok := cls.Node.(Enumerable); ok && enum.Coercion() == CoerceNumber {
			return coerceNumber(raw)
		}
	case KindDiscriminatedUnion:
		if union, ok := cls.Node.(*DiscriminatedUnionNode); ok && union.Numeric() {
			return coerceNumber(raw)
		}
	case KindLiteral:
		if literal, ok := cls.Node.(*LiteralNode); ok && literal.Numeric() {
			return coerceNumber(raw)
		}
	case KindBoolean:
		return coerceBool(raw)
	case KindDate:
		return coerceDate(raw)
	}
	return raw, nil
}

func coerceNumber(raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	if s, ok := raw.(string); ok && strings.TrimSpace(s) == "" {
		return nil, nil
	}
	if f, ok := ToNumber(raw); ok {
		return f, nil
	}
	return nil, fmt.Errorf("%w: %v is not a number", ErrInvalidInput, raw)
}

func coerceBool(raw any) (any, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case bool:
		return v, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "":
			return nil, nil
		case "on", "yes":
			return true, nil
		case "off", "no":
			return false, nil
		}
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a boolean", ErrInvalidInput, v)
		}
		return parsed, nil
	default:
		return raw, nil
	}
}

func coerceDate(raw any) (any, error) {
	switch v := raw.(type) {
	case time.Time:
		return v.Format(DateLayout), nil
	case string:
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			return nil, nil
		}
		if t, err := time.Parse(time.RFC3339, trimmed); err == nil {
			return t.Format(DateLayout), nil
		}
		if _, err := time.Parse(DateLayout, trimmed); err != nil {
			return nil, fmt.Errorf("%w: %q is not a date", ErrInvalidInput, v)
		}
		return trimmed, nil
	default:
		return raw, nil
	}
}

// Coerce walks value alongside node and returns a new tree with defaults
// applied, leaves converted as CoerceInput does and effects transforms run.
// Object values keep only declared properties; union values keep the
// properties of the selected branch. Values without a matching shape are
// returned untouched so validation can report them.
func Coerce(node Node, value any) (any, error) {
	return coerceAt(node, value, nil)
}

func coerceAt(node Node, value any, path []string) (any, error) {
	if node == nil {
		return value, nil
	}
	if node.Kind() == KindWrapper {
		wrapped, ok := node.(Unwrappable)
		if !ok {
			return value, nil
		}
		switch wrapped.Modifier() {
		case ModifierDefault:
			if value == nil {
				if defaulted, ok := node.(Defaulted); ok {
					value = defaulted.DefaultValue()
				}
			}
		case ModifierOptional, ModifierNullable:
			if value == nil {
				return nil, nil
			}
		case ModifierEffects:
			inner, err := coerceAt(wrapped.Unwrap(), value, path)
			if err != nil {
				return nil, err
			}
			if transformer, ok := node.(Transformer); ok {
				out, err := transformer.Transform(inner)
				if err != nil {
					return nil, fmt.Errorf("schema: transform %s: %w", pathString(path), err)
				}
				return out, nil
			}
			return inner, nil
		}
		return coerceAt(wrapped.Unwrap(), value, path)
	}

	switch typed := node.(type) {
	case *ObjectNode:
		return coerceObject(typed, value, path)
	case *ArrayNode:
		items, ok := value.([]any)
		if !ok {
			return value, nil
		}
		out := make([]any, len(items))
		for i, item := range items {
			coerced, err := coerceAt(typed.Element(), item, appendPath(path, strconv.Itoa(i)))
			if err != nil {
				return nil, err
			}
			out[i] = coerced
		}
		return out, nil
	case *DiscriminatedUnionNode:
		return coerceUnion(typed, value, path)
	default:
		out, err := CoerceInput(node, value)
		if err != nil {
			return nil, fmt.Errorf("schema: %s: %w", pathString(path), err)
		}
		return out, nil
	}
}

func coerceObject(node *ObjectNode, value any, path []string) (any, error) {
	values, ok := value.(map[string]any)
	if !ok {
		return value, nil
	}
	out := make(map[string]any, len(values))
	for _, field := range node.Fields() {
		coerced, err := coerceAt(field.Node, values[field.Name], appendPath(path, field.Name))
		if err != nil {
			return nil, err
		}
		if coerced != nil {
			out[field.Name] = coerced
		}
	}
	return out, nil
}

func coerceUnion(node *DiscriminatedUnionNode, value any, path []string) (any, error) {
	values, ok := value.(map[string]any)
	if !ok {
		return value, nil
	}
	branch, ok := node.Branch(values[node.Discriminator()])
	if !ok {
		return CloneValue(values), nil
	}
	return coerceObject(branch, values, path)
}

func appendPath(path []string, segment string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, segment)
}

func pathString(path []string) string {
	if len(path) == 0 {
		return "(root)"
	}
	return strings.Join(path, ".")
}

// At returns the node describing the value at path within root. Unions are
// resolved with the discriminator value found in values, so branch fields
// are only reachable once a branch is selected.
func At(root Node, path []string, values any) (Node, bool) {
	node := root
	current := values
	for _, segment := range path {
		cls := Classify(node)
		switch typed := cls.Node.(type) {
		case *ObjectNode:
			child, ok := typed.Field(segment)
			if !ok {
				return nil, false
			}
			node = child
		case *ArrayNode:
			if _, err := strconv.Atoi(segment); err != nil {
				return nil, false
			}
			node = typed.Element()
		case *DiscriminatedUnionNode:
			if segment == typed.Discriminator() {
				node = typed.Selector()
				break
			}
			m, _ := current.(map[string]any)
			branch, ok := typed.Branch(m[typed.Discriminator()])
			if !ok {
				return nil, false
			}
			child, ok := branch.Field(segment)
			if !ok {
				return nil, false
			}
			node = child
		default:
			return nil, false
		}
		current = childValue(current, segment)
	}
	return node, node != nil
}

func childValue(value any, segment string) any {
	switch typed := value.(type) {
	case map[string]any:
		return typed[segment]
	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 || idx >= len(typed) {
			return nil
		}
		return typed[idx]
	default:
		return nil
	}
}
