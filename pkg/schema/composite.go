package schema

import (
	"strings"
)

// Field is a named property of an object node.
type Field struct {
	Name string
	Node Node
}

// Prop pairs a property name with its node.
func Prop(name string, node Node) Field {
	return Field{Name: strings.TrimSpace(name), Node: node}
}

// ObjectNode is an ordered set of named properties. Declaration order is
// preserved and is the order fields render in.
type ObjectNode struct {
	description string
	fields      []Field
	index       map[string]int
}

// Object builds an object node. A repeated name replaces the earlier node
// but keeps its original position; empty names are dropped.
func Object(fields ...Field) *ObjectNode {
	out := &ObjectNode{index: make(map[string]int, len(fields))}
	out.add(fields)
	return out
}

func (n *ObjectNode) add(fields []Field) {
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		if pos, ok := n.index[field.Name]; ok {
			n.fields[pos] = field
			continue
		}
		n.index[field.Name] = len(n.fields)
		n.fields = append(n.fields, field)
	}
}

func (n *ObjectNode) Kind() Kind          { return KindObject }
func (n *ObjectNode) Description() string { return n.description }

// Describe returns a copy with the given description.
func (n *ObjectNode) Describe(description string) *ObjectNode {
	out := n.clone()
	out.description = strings.TrimSpace(description)
	return out
}

// Extend returns a copy with additional or replaced properties.
func (n *ObjectNode) Extend(fields ...Field) *ObjectNode {
	out := n.clone()
	out.add(fields)
	return out
}

func (n *ObjectNode) clone() *ObjectNode {
	out := &ObjectNode{
		description: n.description,
		fields:      append([]Field(nil), n.fields...),
		index:       make(map[string]int, len(n.index)),
	}
	for key, pos := range n.index {
		out.index[key] = pos
	}
	return out
}

// Keys lists property names in declaration order.
func (n *ObjectNode) Keys() []string {
	keys := make([]string, len(n.fields))
	for i, field := range n.fields {
		keys[i] = field.Name
	}
	return keys
}

// Fields returns the properties in declaration order.
func (n *ObjectNode) Fields() []Field {
	return append([]Field(nil), n.fields...)
}

// Field returns the node declared for name.
func (n *ObjectNode) Field(name string) (Node, bool) {
	pos, ok := n.index[name]
	if !ok {
		return nil, false
	}
	return n.fields[pos].Node, true
}

func (n *ObjectNode) Children() []Child {
	children := make([]Child, len(n.fields))
	for i, field := range n.fields {
		children[i] = Child{Key: field.Name, Node: field.Node}
	}
	return children
}

// ElementKey is the child key arrays report for their element node.
const ElementKey = "*"

// ArrayNode is a homogeneous list.
type ArrayNode struct {
	description string
	element     Node
	minItems    *int
	maxItems    *int
}

// Array returns a list node over element.
func Array(element Node) *ArrayNode { return &ArrayNode{element: element} }

func (n *ArrayNode) Kind() Kind          { return KindArray }
func (n *ArrayNode) Description() string { return n.description }
func (n *ArrayNode) Element() Node       { return n.element }

func (n *ArrayNode) Children() []Child {
	return []Child{{Key: ElementKey, Node: n.element}}
}

func (n *ArrayNode) Describe(description string) *ArrayNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}

// Min returns a copy requiring at least count items.
func (n *ArrayNode) Min(count int) *ArrayNode {
	out := *n
	out.minItems = &count
	return &out
}

// Max returns a copy allowing at most count items.
func (n *ArrayNode) Max(count int) *ArrayNode {
	out := *n
	out.maxItems = &count
	return &out
}

// Bounds returns the item count limits, nil when unset.
func (n *ArrayNode) Bounds() (minItems, maxItems *int) {
	return n.minItems, n.maxItems
}

// EnumNode is a closed set of allowed values.
type EnumNode struct {
	description string
	values      []any
	coercion    Coercion
}

// Enum returns a string enum.
func Enum(values ...string) *EnumNode {
	out := &EnumNode{values: make([]any, len(values))}
	for i, value := range values {
		out.values[i] = value
	}
	return out
}

// EnumOf returns an enum over arbitrary literal values. The coercion is fixed
// at construction; input layers read it to decide how raw input is parsed.
func EnumOf(values []any, coercion Coercion) *EnumNode {
	return &EnumNode{values: append([]any(nil), values...), coercion: coercion}
}

func (n *EnumNode) Kind() Kind          { return KindEnum }
func (n *EnumNode) Description() string { return n.description }
func (n *EnumNode) Coercion() Coercion  { return n.coercion }

// Values returns a copy of the allowed values in declaration order.
func (n *EnumNode) Values() []any { return append([]any(nil), n.values...) }

// Contains reports whether value is one of the allowed values, comparing
// numerically when the enum coerces numbers.
func (n *EnumNode) Contains(value any) bool {
	for _, candidate := range n.values {
		if literalEqual(candidate, value, n.coercion == CoerceNumber) {
			return true
		}
	}
	return false
}

func (n *EnumNode) Describe(description string) *EnumNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}
