package schema

import "strings"

type wrapper struct {
	description string
	inner       Node
	modifier    Modifier
}

func (w *wrapper) Kind() Kind          { return KindWrapper }
func (w *wrapper) Description() string { return w.description }
func (w *wrapper) Unwrap() Node        { return w.inner }
func (w *wrapper) Modifier() Modifier  { return w.modifier }

// OptionalNode marks its inner node as not required.
type OptionalNode struct{ wrapper }

// Optional wraps node so an absent value is accepted.
func Optional(node Node) *OptionalNode {
	return &OptionalNode{wrapper{inner: node, modifier: ModifierOptional}}
}

func (n *OptionalNode) Describe(description string) *OptionalNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}

// NullableNode accepts an explicit null in place of its inner value.
type NullableNode struct{ wrapper }

// Nullable wraps node so null is accepted.
func Nullable(node Node) *NullableNode {
	return &NullableNode{wrapper{inner: node, modifier: ModifierNullable}}
}

func (n *NullableNode) Describe(description string) *NullableNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}

// DefaultNode supplies a value when none is present.
type DefaultNode struct {
	wrapper
	value any
}

// Default wraps node with a default value.
func Default(node Node, value any) *DefaultNode {
	return &DefaultNode{wrapper: wrapper{inner: node, modifier: ModifierDefault}, value: value}
}

// DefaultValue returns a deep copy of the default so callers cannot alias it.
func (n *DefaultNode) DefaultValue() any { return CloneValue(n.value) }

func (n *DefaultNode) Describe(description string) *DefaultNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}

// TransformFunc post-processes a coerced value.
type TransformFunc func(value any) (any, error)

// EffectsNode applies a transform after its inner node has been coerced.
// Rendering ignores it.
type EffectsNode struct {
	wrapper
	transform TransformFunc
}

// Effects wraps node with a post-processing transform. A nil transform is
// the identity.
func Effects(node Node, transform TransformFunc) *EffectsNode {
	return &EffectsNode{wrapper: wrapper{inner: node, modifier: ModifierEffects}, transform: transform}
}

func (n *EffectsNode) Transform(value any) (any, error) {
	if n.transform == nil {
		return value, nil
	}
	return n.transform(value)
}

func (n *EffectsNode) Describe(description string) *EffectsNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}

// WithDescription returns node described by description. Node types without
// a Describe method, and empty descriptions, return node unchanged.
func WithDescription(node Node, description string) Node {
	if strings.TrimSpace(description) == "" {
		return node
	}
	switch typed := node.(type) {
	case *ObjectNode:
		return typed.Describe(description)
	case *ArrayNode:
		return typed.Describe(description)
	case *EnumNode:
		return typed.Describe(description)
	case *DiscriminatedUnionNode:
		return typed.Describe(description)
	case *StringNode:
		return typed.Describe(description)
	case *NumberNode:
		return typed.Describe(description)
	case *BooleanNode:
		return typed.Describe(description)
	case *DateNode:
		return typed.Describe(description)
	case *NullableNode:
		return typed.Describe(description)
	case *LiteralNode:
		return typed.Describe(description)
	case *OptionalNode:
		return typed.Describe(description)
	case *DefaultNode:
		return typed.Describe(description)
	case *EffectsNode:
		return typed.Describe(description)
	default:
		return node
	}
}
