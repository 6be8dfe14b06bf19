package schema

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrDiscriminatorRequired is returned when the union key is empty.
	ErrDiscriminatorRequired = errors.New("schema: discriminator key is required")
	// ErrNoBranches is returned when a union has no branches.
	ErrNoBranches = errors.New("schema: discriminated union needs at least one branch")
)

// DiscriminatedUnionNode selects one of several object branches by the
// literal value of a shared discriminator property.
type DiscriminatedUnionNode struct {
	description   string
	discriminator string
	branches      []*ObjectNode
	literals      []any
	numeric       bool
	selector      *EnumNode
}

// DiscriminatedUnion validates the branches and builds the union. Every
// branch must declare key as a literal and literals must be distinct. When
// every literal is numeric the selector enum is created with numeric
// coercion.
func DiscriminatedUnion(key string, branches ...*ObjectNode) (*DiscriminatedUnionNode, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrDiscriminatorRequired
	}
	if len(branches) == 0 {
		return nil, ErrNoBranches
	}

	out := &DiscriminatedUnionNode{
		discriminator: key,
		branches:      make([]*ObjectNode, 0, len(branches)),
		literals:      make([]any, 0, len(branches)),
		numeric:       true,
	}
	for i, branch := range branches {
		if branch == nil {
			return nil, fmt.Errorf("schema: union branch %d is nil", i)
		}
		node, ok := branch.Field(key)
		if !ok {
			return nil, fmt.Errorf("schema: union branch %d does not declare %q", i, key)
		}
		cls := Classify(node)
		literal, ok := cls.Node.(*LiteralNode)
		if cls.Kind != KindLiteral || !ok {
			return nil, fmt.Errorf("schema: union branch %d: %q must be a literal, got %s", i, key, cls.Kind)
		}
		for j, existing := range out.literals {
			if literalEqual(existing, literal.Value(), false) {
				return nil, fmt.Errorf("schema: union branches %d and %d share discriminator %v", j, i, existing)
			}
		}
		if !literal.Numeric() {
			out.numeric = false
		}
		out.branches = append(out.branches, branch)
		out.literals = append(out.literals, literal.Value())
	}

	coercion := CoerceNone
	if out.numeric {
		coercion = CoerceNumber
	}
	out.selector = EnumOf(out.literals, coercion)
	return out, nil
}

// MustDiscriminatedUnion is DiscriminatedUnion that panics on error. Intended
// for package level schema declarations.
func MustDiscriminatedUnion(key string, branches ...*ObjectNode) *DiscriminatedUnionNode {
	node, err := DiscriminatedUnion(key, branches...)
	if err != nil {
		panic(err)
	}
	return node
}

func (n *DiscriminatedUnionNode) Kind() Kind            { return KindDiscriminatedUnion }
func (n *DiscriminatedUnionNode) Description() string   { return n.description }
func (n *DiscriminatedUnionNode) Discriminator() string { return n.discriminator }

// Numeric reports whether the discriminator literals are numbers.
func (n *DiscriminatedUnionNode) Numeric() bool { return n.numeric }

// Options lists the discriminator literals in branch order.
func (n *DiscriminatedUnionNode) Options() []any { return append([]any(nil), n.literals...) }

// Selector returns the enum node driving the discriminator control.
func (n *DiscriminatedUnionNode) Selector() *EnumNode { return n.selector }

// Branches returns the branch objects in declaration order.
func (n *DiscriminatedUnionNode) Branches() []*ObjectNode {
	return append([]*ObjectNode(nil), n.branches...)
}

// Branch finds the branch whose literal matches value. Empty values never
// match. Numeric unions accept numeric strings.
func (n *DiscriminatedUnionNode) Branch(value any) (*ObjectNode, bool) {
	if isEmpty(value) {
		return nil, false
	}
	for i, literal := range n.literals {
		if literalEqual(literal, value, n.numeric) {
			return n.branches[i], true
		}
	}
	return nil, false
}

// Children keys each branch by the string form of its literal.
func (n *DiscriminatedUnionNode) Children() []Child {
	children := make([]Child, len(n.branches))
	for i, branch := range n.branches {
		children[i] = Child{Key: fmt.Sprint(n.literals[i]), Node: branch}
	}
	return children
}

func (n *DiscriminatedUnionNode) Describe(description string) *DiscriminatedUnionNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}
