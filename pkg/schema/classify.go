package schema

import "strings"

// maxWrapperDepth bounds unwrapping so a cyclic wrapper chain classifies as
// unsupported instead of looping.
const maxWrapperDepth = 64

// Classification is the result of unwrapping a node.
type Classification struct {
	// Kind is the base kind, KindUnsupported when no base node was reached.
	Kind Kind
	// Node is the innermost node, nil when unsupported.
	Node Node
	// Default is the value of the outermost default wrapper.
	Default    any
	HasDefault bool
	// Optional is set when an optional or nullable wrapper was crossed.
	Optional bool
	// Description is the first non-empty description from the outside in.
	Description string
}

// Supported reports whether a base node was found.
func (c Classification) Supported() bool {
	return c.Kind != KindUnsupported && c.Node != nil
}

// Required reports whether the schema demands a value: no optional,
// nullable or default wrapper was crossed.
func (c Classification) Required() bool {
	return c.Supported() && !c.Optional && !c.HasDefault
}

// Classify strips wrapper layers and returns the base kind and node. The
// first default wrapper found (the outermost) wins. It never panics: nil
// nodes, unknown kinds and broken wrappers classify as unsupported.
func Classify(node Node) Classification {
	var out Classification
	for depth := 0; depth <= maxWrapperDepth; depth++ {
		if node == nil {
			return Classification{}
		}
		if out.Description == "" {
			out.Description = strings.TrimSpace(node.Description())
		}

		kind := node.Kind()
		if kind.Base() {
			out.Kind = kind
			out.Node = node
			return out
		}
		if kind != KindWrapper {
			return Classification{}
		}

		wrapped, ok := node.(Unwrappable)
		if !ok {
			return Classification{}
		}
		switch wrapped.Modifier() {
		case ModifierOptional, ModifierNullable:
			out.Optional = true
		case ModifierDefault:
			if !out.HasDefault {
				if defaulted, ok := node.(Defaulted); ok {
					out.Default = defaulted.DefaultValue()
					out.HasDefault = true
				}
			}
		}
		node = wrapped.Unwrap()
	}
	return Classification{}
}
