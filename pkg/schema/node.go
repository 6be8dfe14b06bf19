package schema

// Kind is the closed set of node shapes the resolver understands. Wrapper
// nodes report KindWrapper and expose their inner node through Unwrappable.
type Kind uint8

const (
	KindUnsupported Kind = iota
	KindObject
	KindArray
	KindEnum
	KindDiscriminatedUnion
	KindString
	KindNumber
	KindBoolean
	KindDate
	KindLiteral
	KindWrapper
)

var kindNames = map[Kind]string{
	KindUnsupported:        "unsupported",
	KindObject:             "object",
	KindArray:              "array",
	KindEnum:               "enum",
	KindDiscriminatedUnion: "discriminatedUnion",
	KindString:             "string",
	KindNumber:             "number",
	KindBoolean:            "boolean",
	KindDate:               "date",
	KindLiteral:            "literal",
	KindWrapper:            "wrapper",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unsupported"
}

// Composite reports whether the kind is walked by a dedicated resolver
// instead of being rendered as a single input.
func (k Kind) Composite() bool {
	switch k {
	case KindObject, KindArray, KindDiscriminatedUnion:
		return true
	default:
		return false
	}
}

// Base reports whether the kind terminates unwrapping.
func (k Kind) Base() bool {
	switch k {
	case KindObject, KindArray, KindEnum, KindDiscriminatedUnion,
		KindString, KindNumber, KindBoolean, KindDate, KindLiteral:
		return true
	default:
		return false
	}
}

// Node is a handle into an immutable schema graph.
type Node interface {
	Kind() Kind
	Description() string
}

// Modifier identifies what a wrapper node adds to its inner node.
type Modifier uint8

const (
	ModifierOptional Modifier = iota + 1
	ModifierNullable
	ModifierDefault
	ModifierEffects
)

func (m Modifier) String() string {
	switch m {
	case ModifierOptional:
		return "optional"
	case ModifierNullable:
		return "nullable"
	case ModifierDefault:
		return "default"
	case ModifierEffects:
		return "effects"
	default:
		return "unknown"
	}
}

// Unwrappable is implemented by wrapper nodes.
type Unwrappable interface {
	Node
	Unwrap() Node
	Modifier() Modifier
}

// Defaulted is implemented by wrappers carrying a default value.
type Defaulted interface {
	DefaultValue() any
}

// Transformer is implemented by effects wrappers. Transform runs after the
// inner node has coerced the value.
type Transformer interface {
	Transform(value any) (any, error)
}

// Child is one named edge of a composite node.
type Child struct {
	Key  string
	Node Node
}

// Composite exposes the ordered children of object, array and union nodes.
type Composite interface {
	Node
	Children() []Child
}

// Enumerable is implemented by nodes with a closed value set.
type Enumerable interface {
	Node
	Values() []any
	Coercion() Coercion
}

// LeafConstraints exposes input constraints of primitive leaves.
type LeafConstraints interface {
	Node
	Constraints() Constraints
}

// Coercion tells input layers how raw input must be converted before it is
// stored.
type Coercion uint8

const (
	CoerceNone Coercion = iota
	CoerceNumber
	CoerceBoolean
)

func (c Coercion) String() string {
	switch c {
	case CoerceNumber:
		return "number"
	case CoerceBoolean:
		return "boolean"
	default:
		return ""
	}
}
