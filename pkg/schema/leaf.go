package schema

import (
	"strings"
	"time"
)

// Constraints captures the checks a primitive leaf declares. Pointer fields
// are nil when the check is absent.
type Constraints struct {
	Min       *float64
	Max       *float64
	Step      *float64
	Integer   bool
	MinLength *int
	MaxLength *int
	Pattern   string
	Format    string
	MinDate   *time.Time
	MaxDate   *time.Time
}

// StringNode describes a string leaf.
type StringNode struct {
	description string
	constraints Constraints
}

// String returns a new string leaf.
func String() *StringNode { return &StringNode{} }

func (n *StringNode) Kind() Kind               { return KindString }
func (n *StringNode) Description() string      { return n.description }
func (n *StringNode) Constraints() Constraints { return n.constraints }

// Describe returns a copy with the given description.
func (n *StringNode) Describe(description string) *StringNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}

// Min returns a copy requiring at least n characters.
func (n *StringNode) Min(length int) *StringNode {
	out := *n
	out.constraints.MinLength = &length
	return &out
}

// Max returns a copy allowing at most n characters.
func (n *StringNode) Max(length int) *StringNode {
	out := *n
	out.constraints.MaxLength = &length
	return &out
}

// Pattern returns a copy that must match the regular expression.
func (n *StringNode) Pattern(expr string) *StringNode {
	out := *n
	out.constraints.Pattern = expr
	return &out
}

// Format returns a copy tagged with a string format (email, url, password...).
func (n *StringNode) Format(format string) *StringNode {
	out := *n
	out.constraints.Format = strings.ToLower(strings.TrimSpace(format))
	return &out
}

// NumberNode describes a numeric leaf.
type NumberNode struct {
	description string
	constraints Constraints
}

// Number returns a new number leaf.
func Number() *NumberNode { return &NumberNode{} }

// Int returns a new number leaf restricted to integers.
func Int() *NumberNode { return &NumberNode{constraints: Constraints{Integer: true}} }

func (n *NumberNode) Kind() Kind               { return KindNumber }
func (n *NumberNode) Description() string      { return n.description }
func (n *NumberNode) Constraints() Constraints { return n.constraints }
func (n *NumberNode) Coercion() Coercion       { return CoerceNumber }

func (n *NumberNode) Describe(description string) *NumberNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}

func (n *NumberNode) Min(value float64) *NumberNode {
	out := *n
	out.constraints.Min = &value
	return &out
}

func (n *NumberNode) Max(value float64) *NumberNode {
	out := *n
	out.constraints.Max = &value
	return &out
}

func (n *NumberNode) Step(value float64) *NumberNode {
	out := *n
	out.constraints.Step = &value
	return &out
}

// BooleanNode describes a boolean leaf.
type BooleanNode struct {
	description string
}

// Boolean returns a new boolean leaf.
func Boolean() *BooleanNode { return &BooleanNode{} }

func (n *BooleanNode) Kind() Kind               { return KindBoolean }
func (n *BooleanNode) Description() string      { return n.description }
func (n *BooleanNode) Constraints() Constraints { return Constraints{} }
func (n *BooleanNode) Coercion() Coercion       { return CoerceBoolean }

func (n *BooleanNode) Describe(description string) *BooleanNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}

// DateLayout is the wire layout used for date values.
const DateLayout = "2006-01-02"

// DateNode describes a calendar date leaf.
type DateNode struct {
	description string
	constraints Constraints
}

// Date returns a new date leaf.
func Date() *DateNode { return &DateNode{} }

func (n *DateNode) Kind() Kind               { return KindDate }
func (n *DateNode) Description() string      { return n.description }
func (n *DateNode) Constraints() Constraints { return n.constraints }

func (n *DateNode) Describe(description string) *DateNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}

func (n *DateNode) Min(t time.Time) *DateNode {
	out := *n
	out.constraints.MinDate = &t
	return &out
}

func (n *DateNode) Max(t time.Time) *DateNode {
	out := *n
	out.constraints.MaxDate = &t
	return &out
}

// LiteralNode matches exactly one value. Discriminated unions key their
// branches by literal nodes.
type LiteralNode struct {
	description string
	value       any
}

// Literal returns a node matching value.
func Literal(value any) *LiteralNode { return &LiteralNode{value: value} }

func (n *LiteralNode) Kind() Kind          { return KindLiteral }
func (n *LiteralNode) Description() string { return n.description }
func (n *LiteralNode) Value() any          { return n.value }

// Numeric reports whether the literal holds a Go numeric value.
func (n *LiteralNode) Numeric() bool {
	_, ok := numericLiteral(n.value)
	return ok
}

func (n *LiteralNode) Describe(description string) *LiteralNode {
	out := *n
	out.description = strings.TrimSpace(description)
	return &out
}
