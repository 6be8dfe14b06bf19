package dependency

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-autoform/pkg/dependency/expr"
)

// Type is the effect a rule has on its target field.
type Type string

const (
	Hides       Type = "hides"
	Disables    Type = "disables"
	Requires    Type = "requires"
	SetsOptions Type = "setsOptions"
)

// Valid reports whether t is a known rule type.
func (t Type) Valid() bool {
	switch t {
	case Hides, Disables, Requires, SetsOptions:
		return true
	default:
		return false
	}
}

// ParseType accepts the canonical names plus the upper snake case spelling
// (HIDES, SETS_OPTIONS).
func ParseType(raw string) (Type, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "_", ""))
	switch normalized {
	case "hides":
		return Hides, nil
	case "disables":
		return Disables, nil
	case "requires":
		return Requires, nil
	case "setsoptions":
		return SetsOptions, nil
	default:
		return "", fmt.Errorf("dependency: unknown rule type %q", raw)
	}
}

// Predicate decides whether a rule applies given the current source and
// target values.
type Predicate func(source, target any) bool

// Lookup reads the current value at a path.
type Lookup func(path []string) (any, bool)

// Declared reports whether path names a field the form declares.
type Declared func(path []string) bool

// Option configures how rule names are resolved.
type Option func(*scope)

type scope struct {
	declared Declared
}

// WithDeclared lets dot-free source names climb out of the target's
// parent: the closest ancestor level that declares the name wins.
func WithDeclared(declared Declared) Option {
	return func(s *scope) { s.declared = declared }
}

func newScope(opts []Option) scope {
	var s scope
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// RootAnchor prefixes a source name resolved from the form root:
// "$.name" reads the top-level name field from any target.
const RootAnchor = "$."

// Wildcard matches any single path segment in rule field names, typically
// an array index: "items.*.enabled".
const Wildcard = "*"

// Identifiers bound by expression rules in addition to field names.
const (
	SourceIdentifier = "$source"
	TargetIdentifier = "$target"
)

// Dependency gates a target field on the value of a source field.
//
// Field names without a dot are relative: a target name matches any field
// with that terminal name and a source name resolves to the sibling of the
// matched target, or to the closest declared ancestor level when resolved
// WithDeclared. Dotted names and names starting with "$." are absolute
// paths where "*" matches any segment and, for sources, is filled in from
// the target path.
type Dependency struct {
	Source string
	Target string
	Type   Type

	// When decides whether the rule applies. Expr is used instead when set.
	// Without either, hides/disables/requires apply when the source value is
	// truthy and setsOptions always applies.
	When Predicate
	Expr *expr.Program

	// Options replaces the target's allowed values for setsOptions rules.
	// OptionsFunc takes precedence; a nil result means the rule does not
	// apply.
	Options     []any
	OptionsFunc func(source any) []any
}

var (
	ErrTargetRequired = errors.New("dependency: target field is required")
	ErrSourceRequired = errors.New("dependency: source field is required")
)

// Validate checks the rule is well formed.
func (d Dependency) Validate() error {
	if strings.TrimSpace(d.Target) == "" {
		return ErrTargetRequired
	}
	if strings.TrimSpace(d.Source) == "" {
		return ErrSourceRequired
	}
	if !d.Type.Valid() {
		return fmt.Errorf("dependency: %s -> %s: unknown rule type %q", d.Source, d.Target, d.Type)
	}
	return nil
}

// State is the outcome of resolving every rule targeting one field.
type State struct {
	Hidden   bool
	Disabled bool
	Required bool
	// Options is set when a setsOptions rule applied; HasOptions tells an
	// applied empty list apart from no override.
	Options    []any
	HasOptions bool
}

// Resolve evaluates the rules targeting the field at target. Hides and
// disables combine with OR, any applying requires rule forces required and
// the last applying setsOptions rule in list order provides the options.
// Resolve only reads through lookup.
func Resolve(deps []Dependency, target []string, lookup Lookup, opts ...Option) State {
	var state State
	sc := newScope(opts)
	if len(target) == 0 {
		return state
	}
	if lookup == nil {
		lookup = func([]string) (any, bool) { return nil, false }
	}

	var targetValue any
	targetRead := false
	for _, dep := range deps {
		if !MatchesTarget(dep.Target, target) {
			continue
		}
		if !targetRead {
			targetValue, _ = lookup(target)
			targetRead = true
		}
		source, _ := lookup(sc.sourcePath(dep.Source, target))

		switch dep.Type {
		case Hides:
			if dep.applies(sc, source, targetValue, target, lookup) {
				state.Hidden = true
			}
		case Disables:
			if dep.applies(sc, source, targetValue, target, lookup) {
				state.Disabled = true
			}
		case Requires:
			if dep.applies(sc, source, targetValue, target, lookup) {
				state.Required = true
			}
		case SetsOptions:
			if options, ok := dep.options(sc, source, targetValue, target, lookup); ok {
				state.Options = options
				state.HasOptions = true
			}
		}
	}
	return state
}

func (d Dependency) applies(sc scope, source, target any, targetPath []string, lookup Lookup) bool {
	switch {
	case d.Expr != nil:
		ok, err := d.Expr.Eval(d.exprLookup(sc, source, target, targetPath, lookup))
		return err == nil && ok
	case d.When != nil:
		return d.When(source, target)
	default:
		return truthy(source)
	}
}

func (d Dependency) options(sc scope, source, target any, targetPath []string, lookup Lookup) ([]any, bool) {
	if d.Expr != nil || d.When != nil {
		if !d.applies(sc, source, target, targetPath, lookup) {
			return nil, false
		}
	}
	if d.OptionsFunc != nil {
		options := d.OptionsFunc(source)
		if options == nil {
			return nil, false
		}
		return append([]any(nil), options...), true
	}
	return append([]any{}, d.Options...), true
}

func (d Dependency) exprLookup(sc scope, source, target any, targetPath []string, lookup Lookup) expr.Lookup {
	return func(name string) (any, bool) {
		switch name {
		case SourceIdentifier:
			return source, true
		case TargetIdentifier:
			return target, true
		}
		return lookup(sc.sourcePath(name, targetPath))
	}
}

// Sources returns the paths whose values the rules targeting target read,
// deduplicated and sorted by their dotted form. Subscribing to these paths
// is enough to keep the resolved state fresh.
func Sources(deps []Dependency, target []string, opts ...Option) [][]string {
	sc := newScope(opts)
	seen := make(map[string][]string)
	add := func(name string) {
		path := sc.sourcePath(name, target)
		if len(path) == 0 {
			return
		}
		seen[strings.Join(path, ".")] = path
	}
	for _, dep := range deps {
		if !MatchesTarget(dep.Target, target) {
			continue
		}
		add(dep.Source)
		if dep.Expr != nil {
			for _, ident := range dep.Expr.Identifiers() {
				if ident == SourceIdentifier || ident == TargetIdentifier {
					continue
				}
				add(ident)
			}
		}
	}

	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([][]string, len(keys))
	for i, key := range keys {
		out[i] = seen[key]
	}
	return out
}

// MatchesTarget reports whether a rule target name selects the field at
// path.
func MatchesTarget(name string, path []string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(path) == 0 {
		return false
	}
	if !strings.Contains(name, ".") {
		return name == Wildcard || path[len(path)-1] == name
	}
	segments := strings.Split(name, ".")
	if len(segments) != len(path) {
		return false
	}
	for i, segment := range segments {
		if segment != Wildcard && segment != path[i] {
			return false
		}
	}
	return true
}

// SourcePath resolves a rule source name against the target path.
func SourcePath(name string, target []string, opts ...Option) []string {
	return newScope(opts).sourcePath(name, target)
}

func (s scope) sourcePath(name string, target []string) []string {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}
	if anchored, ok := strings.CutPrefix(name, RootAnchor); ok {
		if anchored == "" {
			return nil
		}
		return absolutePath(anchored, target)
	}
	if strings.Contains(name, ".") {
		return absolutePath(name, target)
	}

	parent := len(target) - 1
	if parent < 0 {
		parent = 0
	}
	if s.declared != nil {
		for level := parent; level >= 0; level-- {
			candidate := siblingPath(target[:level], name)
			if s.declared(candidate) {
				return candidate
			}
		}
	}
	return siblingPath(target[:parent], name)
}

func siblingPath(prefix []string, name string) []string {
	out := make([]string, len(prefix), len(prefix)+1)
	copy(out, prefix)
	return append(out, name)
}

func absolutePath(name string, target []string) []string {
	segments := strings.Split(name, ".")
	out := make([]string, len(segments))
	for i, segment := range segments {
		if segment == Wildcard && i < len(target) {
			out[i] = target[i]
			continue
		}
		out[i] = segment
	}
	return out
}

func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	case float64:
		return v != 0
	case int:
		return v != 0
	default:
		return true
	}
}
