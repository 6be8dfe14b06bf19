package model

import (
	"errors"
	"sort"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-autoform/pkg/dependency"
	"github.com/goliatone/go-autoform/pkg/schema"
	"github.com/goliatone/go-autoform/pkg/uischema"
)

// ErrRootNotObject is returned when the root schema does not unwrap to an
// object.
var ErrRootNotObject = errors.New("model: root schema must be an object")

// State is the read-only value view a pass resolves against. Field-state
// controllers hand out snapshots implementing it.
type State interface {
	Value(path Path) (any, bool)
	Entries(path Path) []Entry
}

type emptyState struct{}

func (emptyState) Value(Path) (any, bool) { return nil, false }
func (emptyState) Entries(Path) []Entry   { return nil }

// Input bundles everything one pass reads.
type Input struct {
	Schema       schema.Node
	Fields       uischema.FieldConfig
	Dependencies []dependency.Dependency
	State        State
}

// Resolver turns schema nodes into field descriptors.
type Resolver struct {
	options Options
}

// New constructs a Resolver; zero option fields fall back to defaults.
func New(options Options) *Resolver {
	defaults := defaultOptions()
	if options.Labeler == nil {
		options.Labeler = defaults.Labeler
	}
	return &Resolver{options: options}
}

// Resolve runs one pass. The pass reads in.State only and keeps nothing
// once it returns, so resolving the same input twice yields equal models.
func (r *Resolver) Resolve(in Input) (FormModel, error) {
	cls := schema.Classify(in.Schema)
	root, ok := cls.Node.(*schema.ObjectNode)
	if !ok {
		return FormModel{}, ErrRootNotObject
	}

	state := in.State
	if state == nil {
		state = emptyState{}
	}
	p := &pass{
		labeler: r.options.Labeler,
		logger:  r.options.Logger,
		fields:  in.Fields,
		deps:    in.Dependencies,
		root:    root,
		state:   state,
		subs:    make(map[string]Path),
	}
	fields := p.object(root, nil)
	return FormModel{Fields: fields, Subscriptions: p.subscriptions()}, nil
}

// pass carries the per-resolution inputs through every recursive call.
type pass struct {
	labeler func(string) string
	logger  zerolog.Logger
	fields  uischema.FieldConfig
	deps    []dependency.Dependency
	root    *schema.ObjectNode
	state   State
	subs    map[string]Path
}

func (p *pass) lookup(path []string) (any, bool) {
	return p.state.Value(Path(path))
}

func (p *pass) subscribe(path Path) {
	if len(path) == 0 {
		return
	}
	p.subs[path.String()] = path
}

func (p *pass) subscriptions() []Path {
	keys := make([]string, 0, len(p.subs))
	for key := range p.subs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]Path, len(keys))
	for i, key := range keys {
		out[i] = p.subs[key]
	}
	return out
}

// rules resolves dependency rules for path and records their sources.
func (p *pass) rules(path Path) dependency.State {
	scope := dependency.WithDeclared(p.declared)
	for _, source := range dependency.Sources(p.deps, path, scope) {
		p.subscribe(Path(source))
	}
	return dependency.Resolve(p.deps, path, p.lookup, scope)
}

func (p *pass) declared(path []string) bool {
	return declares(p.root, path)
}

// declares reports whether some value shape of node has a field at path.
// Every union branch counts, so a source keeps its level while the
// selected branch changes.
func declares(node schema.Node, path []string) bool {
	if len(path) == 0 {
		return node != nil
	}
	switch typed := schema.Classify(node).Node.(type) {
	case *schema.ObjectNode:
		child, ok := typed.Field(path[0])
		return ok && declares(child, path[1:])
	case *schema.ArrayNode:
		if _, err := strconv.Atoi(path[0]); err != nil && path[0] != dependency.Wildcard {
			return false
		}
		return declares(typed.Element(), path[1:])
	case *schema.DiscriminatedUnionNode:
		if path[0] == typed.Discriminator() {
			return len(path) == 1
		}
		for _, branch := range typed.Branches() {
			if declares(branch, path) {
				return true
			}
		}
	}
	return false
}

type orderedField struct {
	field    Field
	order    int
	hasOrder bool
}

// object resolves the properties of node in declaration order. Hidden and
// unsupported properties are left out; configured orders stable-sort ahead
// of unordered ones.
func (p *pass) object(node *schema.ObjectNode, path Path) []Field {
	props := node.Fields()
	resolved := make([]orderedField, 0, len(props))
	for _, prop := range props {
		childPath := path.Append(prop.Name)
		cls := schema.Classify(prop.Node)
		if !cls.Supported() {
			p.logger.Debug().Str("path", childPath.String()).Msg("unsupported schema shape omitted")
			continue
		}
		cfg, _ := p.fields.Lookup(childPath)
		rules := p.rules(childPath)
		if rules.Hidden {
			continue
		}
		field, ok := p.dispatch(cls, childPath, cfg, rules)
		if !ok {
			continue
		}
		entry := orderedField{field: field}
		if cfg.Order != nil {
			entry.order, entry.hasOrder = *cfg.Order, true
		}
		resolved = append(resolved, entry)
	}

	sort.SliceStable(resolved, func(i, j int) bool {
		a, b := resolved[i], resolved[j]
		if a.hasOrder != b.hasOrder {
			return a.hasOrder
		}
		return a.hasOrder && a.order < b.order
	})

	fields := make([]Field, len(resolved))
	for i, entry := range resolved {
		fields[i] = entry.field
	}
	return fields
}

func (p *pass) dispatch(cls schema.Classification, path Path, cfg uischema.FieldConfigItem, rules dependency.State) (Field, bool) {
	field := p.describe(cls, path, cfg, rules)
	switch cls.Kind {
	case schema.KindObject:
		node, _ := cls.Node.(*schema.ObjectNode)
		if node == nil {
			return Field{}, false
		}
		field.Type = FieldTypeObject
		field.Children = p.object(node, path)
		return field, true
	case schema.KindArray:
		node, _ := cls.Node.(*schema.ArrayNode)
		if node == nil {
			return Field{}, false
		}
		return p.array(node, field)
	case schema.KindDiscriminatedUnion:
		node, _ := cls.Node.(*schema.DiscriminatedUnionNode)
		if node == nil {
			return Field{}, false
		}
		children, ok := p.union(node, path)
		if !ok {
			return Field{}, false
		}
		field.Type = FieldTypeUnion
		field.Children = children
		return field, true
	case schema.KindEnum, schema.KindString, schema.KindNumber,
		schema.KindBoolean, schema.KindDate, schema.KindLiteral:
		return p.leaf(cls, field, cfg, rules), true
	default:
		p.logger.Debug().Str("path", path.String()).Str("kind", cls.Kind.String()).Msg("unsupported schema shape omitted")
		return Field{}, false
	}
}

// describe fills the attributes shared by every descriptor.
func (p *pass) describe(cls schema.Classification, path Path, cfg uischema.FieldConfigItem, rules dependency.State) Field {
	label := cfg.Label
	if label == "" {
		label = cls.Description
	}
	if label == "" {
		label = p.labeler(path.Name())
	}
	return Field{
		Path:        path,
		Name:        path.String(),
		Label:       label,
		Description: cfg.Description,
		InputProps:  cloneProps(cfg.InputProps),
		Renderer:    cfg.Renderer,
		Required:    cfg.ResolveRequired(cls.Required()) || rules.Required,
		Disabled:    cfg.DisabledOverride() || rules.Disabled,
	}
}

// array resolves one item block per controller entry. Elements must be
// objects or discriminated unions; anything else renders nothing.
func (p *pass) array(node *schema.ArrayNode, field Field) (Field, bool) {
	element := schema.Classify(node.Element())
	if element.Kind != schema.KindObject && element.Kind != schema.KindDiscriminatedUnion {
		p.logger.Debug().
			Str("path", field.Path.String()).
			Str("element", element.Kind.String()).
			Msg("array element must be an object or discriminated union; omitted")
		return Field{}, false
	}
	p.subscribe(field.Path)

	field.Type = FieldTypeArray
	entries := p.state.Entries(field.Path)
	field.Items = make([]Item, 0, len(entries))
	for i, entry := range entries {
		itemPath := field.Path.Index(i)
		item := Item{Key: entry.Key, Index: i, Path: itemPath}
		switch typed := element.Node.(type) {
		case *schema.ObjectNode:
			item.Fields = p.object(typed, itemPath)
		case *schema.DiscriminatedUnionNode:
			item.Fields, _ = p.union(typed, itemPath)
		}
		field.Items = append(field.Items, item)
	}
	return field, true
}

// union resolves the discriminator selector at path plus, when the current
// value picks a branch, that branch's fields at the same path. It reports
// false when rules hide the selector.
func (p *pass) union(node *schema.DiscriminatedUnionNode, path Path) ([]Field, bool) {
	key := node.Discriminator()
	selectorPath := path.Append(key)
	p.subscribe(selectorPath)

	rules := p.rules(selectorPath)
	if rules.Hidden {
		return nil, false
	}
	cfg, _ := p.fields.Lookup(selectorPath)
	selectorCls := schema.Classify(node.Selector())
	selector := p.describe(selectorCls, selectorPath, cfg, rules)
	selector = p.leaf(selectorCls, selector, cfg, rules)
	selector.Discriminator = true

	fields := []Field{selector}
	branch, ok := node.Branch(selector.Value)
	if !ok {
		if !isBlank(selector.Value) {
			p.logger.Debug().Str("path", selectorPath.String()).Interface("value", selector.Value).Msg("no union branch for discriminator value")
		}
		return fields, true
	}
	for _, field := range p.object(branch, path) {
		if field.Name == selectorPath.String() {
			continue
		}
		fields = append(fields, field)
	}
	return fields, true
}

func isBlank(value any) bool {
	s, ok := value.(string)
	return value == nil || (ok && s == "")
}

func cloneProps(props map[string]any) map[string]any {
	if len(props) == 0 {
		return nil
	}
	out := make(map[string]any, len(props))
	for key, value := range props {
		out[key] = value
	}
	return out
}
