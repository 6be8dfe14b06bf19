package schemadoc

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-autoform/pkg/schema"
)

const maxRefDepth = 32

// Load reads and parses the document at name.
func Load(fsys fs.FS, name string) (schema.Node, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("schemadoc: read %s: %w", name, err)
	}
	return Parse(data)
}

// Parse builds a schema node from a YAML or JSON document.
func Parse(data []byte) (schema.Node, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, &Error{Message: "document is empty"}
	}
	if trimmed[0] == '{' && !json.Valid(trimmed) {
		var probe any
		err := json.Unmarshal(trimmed, &probe)
		return nil, &Error{Message: "invalid JSON", Err: err}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return nil, &Error{Message: "invalid YAML", Err: err}
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	if root.Kind != yaml.MappingNode {
		return nil, &Error{Line: root.Line, Message: "document root must be a mapping"}
	}

	b := &builder{defs: make(map[string]*yaml.Node)}
	for _, section := range []string{"$defs", "definitions"} {
		defs := lookup(root, section)
		if defs == nil {
			continue
		}
		for _, pair := range pairs(defs) {
			b.defs["#/"+section+"/"+pair.key] = pair.value
		}
	}
	return b.build(root, "", 0)
}

type builder struct {
	defs map[string]*yaml.Node
}

type pair struct {
	key   string
	value *yaml.Node
}

func pairs(node *yaml.Node) []pair {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	out := make([]pair, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		out = append(out, pair{key: node.Content[i].Value, value: node.Content[i+1]})
	}
	return out
}

func lookup(node *yaml.Node, key string) *yaml.Node {
	for _, p := range pairs(node) {
		if p.key == key {
			return p.value
		}
	}
	return nil
}

func (b *builder) fail(node *yaml.Node, pointer, format string, args ...any) error {
	line := 0
	if node != nil {
		line = node.Line
	}
	return &Error{Pointer: pointer, Line: line, Message: fmt.Sprintf(format, args...)}
}

func (b *builder) scalar(node *yaml.Node, pointer string, target any) error {
	if err := node.Decode(target); err != nil {
		return &Error{Pointer: pointer, Line: node.Line, Message: "invalid value", Err: err}
	}
	return nil
}

func (b *builder) str(node *yaml.Node, key, pointer string) (string, error) {
	value := lookup(node, key)
	if value == nil {
		return "", nil
	}
	var out string
	err := b.scalar(value, pointer+"/"+key, &out)
	return strings.TrimSpace(out), err
}

func (b *builder) float(node *yaml.Node, key, pointer string) (*float64, error) {
	value := lookup(node, key)
	if value == nil {
		return nil, nil
	}
	var out float64
	if err := b.scalar(value, pointer+"/"+key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (b *builder) integer(node *yaml.Node, key, pointer string) (*int, error) {
	value := lookup(node, key)
	if value == nil {
		return nil, nil
	}
	var out int
	if err := b.scalar(value, pointer+"/"+key, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// build converts one schema mapping, applying nullable, default and
// description around the base node.
func (b *builder) build(node *yaml.Node, pointer string, depth int) (schema.Node, error) {
	if node.Kind != yaml.MappingNode {
		return nil, b.fail(node, pointer, "schema must be a mapping")
	}
	if ref := lookup(node, "$ref"); ref != nil {
		if depth >= maxRefDepth {
			return nil, b.fail(ref, pointer, "$ref nesting exceeds %d", maxRefDepth)
		}
		target, ok := b.defs[ref.Value]
		if !ok {
			return nil, b.fail(ref, pointer+"/$ref", "unresolved reference %q", ref.Value)
		}
		return b.build(target, ref.Value, depth+1)
	}

	base, err := b.base(node, pointer, depth)
	if err != nil {
		return nil, err
	}
	description, err := b.str(node, "description", pointer)
	if err != nil {
		return nil, err
	}
	base = schema.WithDescription(base, description)

	out := base
	if value := lookup(node, "nullable"); value != nil {
		var nullable bool
		if err := b.scalar(value, pointer+"/nullable", &nullable); err != nil {
			return nil, err
		}
		if nullable {
			out = schema.Nullable(out)
		}
	}
	if value := lookup(node, "default"); value != nil {
		var def any
		if err := b.scalar(value, pointer+"/default", &def); err != nil {
			return nil, err
		}
		out = schema.Default(out, def)
	}
	return out, nil
}

func (b *builder) base(node *yaml.Node, pointer string, depth int) (schema.Node, error) {
	if value := lookup(node, "const"); value != nil {
		var literal any
		if err := b.scalar(value, pointer+"/const", &literal); err != nil {
			return nil, err
		}
		return schema.Literal(literal), nil
	}
	if value := lookup(node, "enum"); value != nil {
		return b.enum(value, pointer+"/enum")
	}
	if lookup(node, "oneOf") != nil {
		return b.union(node, pointer, depth)
	}

	typ, err := b.str(node, "type", pointer)
	if err != nil {
		return nil, err
	}
	if typ == "" && lookup(node, "properties") != nil {
		typ = "object"
	}
	switch typ {
	case "object":
		return b.object(node, pointer, depth)
	case "array":
		return b.array(node, pointer, depth)
	case "string":
		return b.stringNode(node, pointer)
	case "number", "integer":
		return b.number(node, pointer, typ == "integer")
	case "boolean":
		return schema.Boolean(), nil
	case "":
		return nil, b.fail(node, pointer, "schema has no type")
	default:
		return nil, b.fail(lookup(node, "type"), pointer+"/type", "unsupported type %q", typ)
	}
}

func (b *builder) object(node *yaml.Node, pointer string, depth int) (*schema.ObjectNode, error) {
	required := make(map[string]bool)
	if value := lookup(node, "required"); value != nil {
		var names []string
		if err := b.scalar(value, pointer+"/required", &names); err != nil {
			return nil, err
		}
		for _, name := range names {
			required[name] = true
		}
	}

	props := pairs(lookup(node, "properties"))
	fields := make([]schema.Field, 0, len(props))
	for _, prop := range props {
		child, err := b.build(prop.value, pointer+"/properties/"+escape(prop.key), depth)
		if err != nil {
			return nil, err
		}
		if !required[prop.key] && !hasDefault(child) {
			child = schema.Optional(child)
		}
		fields = append(fields, schema.Prop(prop.key, child))
	}
	return schema.Object(fields...), nil
}

func (b *builder) array(node *yaml.Node, pointer string, depth int) (schema.Node, error) {
	items := lookup(node, "items")
	if items == nil {
		return nil, b.fail(node, pointer, "array schema requires items")
	}
	element, err := b.build(items, pointer+"/items", depth)
	if err != nil {
		return nil, err
	}
	out := schema.Array(element)
	minItems, err := b.integer(node, "minItems", pointer)
	if err != nil {
		return nil, err
	}
	maxItems, err := b.integer(node, "maxItems", pointer)
	if err != nil {
		return nil, err
	}
	if minItems != nil {
		out = out.Min(*minItems)
	}
	if maxItems != nil {
		out = out.Max(*maxItems)
	}
	return out, nil
}

func (b *builder) stringNode(node *yaml.Node, pointer string) (schema.Node, error) {
	format, err := b.str(node, "format", pointer)
	if err != nil {
		return nil, err
	}
	if format == "date" {
		return b.date(node, pointer)
	}

	out := schema.String()
	if format != "" {
		out = out.Format(format)
	}
	minLength, err := b.integer(node, "minLength", pointer)
	if err != nil {
		return nil, err
	}
	maxLength, err := b.integer(node, "maxLength", pointer)
	if err != nil {
		return nil, err
	}
	pattern, err := b.str(node, "pattern", pointer)
	if err != nil {
		return nil, err
	}
	if minLength != nil {
		out = out.Min(*minLength)
	}
	if maxLength != nil {
		out = out.Max(*maxLength)
	}
	if pattern != "" {
		out = out.Pattern(pattern)
	}
	return out, nil
}

func (b *builder) date(node *yaml.Node, pointer string) (schema.Node, error) {
	out := schema.Date()
	for _, key := range []string{"formatMinimum", "formatMaximum"} {
		raw, err := b.str(node, key, pointer)
		if err != nil {
			return nil, err
		}
		if raw == "" {
			continue
		}
		parsed, err := time.Parse(schema.DateLayout, raw)
		if err != nil {
			return nil, &Error{Pointer: pointer + "/" + key, Line: lookup(node, key).Line, Message: "invalid date", Err: err}
		}
		if key == "formatMinimum" {
			out = out.Min(parsed)
		} else {
			out = out.Max(parsed)
		}
	}
	return out, nil
}

func (b *builder) number(node *yaml.Node, pointer string, integer bool) (schema.Node, error) {
	out := schema.Number()
	if integer {
		out = schema.Int()
	}
	minimum, err := b.float(node, "minimum", pointer)
	if err != nil {
		return nil, err
	}
	maximum, err := b.float(node, "maximum", pointer)
	if err != nil {
		return nil, err
	}
	step, err := b.float(node, "multipleOf", pointer)
	if err != nil {
		return nil, err
	}
	if minimum != nil {
		out = out.Min(*minimum)
	}
	if maximum != nil {
		out = out.Max(*maximum)
	}
	if step != nil {
		out = out.Step(*step)
	}
	return out, nil
}

func (b *builder) enum(node *yaml.Node, pointer string) (schema.Node, error) {
	var values []any
	if err := b.scalar(node, pointer, &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, b.fail(node, pointer, "enum must list at least one value")
	}
	numeric := true
	for _, value := range values {
		if _, ok := schema.ToNumber(value); !ok {
			numeric = false
		}
		if _, ok := value.(string); ok {
			numeric = false
		}
	}
	coercion := schema.CoerceNone
	if numeric {
		coercion = schema.CoerceNumber
	}
	return schema.EnumOf(values, coercion), nil
}

// union reads a discriminated union: a discriminator (name or mapping with
// propertyName) plus oneOf object branches.
func (b *builder) union(node *yaml.Node, pointer string, depth int) (schema.Node, error) {
	disc := lookup(node, "discriminator")
	if disc == nil {
		return nil, b.fail(node, pointer, "oneOf requires a discriminator")
	}
	key := disc.Value
	if disc.Kind == yaml.MappingNode {
		var err error
		if key, err = b.str(disc, "propertyName", pointer+"/discriminator"); err != nil {
			return nil, err
		}
	}

	branchNodes := lookup(node, "oneOf")
	if branchNodes.Kind != yaml.SequenceNode {
		return nil, b.fail(branchNodes, pointer+"/oneOf", "oneOf must be a list")
	}
	branches := make([]*schema.ObjectNode, 0, len(branchNodes.Content))
	for i, item := range branchNodes.Content {
		branchPointer := fmt.Sprintf("%s/oneOf/%d", pointer, i)
		built, err := b.build(item, branchPointer, depth)
		if err != nil {
			return nil, err
		}
		object, ok := schema.Classify(built).Node.(*schema.ObjectNode)
		if !ok {
			return nil, b.fail(item, branchPointer, "union branch must be an object")
		}
		branches = append(branches, object)
	}

	union, err := schema.DiscriminatedUnion(key, branches...)
	if err != nil {
		return nil, &Error{Pointer: pointer, Line: node.Line, Err: err}
	}
	return union, nil
}

func hasDefault(node schema.Node) bool {
	return schema.Classify(node).HasDefault
}

func escape(key string) string {
	key = strings.ReplaceAll(key, "~", "~0")
	return strings.ReplaceAll(key, "/", "~1")
}
