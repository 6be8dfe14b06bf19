package openapi

import (
	"fmt"
	"sort"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-autoform/pkg/schema"
)

const (
	maxSchemaDepth = 32
	// orderExtension pins the position of a property; unpinned properties
	// follow in name order.
	orderExtension = "x-order"
)

func convert(ref *openapi3.SchemaRef, pointer string, depth int) (schema.Node, error) {
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%s: unresolved schema %q", pointer, refName(ref))
	}
	if depth > maxSchemaDepth {
		return nil, fmt.Errorf("%s: schema nesting exceeds %d (recursive $ref?)", pointer, maxSchemaDepth)
	}
	src := ref.Value

	base, err := convertBase(src, pointer, depth)
	if err != nil {
		return nil, err
	}
	base = schema.WithDescription(base, src.Description)

	out := base
	if src.Nullable {
		out = schema.Nullable(out)
	}
	if src.Default != nil {
		out = schema.Default(out, src.Default)
	}
	return out, nil
}

func convertBase(src *openapi3.Schema, pointer string, depth int) (schema.Node, error) {
	if len(src.Enum) > 0 {
		return enumNode(src.Enum), nil
	}
	if src.Discriminator != nil && len(src.OneOf) > 0 {
		return convertUnion(src, pointer, depth)
	}
	if len(src.AllOf) > 0 {
		return convertAllOf(src, pointer, depth)
	}

	switch {
	case src.Type.Is(openapi3.TypeObject), src.Type == nil && len(src.Properties) > 0:
		return convertObject(src, pointer, depth)
	case src.Type.Is(openapi3.TypeArray):
		if src.Items == nil {
			return nil, fmt.Errorf("%s: array schema requires items", pointer)
		}
		element, err := convert(src.Items, pointer+"/items", depth+1)
		if err != nil {
			return nil, err
		}
		out := schema.Array(element)
		if src.MinItems > 0 {
			out = out.Min(int(src.MinItems))
		}
		if src.MaxItems != nil {
			out = out.Max(int(*src.MaxItems))
		}
		return out, nil
	case src.Type.Is(openapi3.TypeString):
		return convertString(src, pointer)
	case src.Type.Is(openapi3.TypeInteger), src.Type.Is(openapi3.TypeNumber):
		out := schema.Number()
		if src.Type.Is(openapi3.TypeInteger) {
			out = schema.Int()
		}
		if src.Min != nil {
			out = out.Min(*src.Min)
		}
		if src.Max != nil {
			out = out.Max(*src.Max)
		}
		if src.MultipleOf != nil {
			out = out.Step(*src.MultipleOf)
		}
		return out, nil
	case src.Type.Is(openapi3.TypeBoolean):
		return schema.Boolean(), nil
	default:
		return nil, fmt.Errorf("%s: unsupported schema type %v", pointer, src.Type.Slice())
	}
}

func convertString(src *openapi3.Schema, pointer string) (schema.Node, error) {
	if src.Format == "date" {
		out := schema.Date()
		for key, apply := range map[string]func(time.Time){
			"formatMinimum": func(t time.Time) { out = out.Min(t) },
			"formatMaximum": func(t time.Time) { out = out.Max(t) },
		} {
			raw, ok := src.Extensions["x-"+key].(string)
			if !ok {
				continue
			}
			parsed, err := time.Parse(schema.DateLayout, raw)
			if err != nil {
				return nil, fmt.Errorf("%s/x-%s: %w", pointer, key, err)
			}
			apply(parsed)
		}
		return out, nil
	}

	out := schema.String()
	if src.Format != "" {
		out = out.Format(src.Format)
	}
	if src.MinLength > 0 {
		out = out.Min(int(src.MinLength))
	}
	if src.MaxLength != nil {
		out = out.Max(int(*src.MaxLength))
	}
	if src.Pattern != "" {
		out = out.Pattern(src.Pattern)
	}
	return out, nil
}

type orderedProperty struct {
	name     string
	ref      *openapi3.SchemaRef
	order    float64
	hasOrder bool
}

// properties orders a schema's properties: x-order first, then by name.
func properties(src *openapi3.Schema) []orderedProperty {
	out := make([]orderedProperty, 0, len(src.Properties))
	for name, ref := range src.Properties {
		prop := orderedProperty{name: name, ref: ref}
		if ref != nil && ref.Value != nil {
			if raw, ok := ref.Value.Extensions[orderExtension]; ok {
				prop.order, prop.hasOrder = schema.ToNumber(raw)
			}
		}
		out = append(out, prop)
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.hasOrder != b.hasOrder {
			return a.hasOrder
		}
		if a.hasOrder && a.order != b.order {
			return a.order < b.order
		}
		return a.name < b.name
	})
	return out
}

func convertObject(src *openapi3.Schema, pointer string, depth int) (*schema.ObjectNode, error) {
	fields, err := objectFields(src, pointer, depth)
	if err != nil {
		return nil, err
	}
	return schema.Object(fields...), nil
}

func objectFields(src *openapi3.Schema, pointer string, depth int) ([]schema.Field, error) {
	required := make(map[string]bool, len(src.Required))
	for _, name := range src.Required {
		required[name] = true
	}
	props := properties(src)
	fields := make([]schema.Field, 0, len(props))
	for _, prop := range props {
		child, err := convert(prop.ref, pointer+"/properties/"+prop.name, depth+1)
		if err != nil {
			return nil, err
		}
		if !required[prop.name] && !schema.Classify(child).HasDefault {
			child = schema.Optional(child)
		}
		fields = append(fields, schema.Prop(prop.name, child))
	}
	return fields, nil
}

// convertAllOf merges object members; later members replace earlier
// properties with the same name.
func convertAllOf(src *openapi3.Schema, pointer string, depth int) (schema.Node, error) {
	merged := schema.Object()
	for i, member := range src.AllOf {
		node, err := convert(member, fmt.Sprintf("%s/allOf/%d", pointer, i), depth+1)
		if err != nil {
			return nil, err
		}
		object, ok := schema.Classify(node).Node.(*schema.ObjectNode)
		if !ok {
			return nil, fmt.Errorf("%s/allOf/%d: only object members can be merged", pointer, i)
		}
		merged = merged.Extend(object.Fields()...)
	}
	if len(src.Properties) > 0 {
		own, err := objectFields(src, pointer, depth)
		if err != nil {
			return nil, err
		}
		merged = merged.Extend(own...)
	}
	return merged, nil
}

func convertUnion(src *openapi3.Schema, pointer string, depth int) (schema.Node, error) {
	branches := make([]*schema.ObjectNode, 0, len(src.OneOf))
	for i, member := range src.OneOf {
		node, err := convert(member, fmt.Sprintf("%s/oneOf/%d", pointer, i), depth+1)
		if err != nil {
			return nil, err
		}
		object, ok := schema.Classify(node).Node.(*schema.ObjectNode)
		if !ok {
			return nil, fmt.Errorf("%s/oneOf/%d: union branch must be an object", pointer, i)
		}
		branches = append(branches, singleValueLiteral(object, src.Discriminator.PropertyName))
	}
	union, err := schema.DiscriminatedUnion(src.Discriminator.PropertyName, branches...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", pointer, err)
	}
	return union, nil
}

// singleValueLiteral rewrites a one-value enum discriminator (the usual
// OpenAPI 3.0 spelling of a constant) into a literal.
func singleValueLiteral(branch *schema.ObjectNode, key string) *schema.ObjectNode {
	node, ok := branch.Field(key)
	if !ok {
		return branch
	}
	enum, ok := schema.Classify(node).Node.(*schema.EnumNode)
	if !ok {
		return branch
	}
	values := enum.Values()
	if len(values) != 1 {
		return branch
	}
	return branch.Extend(schema.Prop(key, schema.Literal(values[0])))
}

func enumNode(values []any) *schema.EnumNode {
	numeric := true
	for _, value := range values {
		if _, isString := value.(string); isString {
			numeric = false
			continue
		}
		if _, ok := schema.ToNumber(value); !ok {
			numeric = false
		}
	}
	coercion := schema.CoerceNone
	if numeric {
		coercion = schema.CoerceNumber
	}
	return schema.EnumOf(values, coercion)
}

func refName(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return ""
	}
	return ref.Ref
}
