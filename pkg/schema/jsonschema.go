package schema

// formatAliases maps input oriented formats onto JSON Schema format names.
var formatAliases = map[string]string{
	"url":      "uri",
	"datetime": "date-time",
}

// JSONSchema exports node as a JSON Schema (draft 2020-12) document built
// from plain maps and slices. Discriminated unions become an enum on the
// discriminator plus one if/then pair per branch so validation errors point
// at branch fields rather than at every failed alternative.
func JSONSchema(node Node) map[string]any {
	out := exportNode(node)
	out["$schema"] = "https://json-schema.org/draft/2020-12/schema"
	return out
}

func exportNode(node Node) map[string]any {
	if node == nil {
		return map[string]any{}
	}
	if node.Kind() == KindWrapper {
		wrapped, ok := node.(Unwrappable)
		if !ok {
			return map[string]any{}
		}
		out := exportNode(wrapped.Unwrap())
		switch wrapped.Modifier() {
		case ModifierDefault:
			if defaulted, ok := node.(Defaulted); ok {
				out["default"] = defaulted.DefaultValue()
			}
		case ModifierNullable:
			out = map[string]any{"anyOf": []any{out, map[string]any{"type": "null"}}}
		}
		withDescription(out, node.Description())
		return out
	}

	var out map[string]any
	switch typed := node.(type) {
	case *ObjectNode:
		out = exportObject(typed, "")
	case *ArrayNode:
		out = map[string]any{"type": "array", "items": exportNode(typed.Element())}
		minItems, maxItems := typed.Bounds()
		if minItems != nil {
			out["minItems"] = *minItems
		}
		if maxItems != nil {
			out["maxItems"] = *maxItems
		}
	case *EnumNode:
		out = map[string]any{"enum": typed.Values()}
	case *DiscriminatedUnionNode:
		out = exportUnion(typed)
	case *LiteralNode:
		out = map[string]any{"const": typed.Value()}
	case *StringNode:
		out = map[string]any{"type": "string"}
		applyStringConstraints(out, typed.Constraints())
	case *NumberNode:
		c := typed.Constraints()
		out = map[string]any{"type": "number"}
		if c.Integer {
			out["type"] = "integer"
		}
		if c.Min != nil {
			out["minimum"] = *c.Min
		}
		if c.Max != nil {
			out["maximum"] = *c.Max
		}
	case *BooleanNode:
		out = map[string]any{"type": "boolean"}
	case *DateNode:
		out = map[string]any{"type": "string", "format": "date"}
	default:
		out = map[string]any{}
	}
	withDescription(out, node.Description())
	return out
}

func exportObject(node *ObjectNode, skip string) map[string]any {
	properties := make(map[string]any, len(node.fields))
	var required []any
	for _, field := range node.fields {
		properties[field.Name] = exportNode(field.Node)
		if field.Name != skip && Classify(field.Node).Required() {
			required = append(required, field.Name)
		}
	}
	out := map[string]any{"type": "object", "properties": properties}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func exportUnion(node *DiscriminatedUnionNode) map[string]any {
	key := node.Discriminator()
	rules := make([]any, 0, len(node.branches))
	for i, branch := range node.branches {
		rules = append(rules, map[string]any{
			"if": map[string]any{
				"properties": map[string]any{key: map[string]any{"const": node.literals[i]}},
				"required":   []any{key},
			},
			"then": exportObject(branch, key),
		})
	}
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{key: map[string]any{"enum": node.Options()}},
		"required":   []any{key},
		"allOf":      rules,
	}
}

func applyStringConstraints(out map[string]any, c Constraints) {
	if c.MinLength != nil {
		out["minLength"] = *c.MinLength
	}
	if c.MaxLength != nil {
		out["maxLength"] = *c.MaxLength
	}
	if c.Pattern != "" {
		out["pattern"] = c.Pattern
	}
	if c.Format != "" {
		format := c.Format
		if alias, ok := formatAliases[format]; ok {
			format = alias
		}
		out["format"] = format
	}
}

func withDescription(out map[string]any, description string) {
	if description != "" {
		out["description"] = description
	}
}
