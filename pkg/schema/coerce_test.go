package schema

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func roleSchema() *ObjectNode {
	return Object(
		Prop("name", String()),
		Prop("age", Optional(Number())),
		Prop("active", Default(Boolean(), true)),
		Prop("nickname", Effects(Optional(String()), func(v any) (any, error) {
			if s, ok := v.(string); ok {
				return strings.ToUpper(s), nil
			}
			return v, nil
		})),
		Prop("role", MustDiscriminatedUnion("tier",
			Object(Prop("tier", Literal(1)), Prop("level", Number())),
			Object(Prop("tier", Literal(2))),
		)),
		Prop("tags", Array(Object(Prop("label", String())))),
	)
}

func TestCoerceAppliesDefaultsAndTransforms(t *testing.T) {
	t.Parallel()

	got, err := Coerce(roleSchema(), map[string]any{
		"name":     "Sam",
		"age":      "",
		"nickname": "sammy",
		"unknown":  "dropped",
		"role":     map[string]any{"tier": "1", "level": "4", "stale": true},
		"tags":     []any{map[string]any{"label": "x"}},
	})
	if err != nil {
		t.Fatalf("Coerce: %v", err)
	}
	want := map[string]any{
		"name":     "Sam",
		"active":   true,
		"nickname": "SAMMY",
		"role":     map[string]any{"tier": 1.0, "level": 4.0},
		"tags":     []any{map[string]any{"label": "x"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("coerced mismatch (-want +got):\n%s", diff)
	}
}

func TestCoerceReportsPath(t *testing.T) {
	t.Parallel()

	_, err := Coerce(roleSchema(), map[string]any{
		"role": map[string]any{"tier": 1, "level": "high"},
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "role.level") {
		t.Fatalf("error %q should name role.level", err)
	}
}

func TestAtFollowsSelectedBranch(t *testing.T) {
	t.Parallel()

	root := roleSchema()
	values := map[string]any{"role": map[string]any{"tier": 1}}

	node, ok := At(root, []string{"role", "level"}, values)
	if !ok || Classify(node).Kind != KindNumber {
		t.Fatalf("expected number node at role.level")
	}
	if _, ok := At(root, []string{"role", "level"}, map[string]any{}); ok {
		t.Fatalf("branch fields are unreachable without a selected branch")
	}
	selector, ok := At(root, []string{"role", "tier"}, nil)
	if !ok || selector.Kind() != KindEnum {
		t.Fatalf("discriminator path should resolve to the selector")
	}
	label, ok := At(root, []string{"tags", "3", "label"}, nil)
	if !ok || label.Kind() != KindString {
		t.Fatalf("expected string at tags.3.label")
	}
}

func TestJSONSchemaExport(t *testing.T) {
	t.Parallel()

	doc := JSONSchema(Object(
		Prop("name", String().Min(2).Format("url")),
		Prop("count", Default(Int().Max(5), 1)),
	))
	want := map[string]any{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"type":    "object",
		"properties": map[string]any{
			"name":  map[string]any{"type": "string", "minLength": 2, "format": "uri"},
			"count": map[string]any{"type": "integer", "maximum": 5.0, "default": 1},
		},
		"required": []any{"name"},
	}
	if diff := cmp.Diff(want, doc); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}
