package validation

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autoform/pkg/schema"
)

func accountSchema() schema.Node {
	return schema.Object(
		schema.Prop("name", schema.String().Min(2)),
		schema.Prop("nickname", schema.Optional(schema.String())),
		schema.Prop("role", schema.MustDiscriminatedUnion("kind",
			schema.Object(schema.Prop("kind", schema.Literal("admin")), schema.Prop("level", schema.Int().Min(1))),
			schema.Object(schema.Prop("kind", schema.Literal("guest"))),
		)),
		schema.Prop("members", schema.Array(schema.Object(schema.Prop("email", schema.String())))),
	)
}

func fields(issues Issues) []string {
	out := make([]string, 0, len(issues))
	for _, issue := range issues {
		out = append(out, issue.Field)
	}
	return out
}

func TestJSONSchemaValidatorAcceptsValidTree(t *testing.T) {
	t.Parallel()

	validator, err := NewJSONSchemaValidator(accountSchema())
	if err != nil {
		t.Fatalf("NewJSONSchemaValidator: %v", err)
	}
	values := map[string]any{
		"name":    "Sam",
		"role":    map[string]any{"kind": "admin", "level": 3},
		"members": []any{map[string]any{"email": "a@b.c"}},
	}
	if err := validator.Validate(context.Background(), values); err != nil {
		t.Fatalf("expected valid tree, got %v", err)
	}
}

func TestJSONSchemaValidatorReportsFieldPaths(t *testing.T) {
	t.Parallel()

	validator, err := NewJSONSchemaValidator(accountSchema())
	if err != nil {
		t.Fatalf("NewJSONSchemaValidator: %v", err)
	}
	values := map[string]any{
		"role":    map[string]any{"kind": "admin"},
		"members": []any{map[string]any{"email": 7}},
	}
	err = validator.Validate(context.Background(), values)

	var issues Issues
	if !errors.As(err, &issues) {
		t.Fatalf("expected Issues, got %T %v", err, err)
	}
	want := []string{"members.0.email", "name", "role.level"}
	if diff := cmp.Diff(want, fields(issues)); diff != "" {
		t.Fatalf("issue fields mismatch (-want +got):\n%s", diff)
	}
	if issues.ByField()["name"][0] != "is required" {
		t.Fatalf("unexpected name message: %v", issues.ByField()["name"])
	}
}

func TestJSONSchemaValidatorHonoursContext(t *testing.T) {
	t.Parallel()

	validator, err := NewJSONSchemaValidator(accountSchema())
	if err != nil {
		t.Fatalf("NewJSONSchemaValidator: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := validator.Validate(ctx, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestFieldFromPointer(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"":                 "",
		"/":                "",
		"/name":            "name",
		"#/members/0/mail": "members.0.mail",
		"/a~1b/c~0d":       "a/b.c~d",
	}
	for pointer, want := range cases {
		if got := FieldFromPointer(pointer); got != want {
			t.Fatalf("FieldFromPointer(%q) = %q, want %q", pointer, got, want)
		}
	}
}
