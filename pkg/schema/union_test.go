package schema

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDiscriminatedUnionSelectsBranch(t *testing.T) {
	t.Parallel()

	admin := Object(Prop("kind", Literal("admin")), Prop("level", Number()))
	guest := Object(Prop("kind", Literal("guest")))
	union := MustDiscriminatedUnion("kind", admin, guest)

	if diff := cmp.Diff([]any{"admin", "guest"}, union.Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	if union.Numeric() || union.Selector().Coercion() != CoerceNone {
		t.Fatalf("string union must not coerce numbers")
	}
	if got, ok := union.Branch("admin"); !ok || got != admin {
		t.Fatalf("expected admin branch")
	}
	for _, value := range []any{nil, "", "  ", "owner"} {
		if _, ok := union.Branch(value); ok {
			t.Fatalf("value %q should not match a branch", value)
		}
	}
}

func TestDiscriminatedUnionNumericSelector(t *testing.T) {
	t.Parallel()

	one := Object(Prop("kind", Literal(1)), Prop("a", String()))
	two := Object(Prop("kind", Literal(2)), Prop("b", String()))
	union := MustDiscriminatedUnion("kind", one, two)

	if !union.Numeric() {
		t.Fatalf("expected numeric union")
	}
	selector := union.Selector()
	if selector.Coercion() != CoerceNumber {
		t.Fatalf("selector coercion = %s, want number", selector.Coercion())
	}
	if selector != union.Selector() {
		t.Fatalf("selector must be built once")
	}
	for _, value := range []any{1, 1.0, "1", " 1 "} {
		if got, ok := union.Branch(value); !ok || got != one {
			t.Fatalf("value %#v should select branch 1", value)
		}
	}
	if _, ok := union.Branch(3); ok {
		t.Fatalf("value 3 should not match")
	}
	coerced, err := CoerceInput(selector, "2")
	if err != nil || coerced != 2.0 {
		t.Fatalf("CoerceInput = %v, %v; want 2", coerced, err)
	}
}

func TestDiscriminatedUnionValidation(t *testing.T) {
	t.Parallel()

	if _, err := DiscriminatedUnion(""); !errors.Is(err, ErrDiscriminatorRequired) {
		t.Fatalf("expected ErrDiscriminatorRequired, got %v", err)
	}
	if _, err := DiscriminatedUnion("kind"); !errors.Is(err, ErrNoBranches) {
		t.Fatalf("expected ErrNoBranches, got %v", err)
	}
	cases := map[string][]*ObjectNode{
		"missing key": {Object(Prop("other", String()))},
		"not literal": {Object(Prop("kind", String()))},
		"duplicate": {
			Object(Prop("kind", Literal("a"))),
			Object(Prop("kind", Literal("a"))),
		},
		"nil branch": {nil},
	}
	for name, branches := range cases {
		if _, err := DiscriminatedUnion("kind", branches...); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestObjectKeepsDeclarationOrder(t *testing.T) {
	t.Parallel()

	obj := Object(
		Prop("zeta", String()),
		Prop("alpha", String()),
		Prop("", String()),
		Prop("mid", String()),
		Prop("zeta", Number()),
	)
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, obj.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	node, _ := obj.Field("zeta")
	if node.Kind() != KindNumber {
		t.Fatalf("repeated name should replace the node")
	}

	extended := obj.Extend(Prop("omega", Boolean()))
	if len(obj.Keys()) != 3 || len(extended.Keys()) != 4 {
		t.Fatalf("Extend must not mutate the receiver")
	}
}
