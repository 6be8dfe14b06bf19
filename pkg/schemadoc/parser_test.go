package schemadoc

import (
	"errors"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autoform/pkg/schema"
)

func TestLoadKeepsDocumentOrder(t *testing.T) {
	t.Parallel()

	node, err := Load(os.DirFS("testdata"), "account.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	root, ok := node.(*schema.ObjectNode)
	if !ok {
		t.Fatalf("expected object root, got %T", node)
	}
	if diff := cmp.Diff([]string{"name", "plan", "born", "role", "members"}, root.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}

	name, _ := root.Field("name")
	cls := schema.Classify(name)
	if cls.Kind != schema.KindString || !cls.Required() || cls.Description != "Display name" {
		t.Fatalf("unexpected name classification: %+v", cls)
	}

	plan, _ := root.Field("plan")
	cls = schema.Classify(plan)
	if cls.Kind != schema.KindEnum || !cls.HasDefault || cls.Default != "free" {
		t.Fatalf("unexpected plan classification: %+v", cls)
	}

	born, _ := root.Field("born")
	cls = schema.Classify(born)
	if cls.Kind != schema.KindDate || !cls.Optional {
		t.Fatalf("unexpected born classification: %+v", cls)
	}
	if minDate := cls.Node.(schema.LeafConstraints).Constraints().MinDate; minDate == nil || minDate.Year() != 1900 {
		t.Fatalf("unexpected min date %v", minDate)
	}

	role, _ := root.Field("role")
	union, ok := schema.Classify(role).Node.(*schema.DiscriminatedUnionNode)
	if !ok {
		t.Fatalf("expected union, got %T", role)
	}
	if diff := cmp.Diff([]any{"admin", "guest"}, union.Options()); diff != "" {
		t.Fatalf("union options mismatch (-want +got):\n%s", diff)
	}

	members, _ := root.Field("members")
	array, ok := schema.Classify(members).Node.(*schema.ArrayNode)
	if !ok {
		t.Fatalf("expected array, got %T", members)
	}
	element, ok := array.Element().(*schema.ObjectNode)
	if !ok {
		t.Fatalf("expected object element, got %T", array.Element())
	}
	if diff := cmp.Diff([]string{"email", "admin"}, element.Keys()); diff != "" {
		t.Fatalf("element keys mismatch (-want +got):\n%s", diff)
	}
}

func TestParseJSONDocument(t *testing.T) {
	t.Parallel()

	node, err := Parse([]byte(`{"type":"object","properties":{"zeta":{"type":"number"},"alpha":{"enum":[1,2,3]}},"required":["zeta"]}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	root := node.(*schema.ObjectNode)
	if diff := cmp.Diff([]string{"zeta", "alpha"}, root.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
	alpha, _ := root.Field("alpha")
	enum := schema.Classify(alpha).Node.(*schema.EnumNode)
	if enum.Coercion() != schema.CoerceNumber {
		t.Fatalf("numeric enum should coerce numbers")
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		doc     string
		pointer string
	}{
		"empty":        {doc: "  ", pointer: ""},
		"bad json":     {doc: `{"type": }`, pointer: ""},
		"no type":      {doc: "type: object\nproperties:\n  a: {}\n", pointer: "/properties/a"},
		"bad type":     {doc: "type: object\nproperties:\n  a: {type: tuple}\n", pointer: "/properties/a/type"},
		"missing ref":  {doc: "type: object\nproperties:\n  a: {$ref: '#/$defs/x'}\n", pointer: "/properties/a/$ref"},
		"no items":     {doc: "type: object\nproperties:\n  a: {type: array}\n", pointer: "/properties/a"},
		"bad branch":   {doc: "type: object\nproperties:\n  a:\n    discriminator: k\n    oneOf:\n      - {type: string}\n", pointer: "/properties/a/oneOf/0"},
		"no literal":   {doc: "type: object\nproperties:\n  a:\n    discriminator: k\n    oneOf:\n      - {properties: {k: {type: string}}}\n", pointer: "/properties/a"},
		"root not map": {doc: "- a\n- b\n", pointer: ""},
	}
	for name, tc := range cases {
		_, err := Parse([]byte(tc.doc))
		var docErr *Error
		if !errors.As(err, &docErr) {
			t.Fatalf("%s: expected *Error, got %T %v", name, err, err)
		}
		if docErr.Pointer != tc.pointer {
			t.Fatalf("%s: pointer = %q, want %q (%v)", name, docErr.Pointer, tc.pointer, err)
		}
	}
}
