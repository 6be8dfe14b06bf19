package model

import (
	"strconv"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-autoform/pkg/dependency"
	"github.com/goliatone/go-autoform/pkg/schema"
	"github.com/goliatone/go-autoform/pkg/uischema"
)

// treeState reads a nested value tree; array entry keys are derived from
// positions.
type treeState struct {
	values map[string]any
}

func (s treeState) Value(path Path) (any, bool) {
	var current any = s.values
	for _, segment := range path {
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(typed) {
				return nil, false
			}
			current = typed[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

func (s treeState) Entries(path Path) []Entry {
	value, _ := s.Value(path)
	items, _ := value.([]any)
	out := make([]Entry, len(items))
	for i := range items {
		out[i] = Entry{Key: "key-" + strconv.Itoa(i)}
	}
	return out
}

type unknownNode struct{}

func (unknownNode) Kind() schema.Kind   { return schema.KindUnsupported }
func (unknownNode) Description() string { return "" }

func resolve(t *testing.T, in Input) FormModel {
	t.Helper()
	form, err := New(Options{}).Resolve(in)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return form
}

func names(fields []Field) []string {
	out := make([]string, len(fields))
	for i, field := range fields {
		out[i] = field.Name
	}
	return out
}

func roleSchema() *schema.ObjectNode {
	return schema.Object(
		schema.Prop("name", schema.String()),
		schema.Prop("role", schema.MustDiscriminatedUnion("kind",
			schema.Object(schema.Prop("kind", schema.Literal("admin")), schema.Prop("level", schema.Number())),
			schema.Object(schema.Prop("kind", schema.Literal("guest"))),
		)),
	)
}

func TestResolveRoleScenario(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"name": "Sam",
		"role": map[string]any{"kind": "admin", "level": 2},
	}
	form := resolve(t, Input{Schema: roleSchema(), State: treeState{values}})

	flat := form.Flatten()
	if diff := cmp.Diff([]string{"name", "role.kind", "role.level"}, names(flat)); diff != "" {
		t.Fatalf("descriptor names mismatch (-want +got):\n%s", diff)
	}
	name, selector, level := flat[0], flat[1], flat[2]
	if !name.Required || name.Input.Type != "text" || name.Label != "Name" || name.Value != "Sam" {
		t.Fatalf("unexpected name descriptor: %+v", name)
	}
	if !selector.Discriminator || selector.Value != "admin" || selector.Input.Type != "select" || selector.Label != "Kind" {
		t.Fatalf("unexpected selector descriptor: %+v", selector)
	}
	if diff := cmp.Diff([]any{"admin", "guest"}, selector.Options); diff != "" {
		t.Fatalf("selector options mismatch (-want +got):\n%s", diff)
	}
	if level.Type != FieldTypeNumber || level.Value != 2 || level.Coerce != "number" {
		t.Fatalf("unexpected level descriptor: %+v", level)
	}

	values["role"].(map[string]any)["kind"] = "guest"
	form = resolve(t, Input{Schema: roleSchema(), State: treeState{values}})
	if diff := cmp.Diff([]string{"name", "role.kind"}, names(form.Flatten())); diff != "" {
		t.Fatalf("guest descriptors mismatch (-want +got):\n%s", diff)
	}
	if values["role"].(map[string]any)["level"] != 2 {
		t.Fatalf("stale branch value must stay in the value tree")
	}
}

func TestResolveNumericDiscriminator(t *testing.T) {
	t.Parallel()

	root := schema.Object(schema.Prop("shape", schema.MustDiscriminatedUnion("type",
		schema.Object(schema.Prop("type", schema.Literal(1)), schema.Prop("radius", schema.Number())),
		schema.Object(schema.Prop("type", schema.Literal(2)), schema.Prop("width", schema.Number()), schema.Prop("height", schema.Number())),
	)))

	cases := []struct {
		value any
		want  []string
	}{
		{1, []string{"shape.type", "shape.radius"}},
		{"2", []string{"shape.type", "shape.width", "shape.height"}},
		{3, []string{"shape.type"}},
		{nil, []string{"shape.type"}},
		{"", []string{"shape.type"}},
	}
	for _, tc := range cases {
		values := map[string]any{"shape": map[string]any{"type": tc.value}}
		flat := resolve(t, Input{Schema: root, State: treeState{values}}).Flatten()
		if diff := cmp.Diff(tc.want, names(flat)); diff != "" {
			t.Fatalf("value %v: mismatch (-want +got):\n%s", tc.value, diff)
		}
		if flat[0].Coerce != "number" {
			t.Fatalf("numeric selector should coerce numbers, got %q", flat[0].Coerce)
		}
	}
}

func TestResolveDeclaredOrderAndHides(t *testing.T) {
	t.Parallel()

	root := schema.Object(
		schema.Prop("zeta", schema.String()),
		schema.Prop("alpha", schema.Optional(schema.Boolean())),
		schema.Prop("nested", schema.Object(schema.Prop("alpha", schema.Number()))),
		schema.Prop("mid", schema.Date()),
	)
	values := map[string]any{"zeta": "hide"}
	base := resolve(t, Input{Schema: root, State: treeState{values}})
	if diff := cmp.Diff([]string{"zeta", "alpha", "nested", "mid"}, names(base.Fields)); diff != "" {
		t.Fatalf("top level mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"zeta", "alpha", "nested.alpha", "mid"}, names(base.Flatten())); diff != "" {
		t.Fatalf("flattened mismatch (-want +got):\n%s", diff)
	}

	deps := []dependency.Dependency{{
		Source: "zeta", Target: "mid", Type: dependency.Hides,
		When: func(source, _ any) bool { return source == "hide" },
	}}
	hidden := resolve(t, Input{Schema: root, Dependencies: deps, State: treeState{values}})
	if diff := cmp.Diff([]string{"zeta", "alpha", "nested"}, names(hidden.Fields)); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(base.Fields[:3], hidden.Fields, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("siblings must not change (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Path{{"zeta"}}, hidden.Subscriptions); diff != "" {
		t.Fatalf("subscriptions mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"name":  "Sam",
		"role":  map[string]any{"kind": "admin", "level": 2},
		"items": []any{map[string]any{"title": "a"}, map[string]any{"title": "b"}},
	}
	root := roleSchema().Extend(schema.Prop("items", schema.Array(schema.Object(schema.Prop("title", schema.String())))))
	deps := []dependency.Dependency{{Source: "name", Target: "title", Type: dependency.Requires}}
	in := Input{Schema: root, Dependencies: deps, State: treeState{values}}

	first := resolve(t, in)
	second := resolve(t, in)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolution not idempotent (-first +second):\n%s", diff)
	}
}

func TestResolveArrays(t *testing.T) {
	t.Parallel()

	root := schema.Object(
		schema.Prop("members", schema.Default(schema.Array(schema.Object(
			schema.Prop("email", schema.String().Format("email")),
			schema.Prop("admin", schema.Boolean()),
		)), []any{})),
		schema.Prop("contacts", schema.Array(schema.MustDiscriminatedUnion("via",
			schema.Object(schema.Prop("via", schema.Literal("phone")), schema.Prop("number", schema.String())),
			schema.Object(schema.Prop("via", schema.Literal("mail")), schema.Prop("address", schema.String())),
		))),
		schema.Prop("tags", schema.Array(schema.String())),
	)
	values := map[string]any{
		"members":  []any{map[string]any{"email": "a@b.c"}, map[string]any{"email": "d@e.f", "admin": true}},
		"contacts": []any{map[string]any{"via": "mail"}, map[string]any{}},
		"tags":     []any{"x"},
	}
	form := resolve(t, Input{Schema: root, State: treeState{values}})

	if diff := cmp.Diff([]string{"members", "contacts"}, names(form.Fields)); diff != "" {
		t.Fatalf("arrays of primitives must be omitted (-want +got):\n%s", diff)
	}
	members := form.Fields[0]
	if members.Type != FieldTypeArray || len(members.Items) != 2 {
		t.Fatalf("unexpected members descriptor: %+v", members)
	}
	second := members.Items[1]
	if second.Key != "key-1" || second.Index != 1 || second.Path.String() != "members.1" {
		t.Fatalf("unexpected item: %+v", second)
	}
	if diff := cmp.Diff([]string{"members.1.email", "members.1.admin"}, names(second.Fields)); diff != "" {
		t.Fatalf("item fields mismatch (-want +got):\n%s", diff)
	}
	if second.Fields[0].Input.Type != "email" || second.Fields[1].Value != true {
		t.Fatalf("unexpected item descriptors: %+v", second.Fields)
	}

	contacts := form.Fields[1]
	if diff := cmp.Diff([]string{"contacts.0.via", "contacts.0.address"}, names(contacts.Items[0].Fields)); diff != "" {
		t.Fatalf("union item mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"contacts.1.via"}, names(contacts.Items[1].Fields)); diff != "" {
		t.Fatalf("unselected union item mismatch (-want +got):\n%s", diff)
	}

	want := []Path{{"contacts"}, {"contacts", "0", "via"}, {"contacts", "1", "via"}, {"members"}}
	if diff := cmp.Diff(want, form.Subscriptions); diff != "" {
		t.Fatalf("subscriptions mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveUnsupportedShapesAreOmitted(t *testing.T) {
	t.Parallel()

	root := schema.Object(
		schema.Prop("before", schema.String()),
		schema.Prop("broken", unknownNode{}),
		schema.Prop("wrapped", schema.Optional(nil)),
		schema.Prop("after", schema.Number()),
	)
	form := resolve(t, Input{Schema: root})
	if diff := cmp.Diff([]string{"before", "after"}, names(form.Fields)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	if _, err := New(Options{}).Resolve(Input{Schema: schema.String()}); err != ErrRootNotObject {
		t.Fatalf("expected ErrRootNotObject, got %v", err)
	}
}

func TestResolveFieldConfigAndRules(t *testing.T) {
	t.Parallel()

	root := schema.Object(
		schema.Prop("firstName", schema.String()),
		schema.Prop("plan", schema.Enum("free", "pro", "team")),
		schema.Prop("seats", schema.Optional(schema.Int().Min(1).Max(50).Describe("Seat count"))),
		schema.Prop("country", schema.Default(schema.String(), "fr")),
		schema.Prop("city", schema.String()),
	)
	order := 0
	notRequired := false
	fields := uischema.FieldConfig{
		"firstName": {Label: "Given name", Description: "As on your passport", InputProps: map[string]any{"placeholder": "Ada"}},
		"city":      {Order: &order, Renderer: "city-picker", Required: &notRequired},
		"seats":     {InputProps: map[string]any{"defaultValue": 5}},
		"country":   {Disabled: true},
	}
	deps := []dependency.Dependency{
		{Source: "plan", Target: "seats", Type: dependency.Requires, When: func(s, _ any) bool { return s == "team" }},
		{Source: "plan", Target: "plan", Type: dependency.SetsOptions, Options: []any{"pro", "team"}},
		{Source: "country", Target: "city", Type: dependency.SetsOptions, Options: []any{"Paris", "Lyon"}},
	}
	form := resolve(t, Input{
		Schema: root, Fields: fields, Dependencies: deps,
		State: treeState{map[string]any{"plan": "team"}},
	})

	if diff := cmp.Diff([]string{"city", "firstName", "plan", "seats", "country"}, names(form.Fields)); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	city, first, plan, seats, country := form.Fields[0], form.Fields[1], form.Fields[2], form.Fields[3], form.Fields[4]

	if first.Label != "Given name" || first.Description != "As on your passport" || first.InputProps["placeholder"] != "Ada" {
		t.Fatalf("config overrides not applied: %+v", first)
	}
	if diff := cmp.Diff([]any{"pro", "team"}, plan.Options); diff != "" {
		t.Fatalf("plan options mismatch (-want +got):\n%s", diff)
	}
	if seats.Label != "Seat count" || !seats.Required || !seats.Input.Required || seats.Value != 5 {
		t.Fatalf("unexpected seats descriptor: %+v", seats)
	}
	if *seats.Input.Min != 1 || *seats.Input.Max != 50 || *seats.Input.Step != 1 {
		t.Fatalf("unexpected seats constraints: %+v", seats.Input)
	}
	if !country.Disabled || country.Required || country.Value != "fr" || country.Default != "fr" {
		t.Fatalf("unexpected country descriptor: %+v", country)
	}
	if city.Renderer != "city-picker" || city.Input.Type != "select" || city.Required {
		t.Fatalf("unexpected city descriptor: %+v", city)
	}
	if diff := cmp.Diff([]any{"Paris", "Lyon"}, city.Options); diff != "" {
		t.Fatalf("city options mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveHiddenSelectorDropsUnion(t *testing.T) {
	t.Parallel()

	root := roleSchema()
	deps := []dependency.Dependency{
		{Source: "name", Target: "role.kind", Type: dependency.Hides, When: func(s, _ any) bool { return s == "" }},
		{Source: "name", Target: "kind", Type: dependency.Disables},
	}
	hidden := resolve(t, Input{Schema: root, Dependencies: deps, State: treeState{map[string]any{"name": ""}}})
	if diff := cmp.Diff([]string{"name"}, names(hidden.Fields)); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}

	shown := resolve(t, Input{Schema: root, Dependencies: deps, State: treeState{map[string]any{"name": "Sam"}}})
	selector := shown.Flatten()[1]
	if selector.Name != "role.kind" || !selector.Disabled {
		t.Fatalf("selector should be disabled: %+v", selector)
	}
	if diff := cmp.Diff([]Path{{"name"}, {"role", "kind"}}, shown.Subscriptions); diff != "" {
		t.Fatalf("subscriptions mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveTopLevelSourceGatesArrayItems(t *testing.T) {
	t.Parallel()

	root := schema.Object(
		schema.Prop("locked", schema.Boolean()),
		schema.Prop("items", schema.Array(schema.Object(
			schema.Prop("title", schema.String()),
			schema.Prop("note", schema.Optional(schema.String())),
		))),
	)
	deps := []dependency.Dependency{
		{Source: "locked", Target: "items.*.title", Type: dependency.Disables},
		{Source: "title", Target: "items.*.note", Type: dependency.Requires},
	}
	values := map[string]any{
		"locked": true,
		"items":  []any{map[string]any{"title": "a"}, map[string]any{}},
	}
	form := resolve(t, Input{Schema: root, Dependencies: deps, State: treeState{values}})

	flat := form.Flatten()
	if diff := cmp.Diff([]string{"locked", "items.0.title", "items.0.note", "items.1.title", "items.1.note"}, names(flat)); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if !flat[1].Disabled || !flat[3].Disabled {
		t.Fatalf("item titles should follow the top-level lock: %+v %+v", flat[1], flat[3])
	}
	if !flat[2].Required || flat[4].Required {
		t.Fatalf("notes should follow their own item title: %+v %+v", flat[2], flat[4])
	}

	want := []Path{{"items"}, {"items", "0", "title"}, {"items", "1", "title"}, {"locked"}}
	if diff := cmp.Diff(want, form.Subscriptions); diff != "" {
		t.Fatalf("subscriptions mismatch (-want +got):\n%s", diff)
	}
}
