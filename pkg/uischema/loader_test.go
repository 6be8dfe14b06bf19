package uischema

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autoform/pkg/dependency"
)

const signupYAML = `
forms:
  signup:
    title: Sign up
    submitLabel: Create account
    fields:
      email:
        label: Work email
        inputProps:
          placeholder: you@corp
      items.*.price:
        required: true
        order: 2
    dependencies:
      - source: plan
        target: seats
        type: HIDES
        when: "$source == 'free'"
      - source: country
        target: city
        type: sets_options
        options: [Paris, Lyon]
`

func TestLoadFSParsesYAMLAndJSON(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"ui/signup.yaml": {Data: []byte(signupYAML)},
		"ui/other.json":  {Data: []byte(`{"forms":{"profile":{"fields":{"bio":{"disabled":true}}}}}`)},
		"ui/readme.md":   {Data: []byte("ignored")},
	}
	store, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS: %v", err)
	}
	if diff := cmp.Diff([]string{"profile", "signup"}, store.IDs()); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	form, ok := store.Form("signup")
	if !ok {
		t.Fatalf("signup form missing")
	}
	if form.Title != "Sign up" || form.SubmitLabel != "Create account" {
		t.Fatalf("unexpected form metadata: %+v", form)
	}
	email, ok := form.Fields.Lookup([]string{"contact", "email"})
	if !ok || email.Label != "Work email" || email.InputProps["placeholder"] != "you@corp" {
		t.Fatalf("email config not resolved by terminal name: %+v", email)
	}
	price, ok := form.Fields.Lookup([]string{"items", "3", "price"})
	if !ok || !price.RequiredOverride() || price.Order == nil || *price.Order != 2 {
		t.Fatalf("wildcard config not resolved: %+v", price)
	}

	if len(form.Dependencies) != 2 {
		t.Fatalf("expected 2 dependencies, got %d", len(form.Dependencies))
	}
	hides := form.Dependencies[0]
	if hides.Type != dependency.Hides || hides.Expr == nil || hides.Expr.String() != "$source == 'free'" {
		t.Fatalf("unexpected hides rule: %+v", hides)
	}
	options := form.Dependencies[1]
	if options.Type != dependency.SetsOptions {
		t.Fatalf("unexpected type %q", options.Type)
	}
	if diff := cmp.Diff([]any{"Paris", "Lyon"}, options.Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}

	profile, _ := store.Form("profile")
	if !profile.Fields["bio"].DisabledOverride() {
		t.Fatalf("bio should be disabled")
	}
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"empty":        "   ",
		"invalid":      "forms: [unclosed",
		"bad type":     `{"forms":{"f":{"dependencies":[{"source":"a","target":"b","type":"shows"}]}}}`,
		"bad expr":     `{"forms":{"f":{"dependencies":[{"source":"a","target":"b","type":"hides","when":"a = 1"}]}}}`,
		"no target":    `{"forms":{"f":{"dependencies":[{"source":"a","type":"hides"}]}}}`,
		"options lost": `{"forms":{"f":{"dependencies":[{"source":"a","target":"b","type":"setsOptions"}]}}}`,
		"empty id":     `{"forms":{" ":{}}}`,
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc), name+".json"); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}

	dup := fstest.MapFS{
		"a.json": {Data: []byte(`{"forms":{"f":{}}}`)},
		"b.json": {Data: []byte(`{"forms":{"f":{}}}`)},
	}
	if _, err := LoadFS(dup); err == nil || !strings.Contains(err.Error(), "duplicate form") {
		t.Fatalf("expected duplicate form error, got %v", err)
	}
}

func TestFieldConfigItemOverrides(t *testing.T) {
	t.Parallel()

	item := FieldConfigItem{InputProps: map[string]any{"required": "true", "disabled": true, "defaultValue": "x"}}
	if !item.RequiredOverride() || !item.DisabledOverride() {
		t.Fatalf("inputProps overrides not honoured")
	}
	if value, ok := item.Default(); !ok || value != "x" {
		t.Fatalf("Default() = %v, %v", value, ok)
	}
	item.DefaultValue = "y"
	if value, _ := item.Default(); value != "y" {
		t.Fatalf("DefaultValue should win, got %v", value)
	}
	if got := NormalizeFieldPath(" items[2].tags.0 "); got != "items.*.tags.*" {
		t.Fatalf("NormalizeFieldPath = %q", got)
	}
}
