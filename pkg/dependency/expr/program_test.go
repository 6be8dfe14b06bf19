package expr

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func lookupFrom(values map[string]any) Lookup {
	return func(name string) (any, bool) {
		v, ok := values[name]
		return v, ok
	}
}

func TestProgramEval(t *testing.T) {
	t.Parallel()

	values := map[string]any{
		"enabled": true,
		"role":    "admin",
		"age":     "17",
		"count":   3,
		"note":    nil,
		"country": "fr",
	}
	cases := []struct {
		rule string
		want bool
	}{
		{"", true},
		{"enabled", true},
		{"!enabled", false},
		{"missing", false},
		{"role == 'admin'", true},
		{`role == "guest"`, false},
		{"role != guest", true},
		{"count == 3", true},
		{"age < 18", true},
		{"age >= 18", false},
		{"count > 2 && count <= 3", true},
		{"note == null", true},
		{"enabled == false || role == admin", true},
		{"!(enabled && role == 'admin')", false},
		{`country in ["de", "fr"]`, true},
		{"country in []", false},
		{"count in [1, 2]", false},
	}
	for _, tc := range cases {
		program, err := Compile(tc.rule)
		if err != nil {
			t.Fatalf("Compile(%q): %v", tc.rule, err)
		}
		got, err := program.Eval(lookupFrom(values))
		if err != nil {
			t.Fatalf("Eval(%q): %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestProgramIdentifiers(t *testing.T) {
	t.Parallel()

	program := MustCompile(`role == admin && (age < 18 || $source) && address.country in ["fr"] && role`)
	want := []string{"$source", "address.country", "age", "role"}
	if diff := cmp.Diff(want, program.Identifiers()); diff != "" {
		t.Fatalf("identifiers mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileErrors(t *testing.T) {
	t.Parallel()

	for _, rule := range []string{
		"role = 'admin'",
		"a & b",
		"a | b",
		"(a",
		"'open",
		"a == ",
		"a in 'x'",
		"a in [1 2]",
		"== 3",
		"a b",
	} {
		if _, err := Compile(rule); err == nil {
			t.Fatalf("Compile(%q): expected error", rule)
		}
	}
}

func TestOrderingNeedsNumber(t *testing.T) {
	t.Parallel()

	program := MustCompile("age < 'x'")
	if _, err := program.Eval(lookupFrom(map[string]any{"age": 1})); err == nil {
		t.Fatalf("expected error for non-numeric ordering literal")
	}
}
