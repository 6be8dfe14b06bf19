package gotemplate_test

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-autoform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-autoform/pkg/testsupport"
)

//go:embed testdata/templates/*.tpl
var embeddedTemplates embed.FS

func newEngine(t *testing.T, opts ...gotemplate.Option) *gotemplate.Engine {
	t.Helper()
	templatesFS, err := fs.Sub(embeddedTemplates, "testdata/templates")
	if err != nil {
		t.Fatalf("sub fs: %v", err)
	}
	engine, err := gotemplate.New(append([]gotemplate.Option{gotemplate.WithFS(templatesFS)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

type greeting struct {
	Name string `json:"name"`
}

func TestEngineRenderTemplate(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", greeting{Name: "Ada"}, w)
	})
	if result != "Hello Ada!\n" || written != result {
		t.Fatalf("unexpected output %q / %q", result, written)
	}
}

func TestEngineGlobalsAndFilters(t *testing.T) {
	t.Parallel()

	engine := newEngine(t, gotemplate.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))
	err := engine.RegisterFilter("shout", func(input any, _ any) (any, error) {
		return fmt.Sprintf("%s!", strings.ToUpper(fmt.Sprint(input))), nil
	})
	if err != nil {
		t.Fatalf("register filter: %v", err)
	}
	if err := engine.RegisterFilter("shout", func(input, _ any) (any, error) { return input, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	got, err := engine.Render("globals", map[string]any{"name": "ada", "path": "members.0.email", "step": 1.0})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got != "staging|ADA!|members-0-email|1\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEngineRenderString(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)
	got, err := engine.Render("{{ value|attrvalue }}-{{ missing|attrvalue }}", map[string]any{"value": 2.5})
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if got != "2.5-" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestNewRequiresTemplateSource(t *testing.T) {
	t.Parallel()

	if _, err := gotemplate.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}

func TestAttrValue(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{3.0, "3"},
		{0.25, "0.25"},
		{7, "7"},
	}
	for _, tc := range cases {
		if got := gotemplate.AttrValue(tc.in); got != tc.want {
			t.Fatalf("AttrValue(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
