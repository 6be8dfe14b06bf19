package autoform

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-autoform/pkg/renderers/vanilla"
	"github.com/goliatone/go-autoform/pkg/testsupport"
)

func TestAssetsFSContainsStylesheet(t *testing.T) {
	t.Parallel()

	data, err := fs.ReadFile(AssetsFS(), vanilla.StylesheetName)
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), ".autoform-form") {
		t.Fatalf("stylesheet misses form rules")
	}
	if _, err := fs.ReadFile(EmbeddedTemplates(), "templates/form.tpl"); err != nil {
		t.Fatalf("expected form template: %v", err)
	}
}

func TestRenderHTML(t *testing.T) {
	t.Parallel()

	html, err := RenderHTML(context.Background(), testsupport.RoleSchema(), map[string]any{
		"role": map[string]any{"kind": "guest"},
	}, RenderOptions{FormID: "signup"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(string(html), `<form id="signup"`) {
		t.Fatalf("unexpected markup:\n%s", html)
	}
}

func TestFromDocumentWithUIDocument(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"plan.yaml": {Data: []byte("type: object\nrequired: [plan]\nproperties:\n  plan: {enum: [free, pro]}\n  seats: {type: integer}\n")},
		"ui.yaml":   {Data: []byte("forms:\n  plan:\n    fields:\n      seats:\n        label: Seat count\n")},
	}
	ui, err := WithUIDocument(fsys, "ui.yaml", "plan")
	if err != nil {
		t.Fatalf("ui document: %v", err)
	}
	form, err := FromDocument(fsys, "plan.yaml", ui)
	if err != nil {
		t.Fatalf("from document: %v", err)
	}
	resolved, err := form.Resolve()
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	seats, ok := resolved.Lookup("seats")
	if !ok || seats.Label != "Seat count" {
		t.Fatalf("unexpected seats field %+v", seats)
	}

	if _, err := WithUIDocument(fsys, "ui.yaml", "missing"); err == nil {
		t.Fatalf("expected missing form error")
	}
}
