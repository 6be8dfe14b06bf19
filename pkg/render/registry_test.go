package render_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, model.FormModel, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	registry, err := render.NewRegistry(namedRenderer("vanilla"), namedRenderer("json"))
	if err != nil {
		t.Fatalf("NewRegistry: %v", err)
	}
	if diff := cmp.Diff([]string{"json", "vanilla"}, registry.List()); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if registry.Default() != "vanilla" {
		t.Fatalf("first renderer should be the default, got %q", registry.Default())
	}

	if err := registry.Register(namedRenderer("json")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(namedRenderer(" ")); err == nil {
		t.Fatalf("expected empty name error")
	}

	if err := registry.SetDefault("json"); err != nil {
		t.Fatalf("SetDefault: %v", err)
	}
	renderer, err := registry.Get("")
	if err != nil || renderer.Name() != "json" {
		t.Fatalf("Get default = %v, %v", renderer, err)
	}

	if _, err := registry.Get("pdf"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if err := registry.SetDefault("pdf"); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if !registry.Has("vanilla") || registry.Has("pdf") {
		t.Fatalf("Has reported wrong membership")
	}
}
