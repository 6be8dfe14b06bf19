// Package autoform renders interactive forms straight from schema
// descriptions. It re-exports the orchestrator entry points so callers can
// start from a single import.
package autoform

import (
	"context"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-autoform/pkg/openapi"
	"github.com/goliatone/go-autoform/pkg/orchestrator"
	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/schema"
	"github.com/goliatone/go-autoform/pkg/schemadoc"
	"github.com/goliatone/go-autoform/pkg/uischema"
)

// Form aliases the reactive form type.
type Form = orchestrator.Form

// Option configures a Form.
type Option = orchestrator.Option

// RenderOptions describes per-request overrides that renderers can use to
// surface titles, hidden inputs or server-side validation errors.
type RenderOptions = render.RenderOptions

// SubmissionError reports a rejected submission.
type SubmissionError = orchestrator.SubmissionError

// New builds a form for a schema assembled with the schema package.
func New(root schema.Node, options ...Option) (*Form, error) {
	return orchestrator.New(root, options...)
}

// FromDocument builds a form from a YAML or JSON schema document in fsys.
func FromDocument(fsys fs.FS, name string, options ...Option) (*Form, error) {
	root, err := schemadoc.Load(fsys, name)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(root, options...)
}

// FromOpenAPI builds a form from the request body of an OpenAPI operation.
func FromOpenAPI(ctx context.Context, source openapi.Source, operationID string, options ...Option) (*Form, error) {
	doc, err := openapi.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	root, err := doc.RequestSchema(operationID)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(root, options...)
}

// RenderHTML resolves root against values and renders it with the vanilla
// renderer. It is the simplest entry point for callers that just want
// markup.
func RenderHTML(ctx context.Context, root schema.Node, values map[string]any, opts RenderOptions, options ...Option) ([]byte, error) {
	form, err := orchestrator.New(root, append(options, orchestrator.WithValues(values))...)
	if err != nil {
		return nil, err
	}
	return form.Render(ctx, "vanilla", opts)
}

// WithUIDocument loads form id from a UI schema document in fsys and
// applies its field config and dependency rules.
func WithUIDocument(fsys fs.FS, name, id string) (Option, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("autoform: read ui schema %s: %w", name, err)
	}
	store, err := uischema.Parse(data, name)
	if err != nil {
		return nil, err
	}
	form, ok := store.Form(id)
	if !ok {
		return nil, fmt.Errorf("autoform: form %q not found in %s", id, name)
	}
	return orchestrator.WithUISchema(form), nil
}

// WithThemeSelector passes a go-theme selector through to the form so the
// theme and variant are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return orchestrator.WithThemeSelector(selector, name, variant)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
