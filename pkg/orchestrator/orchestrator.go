package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-autoform/pkg/dependency"
	"github.com/goliatone/go-autoform/pkg/formstate"
	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/renderers/jsonout"
	"github.com/goliatone/go-autoform/pkg/renderers/tui"
	"github.com/goliatone/go-autoform/pkg/renderers/vanilla"
	"github.com/goliatone/go-autoform/pkg/schema"
	"github.com/goliatone/go-autoform/pkg/uischema"
	"github.com/goliatone/go-autoform/pkg/validation"
)

var (
	ErrSchemaRequired = errors.New("orchestrator: schema is required")
	ErrUnknownField   = errors.New("orchestrator: no schema node at path")
)

// Form coordinates one schema with its configuration, its field-state
// controller and the renderers able to present it. It applies sensible
// defaults (in-memory store, JSON Schema validation, vanilla renderer)
// while remaining open to dependency injection.
type Form struct {
	root            schema.Node
	fields          uischema.FieldConfig
	deps            []dependency.Dependency
	meta            uischema.Form
	controller      formstate.Controller
	initial         map[string]any
	resolver        model.Resolver
	labeler         func(string) string
	registry        *render.Registry
	defaultRenderer string
	validator       validation.Validator
	logger          zerolog.Logger

	themeSelector  theme.ThemeSelector
	themeName      string
	themeVariant   string
	themeFallbacks map[string]string
	theme          *theme.RendererConfig
}

// New constructs a Form for root. Missing collaborators are initialised
// with the built-in implementations so callers can start with a single
// constructor call.
func New(root schema.Node, options ...Option) (*Form, error) {
	if root == nil {
		return nil, ErrSchemaRequired
	}
	f := &Form{
		root:   root,
		logger: zerolog.Nop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if err := f.applyDefaults(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Form) applyDefaults() error {
	for i, dep := range f.deps {
		if err := dep.Validate(); err != nil {
			return fmt.Errorf("orchestrator: dependency %d: %w", i, err)
		}
	}
	if f.controller == nil {
		f.controller = formstate.New(formstate.WithValues(f.initial))
	}
	f.resolver = model.NewResolver(model.WithLabeler(f.labeler), model.WithLogger(f.logger))

	if f.validator == nil {
		validator, err := validation.NewJSONSchemaValidator(f.root)
		if err != nil {
			return fmt.Errorf("orchestrator: default validator: %w", err)
		}
		f.validator = validator
	}

	if f.registry == nil {
		registry, err := defaultRegistry()
		if err != nil {
			return err
		}
		f.registry = registry
	}
	if f.defaultRenderer == "" {
		f.defaultRenderer = f.registry.Default()
	}

	if f.themeSelector != nil {
		selection, err := f.themeSelector.Select(f.themeName, f.themeVariant)
		if err != nil {
			return fmt.Errorf("orchestrator: select theme %q: %w", f.themeName, err)
		}
		f.theme = render.ThemeConfig(selection, f.themeFallbacks)
	}
	return nil
}

func defaultRegistry() (*render.Registry, error) {
	html, err := vanilla.New()
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default renderer: %w", err)
	}
	registry, err := render.NewRegistry(html, jsonout.New(), tui.New())
	if err != nil {
		return nil, fmt.Errorf("orchestrator: default registry: %w", err)
	}
	return registry, nil
}

// Controller exposes the field-state controller backing the form.
func (f *Form) Controller() formstate.Controller {
	return f.controller
}

// Registry exposes the renderer registry.
func (f *Form) Registry() *render.Registry {
	return f.registry
}

// Values returns a copy of the current value tree.
func (f *Form) Values() map[string]any {
	return f.controller.Values()
}

// Resolve runs one resolution pass against a fresh snapshot.
func (f *Form) Resolve() (model.FormModel, error) {
	form, err := f.resolver.Resolve(model.Input{
		Schema:       f.root,
		Fields:       f.fields,
		Dependencies: f.deps,
		State:        f.controller.Snapshot(),
	})
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: resolve: %w", err)
	}
	return form, nil
}

// Render resolves the form and hands it to the named renderer, or to the
// default one when name is empty.
func (f *Form) Render(ctx context.Context, name string, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	renderer, err := f.rendererFor(name)
	if err != nil {
		return nil, err
	}
	form, err := f.Resolve()
	if err != nil {
		return nil, err
	}

	if options.Title == "" {
		options.Title = f.meta.Title
	}
	if options.Description == "" {
		options.Description = f.meta.Description
	}
	if options.SubmitLabel == "" {
		options.SubmitLabel = f.meta.SubmitLabel
	}
	if options.FormID == "" {
		options.FormID = f.meta.ID
	}
	if options.Theme == nil {
		options.Theme = f.theme
	}

	output, err := renderer.Render(ctx, form, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

func (f *Form) rendererFor(name string) (render.Renderer, error) {
	target := strings.TrimSpace(name)
	if target == "" {
		target = f.defaultRenderer
	}
	renderer, err := f.registry.Get(target)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", target, err)
	}
	return renderer, nil
}

// Input writes raw control input at path after coercing it with the schema
// node found there. Union branch fields are reachable once their
// discriminator holds a matching value.
func (f *Form) Input(path model.Path, raw any) error {
	node, ok := schema.At(f.root, path, f.controller.Values())
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	value, err := schema.CoerceInput(node, raw)
	if err != nil {
		return fmt.Errorf("orchestrator: input %s: %w", path, err)
	}
	f.logger.Debug().Str("path", path.String()).Interface("value", value).Msg("input")
	return f.controller.SetValue(path, value)
}

// Append adds an entry to the array at path.
func (f *Form) Append(path model.Path, value any) (model.Entry, error) {
	if _, ok := schema.At(f.root, path, f.controller.Values()); !ok {
		return model.Entry{}, fmt.Errorf("%w: %s", ErrUnknownField, path)
	}
	if value == nil {
		value = map[string]any{}
	}
	entry, err := f.controller.Append(path, value)
	if err != nil {
		return model.Entry{}, err
	}
	f.logger.Debug().Str("path", path.String()).Str("key", entry.Key).Msg("append")
	return entry, nil
}

// Remove deletes the entry at index from the array at path.
func (f *Form) Remove(path model.Path, index int) error {
	if err := f.controller.Remove(path, index); err != nil {
		return err
	}
	f.logger.Debug().Str("path", path.String()).Int("index", index).Msg("remove")
	return nil
}
