package orchestrator

import (
	theme "github.com/goliatone/go-theme"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-autoform/pkg/dependency"
	"github.com/goliatone/go-autoform/pkg/formstate"
	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/uischema"
	"github.com/goliatone/go-autoform/pkg/validation"
)

const defaultRendererName = "vanilla"

// Option customises a Form.
type Option func(*Form)

// WithFieldConfig sets the per-field configuration.
func WithFieldConfig(fields uischema.FieldConfig) Option {
	return func(f *Form) {
		f.fields = fields.Clone()
	}
}

// WithDependencies appends cross-field rules.
func WithDependencies(deps ...dependency.Dependency) Option {
	return func(f *Form) {
		f.deps = append(f.deps, deps...)
	}
}

// WithUISchema applies a loaded UI schema form: its field configuration,
// dependency rules and the title, description and submit label renderers
// fall back to.
func WithUISchema(form uischema.Form) Option {
	return func(f *Form) {
		f.fields = form.Fields.Clone()
		f.deps = append(f.deps, form.Dependencies...)
		f.meta = form
	}
}

// WithController replaces the default in-memory store.
func WithController(controller formstate.Controller) Option {
	return func(f *Form) {
		if controller != nil {
			f.controller = controller
		}
	}
}

// WithValues seeds the default store. It is ignored when WithController is
// also given.
func WithValues(values map[string]any) Option {
	return func(f *Form) {
		f.initial = values
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(f *Form) {
		f.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when Render gets an empty
// name.
func WithDefaultRenderer(name string) Option {
	return func(f *Form) {
		f.defaultRenderer = name
	}
}

// WithLogger receives debug events from the form and its resolver.
func WithLogger(logger zerolog.Logger) Option {
	return func(f *Form) {
		f.logger = logger
	}
}

// WithLabeler overrides label generation for fields without a configured
// label or description.
func WithLabeler(labeler func(string) string) Option {
	return func(f *Form) {
		f.labeler = labeler
	}
}

// WithValidator replaces the JSON Schema validator built from the schema.
func WithValidator(validator validation.Validator) Option {
	return func(f *Form) {
		f.validator = validator
	}
}

// WithThemeSelector resolves name and variant through selector once, at
// construction, and passes the result to every render that does not bring
// its own theme.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(f *Form) {
		f.themeSelector = selector
		f.themeName = name
		f.themeVariant = variant
	}
}

// WithThemeFallbacks supplies partials used when the selected theme does
// not override them.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(f *Form) {
		f.themeFallbacks = fallbacks
	}
}
