package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
	rendertemplate "github.com/goliatone/go-autoform/pkg/render/template"
	gotemplate "github.com/goliatone/go-autoform/pkg/render/template/gotemplate"
	"github.com/goliatone/go-autoform/pkg/renderers/vanilla/components"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
	theme            *theme.RendererConfig
	chrome           ChromeClasses
	inlineStyles     bool
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the built-in component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// WithTheme sets the theme used when RenderOptions carries none.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithChromeClasses overrides the form chrome classes.
func WithChromeClasses(classes ChromeClasses) Option {
	return func(cfg *config) {
		cfg.chrome = classes
	}
}

// WithInlineStyles embeds the default stylesheet in the output.
func WithInlineStyles(enabled bool) Option {
	return func(cfg *config) {
		cfg.inlineStyles = enabled
	}
}

// Renderer renders resolved forms as plain HTML.
type Renderer struct {
	templates    rendertemplate.TemplateRenderer
	registry     *components.Registry
	theme        *theme.RendererConfig
	chrome       map[string]string
	inlineStyles bool
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates:    renderer,
		registry:     cfg.registry,
		theme:        cfg.theme,
		chrome:       cfg.chrome.withDefaults(),
		inlineStyles: cfg.inlineStyles,
	}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	themeCfg := options.Theme
	if themeCfg == nil {
		themeCfg = r.theme
	}
	var partials map[string]string
	if themeCfg != nil {
		partials = themeCfg.Partials
	}

	fields := newComponentRenderer(r.templates, r.registry, options, partials)
	markup, err := fields.renderAll(form.Fields)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: %w", err)
	}

	formCtx := r.formContext(form, options, themeCfg, markup)
	formCtx["component_stylesheets"] = fields.stylesheets()
	result, err := r.templates.RenderTemplate("templates/form.tpl", formCtx)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func (r *Renderer) formContext(form model.FormModel, options render.RenderOptions, themeCfg *theme.RendererConfig, markup string) map[string]any {
	formID := strings.TrimSpace(options.FormID)
	if formID == "" {
		formID = "autoform"
	}
	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = "post"
	}
	submitLabel := strings.TrimSpace(options.SubmitLabel)
	if submitLabel == "" {
		submitLabel = "Submit"
	}

	hidden := make([]map[string]string, 0, len(options.Hidden))
	for _, field := range render.SortedHiddenFields(options.Hidden) {
		hidden = append(hidden, map[string]string{"name": field.Name, "value": field.Value})
	}

	subscriptions := make([]string, len(form.Subscriptions))
	for i, path := range form.Subscriptions {
		subscriptions[i] = path.String()
	}

	var styles []string
	if r.inlineStyles {
		styles = append(styles, defaultStylesheet())
	}
	themeInfo := map[string]string{}
	stylesheet := ""
	if themeCfg != nil {
		themeInfo["name"] = themeCfg.Theme
		themeInfo["variant"] = themeCfg.Variant
		if vars := cssVarsStyle("#"+formID, themeCfg.CSSVars); vars != "" {
			styles = append(styles, vars)
		}
		if themeCfg.AssetURL != nil {
			stylesheet = themeCfg.AssetURL(ThemeStylesheetKey)
		}
	}

	return map[string]any{
		"form_id":       formID,
		"method":        method,
		"action":        strings.TrimSpace(options.Action),
		"title":         strings.TrimSpace(options.Title),
		"description":   strings.TrimSpace(options.Description),
		"submit_label":  submitLabel,
		"form_errors":   render.MergeFormErrors(nil, options.FormErrors...),
		"hidden_fields": hidden,
		"classes":       r.chrome,
		"theme":         themeInfo,
		"stylesheet":    stylesheet,
		"inline_styles": strings.Join(styles, "\n"),
		"subscriptions": strings.Join(subscriptions, " "),
		"fields":        markup,
	}
}
