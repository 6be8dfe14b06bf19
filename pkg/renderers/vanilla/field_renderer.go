package vanilla

import (
	"bytes"
	"fmt"
	"html"
	"slices"
	"strings"

	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
	"github.com/goliatone/go-autoform/pkg/render/template"
	"github.com/goliatone/go-autoform/pkg/renderers/vanilla/components"
)

// componentRenderer renders one form: it tracks the components used so the
// form can link their stylesheets.
type componentRenderer struct {
	registry *components.Registry
	data     components.ComponentData

	usedComponents map[string]struct{}
}

func newComponentRenderer(templates template.TemplateRenderer, registry *components.Registry, options render.RenderOptions, partials map[string]string) *componentRenderer {
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}
	r := &componentRenderer{
		registry:       registry,
		usedComponents: make(map[string]struct{}),
	}
	r.data = components.ComponentData{
		Template:    templates,
		RenderChild: r.render,
		Errors:      options.FieldErrors,
		Description: func(field model.Field) string { return sanitizeDescription(field.Description) },
		Partials:    partials,
		IDPrefix:    strings.TrimSpace(options.FormID),
	}
	return r
}

func (r *componentRenderer) renderAll(fields []model.Field) (string, error) {
	var out strings.Builder
	for _, field := range fields {
		rendered, err := r.render(field)
		if err != nil {
			return "", err
		}
		out.WriteString(rendered)
	}
	return out.String(), nil
}

func (r *componentRenderer) render(field model.Field) (string, error) {
	componentName := components.ForField(field)
	descriptor, ok := r.registry.Descriptor(componentName)
	if !ok {
		return "", fmt.Errorf("component %q not registered for field %q", componentName, field.Name)
	}

	var control bytes.Buffer
	if err := descriptor.Renderer(&control, field, r.data); err != nil {
		return "", fmt.Errorf("render component %q for field %q: %w", componentName, field.Name, err)
	}
	r.usedComponents[descriptor.Name] = struct{}{}

	if components.HandlesChrome(componentName) {
		return control.String(), nil
	}
	return r.buildFieldMarkup(field, componentName, control.String()), nil
}

func (r *componentRenderer) stylesheets() []string {
	names := make([]string, 0, len(r.usedComponents))
	for name := range r.usedComponents {
		names = append(names, name)
	}
	slices.Sort(names)
	return r.registry.Stylesheets(names)
}

// buildFieldMarkup wraps a leaf control with its label, description and
// errors.
func (r *componentRenderer) buildFieldMarkup(field model.Field, componentName, control string) string {
	var builder strings.Builder
	builder.Grow(len(control) + 256)

	builder.WriteString(`<div class="autoform-field" data-field="`)
	builder.WriteString(html.EscapeString(field.Name))
	builder.WriteString(`" data-component="`)
	builder.WriteString(html.EscapeString(componentName))
	builder.WriteString(`"`)
	if field.Discriminator {
		builder.WriteString(` data-discriminator`)
	}
	builder.WriteString(">\n")

	if label := strings.TrimSpace(field.Label); label != "" {
		builder.WriteString(`<label for="`)
		builder.WriteString(html.EscapeString(r.data.ControlID(field.Name)))
		builder.WriteString(`">`)
		builder.WriteString(html.EscapeString(label))
		if field.Required {
			builder.WriteString(` <span class="autoform-required" aria-hidden="true">*</span>`)
		}
		builder.WriteString("</label>\n")
	}

	builder.WriteString(control)
	if !strings.HasSuffix(control, "\n") {
		builder.WriteByte('\n')
	}

	if desc := sanitizeDescription(field.Description); desc != "" {
		builder.WriteString(`<small class="autoform-description">`)
		builder.WriteString(desc)
		builder.WriteString("</small>\n")
	}

	var errs bytes.Buffer
	components.WriteErrors(&errs, field, r.data)
	builder.WriteString(errs.String())

	builder.WriteString("</div>\n")
	return builder.String()
}
