package components

import (
	"bytes"
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render/template/gotemplate"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry constructs a registry with the built-in components.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer("forms.input", templatePrefix+"input.tpl"),
	})
	registry.MustRegister(NameTextarea, Descriptor{
		Renderer: templateComponentRenderer("forms.textarea", templatePrefix+"textarea.tpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer("forms.select", templatePrefix+"select.tpl"),
	})
	registry.MustRegister(NameBoolean, Descriptor{
		Renderer: templateComponentRenderer("forms.checkbox", templatePrefix+"checkbox.tpl"),
	})
	registry.MustRegister(NameLiteral, Descriptor{Renderer: literalRenderer})
	registry.MustRegister(NameObject, Descriptor{Renderer: objectRenderer})
	registry.MustRegister(NameArray, Descriptor{Renderer: arrayRenderer})
	registry.MustRegister(NameUnion, Descriptor{Renderer: unionRenderer})

	return registry
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolvedTemplate = candidate
		}

		rendered, err := data.Template.RenderTemplate(resolvedTemplate, leafPayload(field, data))
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// leafPayload is the template context of a leaf control.
func leafPayload(field model.Field, data ComponentData) map[string]any {
	value := gotemplate.AttrValue(field.Value)
	options := make([]map[string]any, 0, len(field.Options))
	selected := false
	for _, option := range field.Options {
		formatted := gotemplate.AttrValue(option)
		isSelected := field.Value != nil && formatted == value
		selected = selected || isSelected
		options = append(options, map[string]any{
			"value":    formatted,
			"label":    optionLabel(field, formatted),
			"selected": isSelected,
		})
	}
	placeholder, _ := field.InputProps["placeholder"].(string)

	return map[string]any{
		"id":           data.ControlID(field.Name),
		"name":         field.Name,
		"type":         field.Input.Type,
		"value":        value,
		"checked":      isChecked(field.Value),
		"attrs":        controlAttributes(field, data),
		"options":      options,
		"empty_option": !field.Required || !selected,
		"placeholder":  placeholder,
		"field":        field,
	}
}

// optionLabel reads inputProps.optionLabels, a map from option value to
// display text.
func optionLabel(field model.Field, value string) string {
	if labels, ok := field.InputProps["optionLabels"].(map[string]any); ok {
		if label, ok := labels[value].(string); ok && label != "" {
			return label
		}
	}
	return value
}

func isChecked(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	default:
		return false
	}
}

// reservedProps are input props consumed by the resolver or the templates
// rather than copied onto the control.
var reservedProps = map[string]struct{}{
	"required":     {},
	"disabled":     {},
	"defaultValue": {},
	"optionLabels": {},
	"placeholder":  {},
	"class":        {},
}

func controlAttributes(field model.Field, data ComponentData) []map[string]string {
	var attrs []map[string]string
	add := func(name, value string) {
		attrs = append(attrs, map[string]string{"name": name, "value": value})
	}

	if field.Required {
		add("required", "")
	}
	if field.Disabled {
		add("disabled", "")
	}
	input := field.Input
	if input.Min != nil {
		add("min", gotemplate.AttrValue(*input.Min))
	}
	if input.Max != nil {
		add("max", gotemplate.AttrValue(*input.Max))
	}
	if input.Step != nil {
		add("step", gotemplate.AttrValue(*input.Step))
	}
	if input.MinDate != "" {
		add("min", input.MinDate)
	}
	if input.MaxDate != "" {
		add("max", input.MaxDate)
	}
	if input.MinLength != nil {
		add("minlength", strconv.Itoa(*input.MinLength))
	}
	if input.MaxLength != nil {
		add("maxlength", strconv.Itoa(*input.MaxLength))
	}
	if input.Pattern != "" {
		add("pattern", input.Pattern)
	}
	if placeholder, ok := field.InputProps["placeholder"].(string); ok && placeholder != "" && input.Type != "select" {
		add("placeholder", placeholder)
	}
	if class, ok := field.InputProps["class"].(string); ok && strings.TrimSpace(class) != "" {
		add("class", strings.Join(strings.Fields(class), " "))
	}
	if data.Errors != nil && len(data.Errors(field.Name)) > 0 {
		add("aria-invalid", "true")
		add("aria-describedby", data.ControlID(field.Name)+"-error")
	}

	keys := make([]string, 0, len(field.InputProps))
	for key := range field.InputProps {
		if _, reserved := reservedProps[key]; reserved || !validAttrName(key) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		switch v := field.InputProps[key].(type) {
		case bool:
			if v {
				add(strings.ToLower(key), "")
			}
		case string, float64, float32, int, int64, uint64:
			add(strings.ToLower(key), gotemplate.AttrValue(v))
		}
	}
	return attrs
}

func validAttrName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == ':':
		default:
			return false
		}
	}
	return true
}

func literalRenderer(buf *bytes.Buffer, field model.Field, data ComponentData) error {
	buf.WriteString(`<input type="hidden"`)
	writeAttr(buf, "id", data.ControlID(field.Name))
	writeAttr(buf, "name", field.Name)
	writeAttr(buf, "value", gotemplate.AttrValue(field.Value))
	buf.WriteString(">\n")
	return nil
}

func objectRenderer(buf *bytes.Buffer, field model.Field, data ComponentData) error {
	openGroup(buf, field, data, "autoform-fieldset")
	if err := renderChildren(buf, field.Children, data); err != nil {
		return err
	}
	buf.WriteString("</fieldset>\n")
	return nil
}

func unionRenderer(buf *bytes.Buffer, field model.Field, data ComponentData) error {
	openGroup(buf, field, data, "autoform-union")
	if err := renderChildren(buf, field.Children, data); err != nil {
		return err
	}
	buf.WriteString("</fieldset>\n")
	return nil
}

func arrayRenderer(buf *bytes.Buffer, field model.Field, data ComponentData) error {
	openGroup(buf, field, data, "autoform-array")
	buf.WriteString(`<ol class="autoform-items">` + "\n")
	for _, item := range field.Items {
		buf.WriteString(`<li class="autoform-item"`)
		writeAttr(buf, "data-key", item.Key)
		writeAttr(buf, "data-index", strconv.Itoa(item.Index))
		buf.WriteString(">\n")
		if err := renderChildren(buf, item.Fields, data); err != nil {
			return err
		}
		if !field.Disabled {
			buf.WriteString(`<button type="button" class="autoform-remove" data-action="remove"`)
			writeAttr(buf, "data-path", field.Name)
			writeAttr(buf, "data-index", strconv.Itoa(item.Index))
			buf.WriteString(">Remove</button>\n")
		}
		buf.WriteString("</li>\n")
	}
	buf.WriteString("</ol>\n")
	if !field.Disabled {
		buf.WriteString(`<button type="button" class="autoform-append" data-action="append"`)
		writeAttr(buf, "data-path", field.Name)
		buf.WriteString(">Add ")
		buf.WriteString(html.EscapeString(strings.ToLower(field.Label)))
		buf.WriteString("</button>\n")
	}
	buf.WriteString("</fieldset>\n")
	return nil
}

// openGroup writes the fieldset opening tag, legend, description and the
// group's own errors.
func openGroup(buf *bytes.Buffer, field model.Field, data ComponentData, class string) {
	buf.WriteString(`<fieldset`)
	writeAttr(buf, "id", data.ControlID(field.Name))
	writeAttr(buf, "class", class)
	writeAttr(buf, "data-field", field.Name)
	if field.Required {
		buf.WriteString(` data-required`)
	}
	if field.Disabled {
		buf.WriteString(` disabled`)
	}
	buf.WriteString(">\n")
	if label := strings.TrimSpace(field.Label); label != "" {
		buf.WriteString("<legend>")
		buf.WriteString(html.EscapeString(label))
		buf.WriteString("</legend>\n")
	}
	if data.Description != nil {
		if desc := data.Description(field); desc != "" {
			buf.WriteString(`<p class="autoform-description">`)
			buf.WriteString(desc)
			buf.WriteString("</p>\n")
		}
	}
	WriteErrors(buf, field, data)
}

func renderChildren(buf *bytes.Buffer, fields []model.Field, data ComponentData) error {
	if data.RenderChild == nil {
		return nil
	}
	for _, child := range fields {
		rendered, err := data.RenderChild(child)
		if err != nil {
			return err
		}
		buf.WriteString(rendered)
	}
	return nil
}

// WriteErrors writes the error messages attached to field.
func WriteErrors(buf *bytes.Buffer, field model.Field, data ComponentData) {
	if data.Errors == nil {
		return
	}
	messages := data.Errors(field.Name)
	if len(messages) == 0 {
		return
	}
	buf.WriteString(`<div class="autoform-error" role="alert"`)
	writeAttr(buf, "id", data.ControlID(field.Name)+"-error")
	buf.WriteString(">")
	for _, message := range messages {
		buf.WriteString("<p>")
		buf.WriteString(html.EscapeString(message))
		buf.WriteString("</p>")
	}
	buf.WriteString("</div>\n")
}

func writeAttr(buf *bytes.Buffer, name, value string) {
	buf.WriteByte(' ')
	buf.WriteString(name)
	buf.WriteString(`="`)
	buf.WriteString(html.EscapeString(value))
	buf.WriteByte('"')
}

func controlID(prefix, name string) string {
	replacer := strings.NewReplacer(".", "-", " ", "-")
	id := replacer.Replace(strings.TrimSpace(name))
	if prefix = strings.TrimSpace(prefix); prefix != "" {
		return prefix + "-" + id
	}
	return "af-" + id
}
