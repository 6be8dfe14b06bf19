package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
)

// Renderer implements render.Renderer as a plain-text outline of the
// resolved form. Interactive filling goes through Session.
type Renderer struct {
	cfg config
}

// New constructs a TUI renderer.
func New(options ...Option) *Renderer {
	return &Renderer{cfg: newConfig(options)}
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Session starts an interactive session that shares the renderer's driver,
// theme and logger.
func (r *Renderer) Session(mapping render.ErrorMapping) *Session {
	return &Session{cfg: r.cfg, Errors: mapping}
}

// Render writes one line per field, indented by nesting depth.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var b strings.Builder
	if options.Title != "" {
		b.WriteString(options.Title)
		b.WriteByte('\n')
	}
	if options.Description != "" {
		b.WriteString(options.Description)
		b.WriteByte('\n')
	}
	for _, message := range options.FormErrors {
		b.WriteString(r.cfg.theme.ErrorPrefix + message + "\n")
	}
	o := outline{b: &b, theme: r.cfg.theme, options: options}
	o.fields(form.Fields, 0)
	return []byte(b.String()), nil
}

type outline struct {
	b       *strings.Builder
	theme   Theme
	options render.RenderOptions
}

func (o outline) fields(fields []model.Field, depth int) {
	for _, field := range fields {
		if field.Type == model.FieldTypeLiteral {
			continue
		}
		o.line(field, depth)
		switch field.Type {
		case model.FieldTypeObject, model.FieldTypeUnion:
			o.fields(field.Children, depth+1)
		case model.FieldTypeArray:
			for _, item := range field.Items {
				o.write(depth+1, fmt.Sprintf("[%d]", item.Index))
				o.fields(item.Fields, depth+2)
			}
		}
	}
}

func (o outline) line(field model.Field, depth int) {
	var b strings.Builder
	b.WriteString(o.theme.PromptPrefix)
	b.WriteString(displayLabel(field))
	if field.Required {
		b.WriteString(" *")
	}
	b.WriteString(" (")
	b.WriteString(kind(field))
	b.WriteString(")")
	if value := scalarString(field.Value); value != "" && isLeaf(field) {
		b.WriteString(" = ")
		b.WriteString(value)
	}
	if len(field.Options) > 0 {
		options := make([]string, len(field.Options))
		for i, option := range field.Options {
			options[i] = scalarString(option)
		}
		b.WriteString(" [")
		b.WriteString(strings.Join(options, "|"))
		b.WriteString("]")
	}
	if field.Disabled {
		b.WriteString(" disabled")
	}
	o.write(depth, b.String())
	if field.Description != "" {
		o.write(depth+1, o.theme.InfoPrefix+field.Description)
	}
	for _, message := range o.options.FieldErrors(field.Name) {
		o.write(depth+1, o.theme.ErrorPrefix+message)
	}
}

func (o outline) write(depth int, text string) {
	o.b.WriteString(strings.Repeat("  ", depth))
	o.b.WriteString(text)
	o.b.WriteByte('\n')
}

func kind(field model.Field) string {
	if isLeaf(field) && field.Input.Type != "" {
		return field.Input.Type
	}
	return string(field.Type)
}

func isLeaf(field model.Field) bool {
	switch field.Type {
	case model.FieldTypeObject, model.FieldTypeArray, model.FieldTypeUnion:
		return false
	}
	return true
}
