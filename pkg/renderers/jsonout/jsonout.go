// Package jsonout renders resolved forms as JSON documents for clients that
// draw their own controls.
package jsonout

import (
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-json"
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-autoform/pkg/model"
	"github.com/goliatone/go-autoform/pkg/render"
)

// Option customises the renderer configuration.
type Option func(*Renderer)

// WithIndent pretty prints the output with the given indent.
func WithIndent(indent string) Option {
	return func(r *Renderer) {
		r.indent = indent
	}
}

// Renderer emits a Document per render.
type Renderer struct {
	indent string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Document is the JSON shape of a rendered form.
type Document struct {
	FormID        string              `json:"formId,omitempty"`
	Title         string              `json:"title,omitempty"`
	Description   string              `json:"description,omitempty"`
	Action        string              `json:"action,omitempty"`
	Method        string              `json:"method,omitempty"`
	SubmitLabel   string              `json:"submitLabel,omitempty"`
	Fields        []model.Field       `json:"fields"`
	Subscriptions []string            `json:"subscriptions,omitempty"`
	Errors        map[string][]string `json:"errors,omitempty"`
	FormErrors    []string            `json:"formErrors,omitempty"`
	Hidden        map[string]string   `json:"hidden,omitempty"`
	Theme         *Theme              `json:"theme,omitempty"`
}

// Theme is the serialisable part of a go-theme renderer config.
type Theme struct {
	Name    string            `json:"name,omitempty"`
	Variant string            `json:"variant,omitempty"`
	Tokens  map[string]string `json:"tokens,omitempty"`
	CSSVars map[string]string `json:"cssVars,omitempty"`
}

func (r *Renderer) Name() string {
	return "json"
}

func (r *Renderer) ContentType() string {
	return "application/json"
}

func (r *Renderer) Render(ctx context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc := NewDocument(form, options)

	var (
		payload []byte
		err     error
	)
	if r.indent != "" {
		payload, err = json.MarshalIndent(doc, "", r.indent)
	} else {
		payload, err = json.Marshal(doc)
	}
	if err != nil {
		return nil, fmt.Errorf("jsonout: marshal form: %w", err)
	}
	return append(payload, '\n'), nil
}

// NewDocument assembles the document without encoding it.
func NewDocument(form model.FormModel, options render.RenderOptions) Document {
	fields := form.Fields
	if fields == nil {
		fields = []model.Field{}
	}
	doc := Document{
		FormID:      options.FormID,
		Title:       options.Title,
		Description: options.Description,
		Action:      options.Action,
		Method:      options.Method,
		SubmitLabel: options.SubmitLabel,
		Fields:      fields,
		FormErrors:  render.MergeFormErrors(nil, options.FormErrors...),
		Hidden:      render.MergeHiddenFields(options.Hidden),
		Theme:       themeContext(options.Theme),
	}
	for _, path := range form.Subscriptions {
		doc.Subscriptions = append(doc.Subscriptions, path.String())
	}
	if len(options.Errors) > 0 {
		doc.Errors = make(map[string][]string, len(options.Errors))
		names := make([]string, 0, len(options.Errors))
		for name := range options.Errors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if messages := render.MergeFormErrors(nil, options.Errors[name]...); len(messages) > 0 {
				doc.Errors[name] = messages
			}
		}
	}
	return doc
}

func themeContext(cfg *theme.RendererConfig) *Theme {
	if cfg == nil {
		return nil
	}
	return &Theme{
		Name:    cfg.Theme,
		Variant: cfg.Variant,
		Tokens:  cfg.Tokens,
		CSSVars: cfg.CSSVars,
	}
}
