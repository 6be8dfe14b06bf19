package render

import theme "github.com/goliatone/go-theme"

// RenderOptions carries per-render data that is not part of the resolved
// model.
type RenderOptions struct {
	// FormID scopes element ids and the form element itself.
	FormID      string
	Title       string
	Description string
	SubmitLabel string
	// Action and Method describe where HTML forms post to.
	Action string
	Method string
	// Errors holds field messages keyed by descriptor name (dotted path).
	// FormErrors holds messages that could not be tied to a field.
	Errors     map[string][]string
	FormErrors []string
	// Hidden adds hidden inputs such as CSRF tokens.
	Hidden map[string]string
	// Theme carries resolved go-theme partials, tokens and assets.
	Theme *theme.RendererConfig
}

// FieldErrors returns the messages attached to the descriptor name.
func (o RenderOptions) FieldErrors(name string) []string {
	if len(o.Errors) == 0 {
		return nil
	}
	return o.Errors[name]
}
