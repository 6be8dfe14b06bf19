package validation

import (
	"context"
	"sort"
	"strings"
)

// Issue is one validation failure. Path is the JSON pointer into the value
// tree; Field is the same location as a dotted field path.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Issues is the error returned when a value tree fails validation.
type Issues []Issue

func (i Issues) Error() string {
	if len(i) == 0 {
		return "validation: no issues"
	}
	parts := make([]string, 0, len(i))
	for _, issue := range i {
		if issue.Field == "" {
			parts = append(parts, issue.Message)
			continue
		}
		parts = append(parts, issue.Field+": "+issue.Message)
	}
	return "validation: " + strings.Join(parts, "; ")
}

// ByField groups messages by field path. Issues without a field land under
// the empty key.
func (i Issues) ByField() map[string][]string {
	out := make(map[string][]string, len(i))
	for _, issue := range i {
		out[issue.Field] = append(out[issue.Field], issue.Message)
	}
	return out
}

// normalize drops duplicates and orders issues by field then message.
func (i Issues) normalize() Issues {
	seen := make(map[Issue]struct{}, len(i))
	out := make(Issues, 0, len(i))
	for _, issue := range i {
		if _, ok := seen[issue]; ok {
			continue
		}
		seen[issue] = struct{}{}
		out = append(out, issue)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Field != out[b].Field {
			return out[a].Field < out[b].Field
		}
		return out[a].Message < out[b].Message
	})
	return out
}

// Validator checks a value tree. Implementations return Issues for data
// problems and plain errors for everything else.
type Validator interface {
	Validate(ctx context.Context, values map[string]any) error
}

// ValidatorFunc adapts a function to Validator.
type ValidatorFunc func(ctx context.Context, values map[string]any) error

func (f ValidatorFunc) Validate(ctx context.Context, values map[string]any) error {
	return f(ctx, values)
}

// FieldFromPointer turns a JSON pointer ("/members/0/email") into a dotted
// field path ("members.0.email").
func FieldFromPointer(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(pointer), "#")
	trimmed = strings.TrimPrefix(trimmed, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, ".")
}
