package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-autoform/pkg/schema"
)

const schemaURL = "mem:autoform-schema.json"

// JSONSchemaValidator validates value trees against the JSON Schema export
// of a schema node.
type JSONSchemaValidator struct {
	document map[string]any
	compiled *jsonschema.Schema
}

// NewJSONSchemaValidator compiles the export of node.
func NewJSONSchemaValidator(node schema.Node) (*JSONSchemaValidator, error) {
	document := schema.JSONSchema(node)
	raw, err := json.Marshal(document)
	if err != nil {
		return nil, fmt.Errorf("validation: encode schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(schemaURL, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("validation: add schema: %w", err)
	}
	compiled, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("validation: compile schema: %w", err)
	}
	return &JSONSchemaValidator{document: document, compiled: compiled}, nil
}

// Document returns the exported JSON Schema.
func (v *JSONSchemaValidator) Document() map[string]any {
	return v.document
}

// Validate returns Issues when values do not satisfy the schema.
func (v *JSONSchemaValidator) Validate(ctx context.Context, values map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	instance, err := normalizeInstance(values)
	if err != nil {
		return err
	}

	err = v.compiled.Validate(instance)
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return fmt.Errorf("validation: %w", err)
	}
	issues := collectIssues(validationErr, nil).normalize()
	if len(issues) == 0 {
		return Issues{{Message: strings.TrimSpace(validationErr.Message)}}
	}
	return issues
}

// normalizeInstance round-trips values through JSON so Go numeric types and
// structs reach the validator as JSON values.
func normalizeInstance(values map[string]any) (any, error) {
	if values == nil {
		values = map[string]any{}
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("validation: encode values: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var instance any
	if err := decoder.Decode(&instance); err != nil {
		return nil, fmt.Errorf("validation: decode values: %w", err)
	}
	return instance, nil
}

// collectIssues flattens the cause tree into leaf issues. Missing required
// properties are reported on the missing field rather than on its parent.
func collectIssues(err *jsonschema.ValidationError, out Issues) Issues {
	if err == nil {
		return out
	}
	if len(err.Causes) > 0 {
		for _, cause := range err.Causes {
			out = collectIssues(cause, out)
		}
		return out
	}

	message := strings.TrimSpace(err.Message)
	field := FieldFromPointer(err.InstanceLocation)
	if missing, ok := missingProperties(message); ok {
		for _, name := range missing {
			path := err.InstanceLocation + "/" + name
			out = append(out, Issue{Path: path, Field: FieldFromPointer(path), Message: "is required"})
		}
		return out
	}
	return append(out, Issue{Path: err.InstanceLocation, Field: field, Message: message})
}

func missingProperties(message string) ([]string, bool) {
	const prefix = "missing properties: "
	if !strings.HasPrefix(message, prefix) {
		return nil, false
	}
	var names []string
	for _, part := range strings.Split(strings.TrimPrefix(message, prefix), ",") {
		name := strings.Trim(strings.TrimSpace(part), "'\"")
		if name != "" {
			names = append(names, name)
		}
	}
	return names, len(names) > 0
}
