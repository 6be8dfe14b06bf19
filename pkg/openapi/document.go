package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-autoform/pkg/schema"
)

var (
	ErrEmptyDocument     = errors.New("openapi: document payload is empty")
	ErrOperationNotFound = errors.New("openapi: operation not found")
	ErrNoRequestBody     = errors.New("openapi: operation has no request body schema")
)

// requestMediaTypes are tried in order before any other content type.
var requestMediaTypes = []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"}

// Options configures loading.
type Options struct {
	// ExternalRefs allows $ref to other files or URLs.
	ExternalRefs bool
	// SkipValidation loads documents kin-openapi would reject.
	SkipValidation bool
}

// Option mutates Options.
type Option func(*Options)

// WithExternalRefs toggles external reference resolution.
func WithExternalRefs(enabled bool) Option {
	return func(o *Options) { o.ExternalRefs = enabled }
}

// WithoutValidation skips document validation.
func WithoutValidation() Option {
	return func(o *Options) { o.SkipValidation = true }
}

// Operation is one path/method pair with its request schema.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	// Schema is nil when the operation has no request body.
	Schema schema.Node
}

// Document is a loaded OpenAPI document.
type Document struct {
	location   string
	operations map[string]Operation
}

// Load reads and parses the document behind src.
func Load(ctx context.Context, src Source, opts ...Option) (*Document, error) {
	data, err := src.Read()
	if err != nil {
		return nil, err
	}
	doc, err := Parse(ctx, data, opts...)
	if err != nil {
		return nil, err
	}
	doc.location = src.Location()
	return doc, nil
}

// Parse loads an OpenAPI document from YAML or JSON bytes.
func Parse(ctx context.Context, data []byte, opts ...Option) (*Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}
	var options Options
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	loader := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: options.ExternalRefs}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if !options.SkipValidation {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	doc := &Document{operations: make(map[string]Operation)}
	if spec.Paths == nil {
		return doc, nil
	}
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, operation := range item.Operations() {
			op, err := convertOperation(method, path, operation)
			if err != nil {
				return nil, err
			}
			doc.operations[op.ID] = op
		}
	}
	return doc, nil
}

// Location names where the document was loaded from.
func (d *Document) Location() string { return d.location }

// Operations lists operations ordered by ID.
func (d *Document) Operations() []Operation {
	ids := make([]string, 0, len(d.operations))
	for id := range d.operations {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := make([]Operation, len(ids))
	for i, id := range ids {
		out[i] = d.operations[id]
	}
	return out
}

// Operation finds an operation by operationId, or by "method:path" for
// operations without one.
func (d *Document) Operation(id string) (Operation, bool) {
	op, ok := d.operations[id]
	return op, ok
}

// RequestSchema returns the request body schema of the operation.
func (d *Document) RequestSchema(id string) (schema.Node, error) {
	op, ok := d.operations[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOperationNotFound, id)
	}
	if op.Schema == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoRequestBody, id)
	}
	return op.Schema, nil
}

func convertOperation(method, path string, operation *openapi3.Operation) (Operation, error) {
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	op := Operation{
		ID:          id,
		Method:      strings.ToUpper(method),
		Path:        path,
		Summary:     operation.Summary,
		Description: operation.Description,
	}
	body := operation.RequestBody
	if body == nil || body.Value == nil {
		return op, nil
	}

	content := body.Value.Content
	var ref *openapi3.SchemaRef
	for _, mediaType := range requestMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil {
			ref = mt.Schema
			break
		}
	}
	if ref == nil {
		types := make([]string, 0, len(content))
		for mediaType := range content {
			types = append(types, mediaType)
		}
		sort.Strings(types)
		for _, mediaType := range types {
			if mt := content[mediaType]; mt != nil && mt.Schema != nil {
				ref = mt.Schema
				break
			}
		}
	}
	if ref == nil {
		return op, nil
	}

	node, err := convert(ref, "#/requestBody", 0)
	if err != nil {
		return Operation{}, fmt.Errorf("openapi: operation %s: %w", id, err)
	}
	op.Schema = node
	return op, nil
}
