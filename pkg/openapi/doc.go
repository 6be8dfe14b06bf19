// Package openapi turns OpenAPI 3 operation request bodies into schema
// nodes. Documents are loaded and validated with kin-openapi; callers only
// see schema.Node values.
package openapi
