// Package schema defines the immutable node algebra forms are resolved
// from: objects with ordered properties, arrays, enums, discriminated unions,
// primitive leaves and the optional/nullable/default/effects wrappers around
// them.
//
// Nodes are built with constructor functions and copy-on-write modifiers:
//
//	user := schema.Object(
//		schema.Prop("name", schema.String().Min(2)),
//		schema.Prop("age", schema.Optional(schema.Int().Min(0))),
//	)
//
// Classify reduces any node to its base Kind. Coerce and JSONSchema prepare
// submitted values for validation.
package schema
