// Package schemadoc builds schema nodes from declarative YAML or JSON
// documents written in a JSON Schema subset.
//
// Property order follows the document. Supported keywords: type, properties,
// required, items, enum, const, default, nullable, description, format,
// minimum, maximum, multipleOf, minLength, maxLength, pattern, minItems,
// maxItems, formatMinimum, formatMaximum, discriminator with oneOf, and
// local $ref into $defs or definitions.
package schemadoc
