// Package model defines the field descriptors renderers consume and the
// resolver that produces them. Descriptors carry a path, a label, HTML level
// input constraints, required and disabled flags, allowed options and
// nested children or array items. Hidden fields are absent from a model
// rather than flagged. The resolver itself lives in internal/model; this
// package re-exports its types.
package model
