// Package render defines the renderer contract, the renderer registry and
// helpers shared by the concrete renderers: error mapping onto descriptor
// paths and hidden submission fields.
package render
