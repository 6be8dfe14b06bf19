// Package orchestrator wires a schema, its UI configuration, a field-state
// controller and the renderer registry into a single reactive Form: values
// go in through Input, Append and Remove, every Resolve runs a fresh pass,
// and Submit hands the coerced, validated value tree to a callback.
package orchestrator
